package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

type TokenClaims struct {
	UserID   string
	IssuedAt int64
}

func CreateJWTToken(userID string, jwtSecretKey string, expiresIn time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{}
	claims["userId"] = userID
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(expiresIn).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecretKey))
}

// ParseJWTToken verifies signature and expiry and returns the user id and issue time.
func ParseJWTToken(tokenString string, jwtSecretKey string) (claims TokenClaims, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil {
		return claims, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return claims, errors.New("invalid token")
	}

	userID, ok := mapClaims["userId"].(string)
	if !ok || userID == "" {
		return claims, errors.New("token has no user id")
	}

	iat, ok := mapClaims["iat"].(float64)
	if !ok {
		return claims, errors.New("token has no issue time")
	}

	return TokenClaims{UserID: userID, IssuedAt: int64(iat)}, nil
}
