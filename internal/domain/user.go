package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

type User struct {
	ID                    primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name                  string               `bson:"name" json:"name"`
	Slug                  string               `bson:"slug,omitempty" json:"slug,omitempty"`
	Email                 string               `bson:"email" json:"email"`
	Phone                 string               `bson:"phone,omitempty" json:"phone,omitempty"`
	ProfileImg            string               `bson:"profileImg,omitempty" json:"profileImg,omitempty"`
	Password              string               `bson:"password" json:"-"`
	PasswordChangedAt     *time.Time           `bson:"passwordChangedAt,omitempty" json:"passwordChangedAt,omitempty"`
	PasswordResetCode     string               `bson:"passwordResetCode,omitempty" json:"-"`
	PasswordResetExpires  *time.Time           `bson:"passwordResetExpires,omitempty" json:"-"`
	PasswordResetVerified *bool                `bson:"passwordResetVerified,omitempty" json:"-"`
	Role                  string               `bson:"role" json:"role"`
	Active                bool                 `bson:"active" json:"active"`
	Wishlist              []primitive.ObjectID `bson:"wishlist,omitempty" json:"wishlist,omitempty"`
	Addresses             []Address            `bson:"addresses,omitempty" json:"addresses,omitempty"`
	CreatedAt             time.Time            `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt             time.Time            `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// ChangedPasswordAfter reports whether the password changed after a token issued at iat (unix seconds).
func (u User) ChangedPasswordAfter(iat int64) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > iat
}

func (u User) HasRole(roles ...string) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

type Address struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Alias      string             `bson:"alias,omitempty" json:"alias,omitempty"`
	Details    string             `bson:"details,omitempty" json:"details,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	City       string             `bson:"city,omitempty" json:"city,omitempty"`
	PostalCode string             `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
}

type UserSummary struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name,omitempty"`
}

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Review    string             `bson:"review,omitempty" json:"review,omitempty"`
	Rating    float64            `bson:"rating" json:"rating"`
	UserID    primitive.ObjectID `bson:"user" json:"-"`
	User      *UserSummary       `bson:"-" json:"user,omitempty"`
	Product   primitive.ObjectID `bson:"product" json:"product"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}
