package requestctx

import (
	"context"
	"testing"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestScopeMergesAndCopies(t *testing.T) {
	productID := primitive.NewObjectID()
	ctx := WithScope(context.Background(), bson.M{"product": productID})
	ctx = WithScope(ctx, bson.M{"user": "u1"})

	scope := Scope(ctx)
	assert.Equal(t, bson.M{"product": productID, "user": "u1"}, scope)

	scope["other"] = 1
	assert.NotContains(t, Scope(ctx), "other")
}

func TestScopeEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, Scope(context.Background()))
}

func TestUserAndUploads(t *testing.T) {
	ctx := WithUser(context.Background(), domain.User{Name: "Ahmed", Role: domain.RoleUser})
	ctx = WithUploads(ctx, map[string][]string{"images": {"a.jpeg", "b.jpeg"}})

	user, ok := User(ctx)
	assert.True(t, ok)
	assert.Equal(t, "Ahmed", user.Name)
	assert.Equal(t, []string{"a.jpeg", "b.jpeg"}, Uploads(ctx, "images"))
	assert.Equal(t, "a.jpeg", Upload(ctx, "images"))
	assert.Equal(t, "", Upload(ctx, "imageCover"))

	_, ok = User(context.Background())
	assert.False(t, ok)
}
