// Package requestctx carries request scoped values (authenticated user, nested route scope,
// uploaded file names) through context.Context.
package requestctx

import (
	"context"

	"github.com/alimikegami/e-commerce/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
)

type ctxKey int

const (
	userKey ctxKey = iota
	scopeKey
	uploadsKey
)

func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func User(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userKey).(domain.User)
	return user, ok
}

// WithScope adds conditions that every lookup in this request must satisfy.
func WithScope(ctx context.Context, scope bson.M) context.Context {
	merged := Scope(ctx)
	for k, v := range scope {
		merged[k] = v
	}
	return context.WithValue(ctx, scopeKey, merged)
}

// Scope returns a copy of the current scope, never nil.
func Scope(ctx context.Context) bson.M {
	out := bson.M{}
	if scope, ok := ctx.Value(scopeKey).(bson.M); ok {
		for k, v := range scope {
			out[k] = v
		}
	}
	return out
}

func WithUploads(ctx context.Context, files map[string][]string) context.Context {
	return context.WithValue(ctx, uploadsKey, files)
}

func Uploads(ctx context.Context, field string) []string {
	files, _ := ctx.Value(uploadsKey).(map[string][]string)
	return files[field]
}

func Upload(ctx context.Context, field string) string {
	if files := Uploads(ctx, field); len(files) > 0 {
		return files[0]
	}
	return ""
}
