package ctxkeys

import (
	"context"

	"github.com/otion-app/otion/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey      contextKey = "user"
	VisitorIDKey contextKey = "visitor_id"
)

func User(ctx context.Context) *model.AuthUser {
	user, _ := ctx.Value(UserKey).(*model.AuthUser)
	return user
}

func WithUser(ctx context.Context, user *model.AuthUser) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserID returns the signed-in user's id, or "" for guests.
func UserID(ctx context.Context) string {
	if user := User(ctx); user != nil {
		return user.ID
	}
	return ""
}

func VisitorID(ctx context.Context) string {
	id, _ := ctx.Value(VisitorIDKey).(string)
	return id
}

func WithVisitorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, VisitorIDKey, id)
}
