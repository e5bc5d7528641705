package utils

import (
	"context"
	"net/http"

	"obiabedidi/globals"
	"obiabedidi/models"
)

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, globals.UserKey, u)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(globals.UserKey).(*models.User)
	return u
}

func GetUserIDFromRequest(r *http.Request) string {
	if u := UserFromContext(r.Context()); u != nil {
		return u.ID
	}
	return ""
}
