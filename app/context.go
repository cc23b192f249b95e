package main

import (
	"context"
	"net/http"

	"postly/internal/userservice"
)

type contextKey string

const userContextKey = contextKey("user")

// requestUser pairs the stored user record with the claims carried by the
// token that authenticated the request.
type requestUser struct {
	*userservice.User
	Claims map[string]any
}

var anonymousRequestUser = &requestUser{User: &userservice.AnonymousUser}

func (app *application) contextSetUser(r *http.Request, user *requestUser) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func (app *application) contextGetUser(r *http.Request) *requestUser {
	user, ok := r.Context().Value(userContextKey).(*requestUser)
	if !ok {
		panic("missing user value in request context")
	}

	return user
}
