package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/api/healthcheck", app.healthcheckHandler)

	router.HandlerFunc(http.MethodPost, "/api/auth/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/logout", app.logoutUserHandler)

	router.HandlerFunc(http.MethodGet, "/api/users/profile", app.requireAuthenticatedUser(app.profileUserHandler))

	// The GET family under /api/posts mixes static segments (explorer) with
	// id segments, which httprouter cannot hold in one method tree. A single
	// catch-all route feeds getPostsHandler, which dispatches by path.
	router.HandlerFunc(http.MethodGet, "/api/posts", app.requireAuthenticatedUser(app.listBlogsHandler))
	router.HandlerFunc(http.MethodGet, "/api/posts/*path", app.getPostsHandler)

	router.HandlerFunc(http.MethodPost, "/api/posts", app.requireAuthenticatedUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodPut, "/api/posts/:id", app.requireAuthenticatedUser(app.updateBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/api/posts/:id", app.requireAuthenticatedUser(app.deleteBlogHandler))
	router.HandlerFunc(http.MethodPost, "/api/posts/:id/image", app.requireAuthenticatedUser(app.uploadBlogImageHandler))
	router.HandlerFunc(http.MethodDelete, "/api/posts/:id/image", app.requireAuthenticatedUser(app.deleteBlogImageHandler))

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}

// withParam rebuilds the router params so the downstream handlers can keep
// reading ids through readIDParam.
func (app *application) withParam(r *http.Request, name, value string) *http.Request {
	params := httprouter.Params{{Key: name, Value: value}}
	ctx := context.WithValue(r.Context(), httprouter.ParamsKey, params)
	return r.WithContext(ctx)
}

// getPostsHandler routes GET /api/posts/... requests. The explorer subtree
// is public; a bare id is an owner read and requires authentication.
func (app *application) getPostsHandler(w http.ResponseWriter, r *http.Request) {
	rest := httprouter.ParamsFromContext(r.Context()).ByName("path")
	segments := strings.Split(strings.Trim(rest, "/"), "/")

	if segments[0] == "explorer" {
		switch {
		case len(segments) == 2 && segments[1] == "all":
			app.listPublishedBlogsHandler(w, r)
		case len(segments) == 3 && segments[1] == "by-user":
			app.listPublishedBlogsByUserHandler(w, app.withParam(r, "userId", segments[2]))
		case len(segments) == 2:
			app.getPublishedBlogHandler(w, app.withParam(r, "id", segments[1]))
		default:
			app.notFoundResponse(w, r)
		}
		return
	}

	if len(segments) == 1 && segments[0] != "" {
		app.requireAuthenticatedUser(app.getBlogHandler)(w, app.withParam(r, "id", segments[0]))
		return
	}

	app.notFoundResponse(w, r)
}
