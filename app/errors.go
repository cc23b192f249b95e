package main

import (
	"fmt"
	"net/http"
)

func (app *application) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(), "request_method", r.Method, "request_url", r.URL.String())
}

func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string, detail any) {
	env := envelope{
		Success: false,
		Message: message,
		Error:   detail,
	}

	err := app.writeEnvelope(w, status, env, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	detail := "the server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, "Internal Server Error", detail)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, "Bad Request", err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "Not Found", "the requested resource could not be found")
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	detail := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, "Method Not Allowed", detail)
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	app.errorResponse(w, r, http.StatusUnprocessableEntity, "Validation Failed", errors)
}

func (app *application) unauthorizedResponse(w http.ResponseWriter, r *http.Request, detail string) {
	app.errorResponse(w, r, http.StatusUnauthorized, "Unauthorized", detail)
}

func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.unauthorizedResponse(w, r, "invalid or missing authentication token")
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, detail string) {
	app.errorResponse(w, r, http.StatusConflict, "Conflict", detail)
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
}

func (app *application) serviceUnavailableResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusServiceUnavailable, "Service Unavailable", "the identity provider could not be reached")
}
