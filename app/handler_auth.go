package main

import (
	"errors"
	"net/http"

	"postly/internal/common"
	"postly/internal/identity"
	"postly/internal/userservice"
)

const authCookieName = "idToken"

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := common.NewValidator()
	v.Check(input.Email != "", "email", "must be provided")
	v.Check(userservice.EmailRX.MatchString(input.Email), "email", "must be a valid email address")
	userservice.ValidatePassword(v, input.Password)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	account, err := app.identity.CreateAccount(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailTaken):
			app.conflictResponse(w, r, "a user with this email address already exists")
		case errors.Is(err, identity.ErrProviderUnavailable):
			app.serviceUnavailableResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	user, err := app.userService.CreateUser(r.Context(), account.ExternalID, account.Email)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, "User registered successfully", user, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := common.NewValidator()
	v.Check(input.Email != "", "email", "must be provided")
	v.Check(input.Password != "", "password", "must be provided")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	token, err := app.identity.VerifyPassword(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUserNotFound):
			app.unauthorizedResponse(w, r, "user not found")
		case errors.Is(err, identity.ErrInvalidPassword):
			app.unauthorizedResponse(w, r, "invalid password")
		case errors.Is(err, identity.ErrInvalidCredentials):
			app.unauthorizedResponse(w, r, "invalid credentials")
		case errors.Is(err, identity.ErrProviderUnavailable):
			app.serviceUnavailableResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token.IDToken,
		Path:     "/",
		MaxAge:   token.ExpiresIn,
		HttpOnly: true,
		Secure:   app.config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	err = app.writeJSON(w, http.StatusOK, "User logged in successfully", token, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   app.config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	err := app.writeJSON(w, http.StatusOK, "User logged out successfully", nil, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
