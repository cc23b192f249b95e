package main

import (
	"errors"
	"net/http"

	"postly/internal/userservice"
)

func (app *application) profileUserHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	profile, err := app.userService.Profile(r.Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, "Profile fetched successfully", profile, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
