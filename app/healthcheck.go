package main

import "net/http"

func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":      "available",
		"environment": app.config.Environment,
		"version":     app.config.Version,
	}

	err := app.writeJSON(w, http.StatusOK, "OK", data, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
