package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Error   any    `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, status int, message string, data any, headers http.Header) error {
	env := envelope{
		Success: true,
		Message: message,
		Data:    data,
	}

	return app.writeEnvelope(w, status, env, headers)
}

func (app *application) writeEnvelope(w http.ResponseWriter, status int, env envelope, headers http.Header) error {
	js, err := json.Marshal(env)
	if err != nil {
		return err
	}

	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

func (app *application) parseJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)

		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

		case errors.As(err, &invalidUnmarshalError):
			panic(err)

		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func (app *application) readIDParam(r *http.Request, name string) (int, error) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.Atoi(params.ByName(name))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}

	return id, nil
}

func (app *application) readPageLimitParams(r *http.Request) (int, int, error) {
	qs := r.URL.Query()

	page, err := app.readInt(qs, "page", 1)
	if err != nil {
		return 0, 0, err
	}

	limit, err := app.readInt(qs, "limit", 10)
	if err != nil {
		return 0, 0, err
	}

	return page, limit, nil
}

func (app *application) readInt(qs map[string][]string, key string, defaultValue int) (int, error) {
	values, ok := qs[key]
	if !ok || len(values) == 0 || values[0] == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be an integer", key)
	}

	return n, nil
}

// extractToken returns the bearer token from the Authorization header, falling
// back to the idToken cookie set at login. An empty token with a nil error
// means the request is anonymous.
func (app *application) extractToken(r *http.Request) (string, error) {
	authorizationHeader := r.Header.Get("Authorization")
	if authorizationHeader != "" {
		headerParts := strings.Split(authorizationHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			return "", errors.New("invalid authorization header")
		}
		return headerParts[1], nil
	}

	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		return "", nil
	}

	return cookie.Value, nil
}
