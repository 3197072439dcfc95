// Package respond writes JSON bodies and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

const maxBodyBytes = 1 << 20

// Detail messages shared with tests and clients.
const (
	DetailNotAuthenticated   = "Authentication credentials were not provided."
	DetailInvalidHeader      = "Invalid authorization header"
	DetailUserInactive       = "User not found or inactive"
	DetailInvalidToken       = "Invalid token"
	DetailTokenExpired       = "Token expired"
	DetailWrongTokenType     = "Wrong token type"
	DetailInvalidCredentials = "Invalid credentials"
	DetailRefreshRequired    = "Refresh token required"
	DetailRefreshNotFound    = "Refresh not found"
	DetailRefreshInactive    = "Refresh revoked or expired"
	DetailForbidden          = "You do not have permission to perform this action."
	DetailForbiddenOwnScope  = "Forbidden by scope OWN"
	DetailNotFound           = "Not found."
	DetailEmailTaken         = "user with this email already exists."
	DetailConflict           = "Object already exists."
	DetailInternal           = "internal server error"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"detail": detail}. A 401 carries the bearer challenge.
func Error(w http.ResponseWriter, status int, detail string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}
	JSON(w, status, ErrorBody{Detail: detail})
}

// Status returns the HTTP status and client-facing detail for err.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrRefreshRequired):
		return http.StatusBadRequest, DetailRefreshRequired
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, DetailInvalidCredentials
	case errors.Is(err, model.ErrRefreshNotFound):
		return http.StatusUnauthorized, DetailRefreshNotFound
	case errors.Is(err, model.ErrRefreshInactive):
		return http.StatusUnauthorized, DetailRefreshInactive
	case errors.Is(err, model.ErrTokenExpired):
		return http.StatusUnauthorized, DetailTokenExpired
	case errors.Is(err, model.ErrWrongTokenType):
		return http.StatusUnauthorized, DetailWrongTokenType
	case errors.Is(err, model.ErrTokenInvalid):
		return http.StatusUnauthorized, DetailInvalidToken
	case errors.Is(err, model.ErrInvalidAuthHeader):
		return http.StatusUnauthorized, DetailInvalidHeader
	case errors.Is(err, model.ErrUserInactive):
		return http.StatusUnauthorized, DetailUserInactive
	case errors.Is(err, model.ErrAuthenticationFailed):
		return http.StatusUnauthorized, DetailNotAuthenticated

	case errors.Is(err, model.ErrForbiddenByOwnScope):
		return http.StatusForbidden, DetailForbiddenOwnScope
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, DetailForbidden

	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, DetailNotFound
	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict, DetailEmailTaken
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, DetailConflict

	default:
		return http.StatusInternalServerError, DetailInternal
	}
}

// FromError writes the response for err. Unmapped errors are logged.
func FromError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	status, detail := Status(err)
	if status == http.StatusInternalServerError {
		log.Error("HTTP: unhandled error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
	}
	Error(w, status, detail)
}

// Decode reads a JSON object into v, rejecting unknown fields and trailing data.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", model.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON: %s", model.ErrInvalidInput, err.Error())
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", model.ErrInvalidInput)
	}
	return nil
}
