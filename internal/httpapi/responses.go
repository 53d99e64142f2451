package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"empowerorphansweb/internal/domain"
)

// Result is the envelope every JSON action returns: Success tells the client
// whether to re-render, Error carries the user-facing message on failure.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteData(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Result{Success: true, Data: data})
}

func WriteSuccess(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, Result{Success: true})
}

func WriteFailure(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Result{Success: false, Error: message})
}

// WriteDomainError maps a service error onto the Result envelope. Validation
// and rate-limit errors surface their own message; everything else gets a
// fixed string so internals never leak to the client.
func WriteDomainError(w http.ResponseWriter, err error) {
	var rl *domain.RateLimitedError
	if errors.As(err, &rl) {
		WriteFailure(w, http.StatusTooManyRequests, rl.Error())
		return
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		WriteFailure(w, http.StatusBadRequest, verr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteFailure(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, domain.ErrUnauthorized):
		WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrUserDisabled):
		WriteFailure(w, http.StatusForbidden, "This account is disabled")
	case errors.Is(err, domain.ErrForbidden):
		WriteFailure(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrNotFound):
		WriteFailure(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrEmailTaken):
		WriteFailure(w, http.StatusConflict, "Email already in use")
	default:
		WriteFailure(w, http.StatusInternalServerError, "Something went wrong")
	}
}
