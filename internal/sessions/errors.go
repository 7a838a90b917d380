package sessions

import (
	"errors"
	"net/http"
)

// Domain errors for session operations.
var (
	ErrNotFound        = errors.New("session not found")
	ErrVersionConflict = errors.New("session was modified by another writer")
	ErrTurnInFlight    = errors.New("a turn is already in flight for this session")
)

// MapHTTPStatus maps session domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrTurnInFlight) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
