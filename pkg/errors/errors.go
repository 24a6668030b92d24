package errors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrBadRequest          = errors.New("bad request")
	ErrInternalServer      = errors.New("internal server error")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRequestNotFound     = errors.New("service request not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrChatNotFound        = errors.New("chat not found")

	// ErrBackendUnavailable - falla transitoria contra el backend; el poller
	// la traga y reintenta en el proximo tick
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrActionFailed - fallo una mutacion explicita del usuario; se muestra,
	// nunca se reintenta automaticamente
	ErrActionFailed = errors.New("action failed")

	// ErrPollGaveUp - el sondeo acotado agoto sus intentos; la UI debe
	// ofrecer refresco manual
	ErrPollGaveUp = errors.New("polling gave up")
)

type APIError struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}

// IsTransient reporta si el error se recupera saltando el tick actual
func IsTransient(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

func HTTPStatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrReservationNotFound), errors.Is(err, ErrChatNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrBackendUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ErrActionFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
