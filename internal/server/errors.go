package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/toc-cloud/toc-cloud/internal/assist"
	"github.com/toc-cloud/toc-cloud/internal/config"
	"github.com/toc-cloud/toc-cloud/internal/db"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a cloud or solution that does not exist or is not visible
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrAssistUnavailable indicates no completion service is configured
type ErrAssistUnavailable struct{}

func (e *ErrAssistUnavailable) Error() string {
	return "assist is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrUserNotFound, *ErrNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrAssistUnavailable:
		return http.StatusServiceUnavailable
	}

	var requestErr *assist.RequestError
	var serviceErr *assist.ServiceError
	switch {
	case errors.Is(err, db.ErrCloudNotFound), errors.Is(err, db.ErrSolutionNotFound):
		return http.StatusNotFound
	case errors.Is(err, config.ErrPasswordTooShort), errors.Is(err, config.ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.As(err, &requestErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &serviceErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
