package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/appetiteclub/storefront/services/storefront/internal/apperror"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend status %d", e.Status)
	}
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
}

// UserMessage is the backend's own explanation, if it gave one.
func (e *APIError) UserMessage() string {
	return e.Message
}

// ParseError means a 2xx body did not match the expected shape.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: invalid response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UserMessage maps err to text fit for the user.
func UserMessage(err error, fallback string) string {
	return apperror.UserMessage(err, fallback)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
