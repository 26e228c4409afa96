package apperror

import (
	"errors"
	"strings"
)

// Messager is implemented by errors that carry text safe to show to a user.
type Messager interface {
	UserMessage() string
}

// UserMessage returns the first user-facing message found in the error chain,
// or fallback when there is none.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var m Messager
	if errors.As(err, &m) {
		if msg := strings.TrimSpace(m.UserMessage()); msg != "" {
			return msg
		}
	}

	return fallback
}
