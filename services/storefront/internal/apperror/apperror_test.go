package apperror

import (
	"errors"
	"fmt"
	"testing"
)

type messageError struct {
	msg string
}

func (e *messageError) Error() string       { return "backend: " + e.msg }
func (e *messageError) UserMessage() string { return e.msg }

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: errors.New("dial tcp: refused"), want: "fallback"},
		{name: "messager", err: &messageError{msg: "out of stock"}, want: "out of stock"},
		{name: "wrapped", err: fmt.Errorf("submit: %w", &messageError{msg: "closed"}), want: "closed"},
		{name: "blankMessage", err: &messageError{msg: "  "}, want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err, "fallback"); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
