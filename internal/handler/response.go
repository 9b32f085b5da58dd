package handler

import (
	"strings"

	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

// validationMessage достает человекочитаемую часть из обёрнутой
// apperrors.ErrValidation ("validation failed: points must be ..." ->
// "Points must be ...")
func validationMessage(err error) string {
	msg := err.Error()
	prefix := apperrors.ErrValidation.Error() + ": "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		msg = msg[idx+len(prefix):]
	}
	if msg == "" {
		return "Invalid request data"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
