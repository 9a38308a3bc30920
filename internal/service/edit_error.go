package service

import (
	"strings"

	"tree-editor-be/internal/dto"
)

// EditError carries field-level messages for a rejected edit. It is
// recoverable: the session stays alive and the user may resubmit.
type EditError struct {
	Fields []dto.FieldError
}

func (e *EditError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "edit rejected: " + strings.Join(parts, "; ")
}

func fieldError(field, message string) *EditError {
	return &EditError{Fields: []dto.FieldError{{Field: field, Message: message}}}
}
