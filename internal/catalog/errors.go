package catalog

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrDuplicateID     = errors.New("product id already exists")
	ErrOperationFailed = errors.New("catalog operation failed")
)

// FieldError is one rejected form field.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// ValidationError carries every field message of a rejected form. The store
// is never touched when it is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
