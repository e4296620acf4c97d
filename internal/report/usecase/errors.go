package usecase

import (
	"errors"
	"fmt"
)

var ErrInvalidReport = errors.New("invalid report")

// ValidationError describes the first report field that failed validation.
type ValidationError struct {
	Field  string // JSON name of the field
	Rule   string // "required" or "max"
	Length int
	Limit  int
}

func (e *ValidationError) Error() string {
	if e.Rule == "required" {
		return fmt.Sprintf("%s should not be empty", e.Field)
	}
	return fmt.Sprintf("%s is too long %d (max %d)", e.Field, e.Length, e.Limit)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidReport
}
