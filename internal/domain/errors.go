package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrValidation      = errors.New("validation failed")
)

// ReviewIncompleteMessage is shown inline when a review submission is missing fields.
const ReviewIncompleteMessage = "Please fill in all fields and select a rating."

// ValidationError carries a user-facing message for a rejected intent.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
