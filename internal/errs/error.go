package errs

import (
	"errors"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrOutOfStock     = errors.New("no copies available")
	ErrLimitExceeded  = errors.New("member has reached the borrow limit")
	ErrRenewalLimit   = errors.New("maximum renewals reached")
	ErrAlreadyOverdue = errors.New("record is overdue")
	ErrAlreadyPending = errors.New("a request is already pending for this record")
	ErrInvalidRange   = errors.New("requested days must be between 1 and 30")
	ErrForbidden      = errors.New("staff access required")
)

type ValidationErrorResponse struct {
	Message string `json:"message"`
	Errors  struct {
		AdditionalProperties string `json:"additionalProperties"`
	} `json:"errors"`
}
