package finder

import (
	"errors"

	"github.com/GriffinCanCode/domfinder/internal/dom"
	"github.com/GriffinCanCode/domfinder/internal/selector"
)

var ErrElementNotFound = errors.New("element not found")

// NotFoundError is returned by the Find family once polling is exhausted.
// It matches ErrElementNotFound and, when a backend query failed, the
// last backend error.
type NotFoundError struct {
	Message  string
	Selector *selector.Selector
	Cause    error
}

// Error returns the not-found message
func (e *NotFoundError) Error() string {
	return e.Message
}

// Unwrap exposes ErrElementNotFound and the last backend error
func (e *NotFoundError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrElementNotFound, e.Cause}
	}
	return []error{ErrElementNotFound}
}

// notFound picks the message: explicit option, kind hook, then the default
func notFound(scope dom.Node, sel *selector.Selector, cause error) *NotFoundError {
	msg := sel.Options().Message
	if msg == "" {
		msg = sel.FailureMessage(scope)
	}
	if msg == "" {
		msg = "Unable to find " + sel.String()
	}
	return &NotFoundError{Message: msg, Selector: sel, Cause: cause}
}
