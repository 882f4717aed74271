// Package errs defines the error taxonomy shared by the order workflow and the
// HTTP layer.
//
// Each kind has a sentinel (for errors.Is) and a struct carrying details (for
// errors.As). Controllers translate kinds into status codes; DeliveryError never
// reaches a controller because fanout failures are recorded, not returned.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrPrecondition  = errors.New("precondition failed")
	ErrAuthorization = errors.New("not authorized")
	ErrNotFound      = errors.New("not found")
	ErrDelivery      = errors.New("delivery failed")
)

// ValidationError reports malformed input such as an unknown status value.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// PreconditionError reports a transition attempted from a disallowed source status.
type PreconditionError struct {
	Current   string
	Requested string
	Message   string
}

func NewPreconditionError(current, requested, message string) *PreconditionError {
	return &PreconditionError{Current: current, Requested: requested, Message: message}
}

func (e *PreconditionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("cannot move order from %s to %s", e.Current, e.Requested)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}

// AuthorizationError reports an actor acting on a resource it does not own.
type AuthorizationError struct {
	Message string
}

func NewAuthorizationError(message string) *AuthorizationError {
	return &AuthorizationError{Message: message}
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func (e *AuthorizationError) Unwrap() error {
	return ErrAuthorization
}

// NotFoundError reports a missing order, notification or user.
type NotFoundError struct {
	Resource string
	ID       any
}

func NewNotFoundError(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// DeliveryError describes one failed (channel, recipient) attempt. It is only ever
// recorded in a fanout result and logged.
type DeliveryError struct {
	Channel string
	Address string
	Cause   error
}

func NewDeliveryError(channel, address string, cause error) *DeliveryError {
	return &DeliveryError{Channel: channel, Address: address, Cause: cause}
}

func (e *DeliveryError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s delivery to %s failed", e.Channel, e.Address)
	}
	return fmt.Sprintf("%s delivery to %s failed: %v", e.Channel, e.Address, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *DeliveryError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDelivery}
	}
	return []error{ErrDelivery, e.Cause}
}
