package models

import (
	"fmt"
	"strings"

	"github.com/vee4group/order-tracker-api/errs"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the production stage of an order.
//
// Approval flow:
//
//	pending ──┬──> approved ──> designing ──> ... ──> dispatch ──> completed
//	          ├──> rejected
//	          └──> cancelled  (also from approved and designing)
//
// Approve, Reject and Cancel are strict: they only succeed from the listed
// source statuses. Administrative status updates go through SetTo, which only
// checks enum membership.
type Status string

const (
	StatusPending            Status = "pending"
	StatusApproved           Status = "approved"
	StatusRejected           Status = "rejected"
	StatusCancelled          Status = "cancelled"
	StatusDesigning          Status = "designing"
	StatusLaserCutting       Status = "laser_cutting"
	StatusMetalBending       Status = "metal_bending"
	StatusFabricationWelding Status = "fabrication_welding"
	StatusFinishing          Status = "finishing"
	StatusPowderCoating      Status = "powder_coating"
	StatusAssembling         Status = "assembling"
	StatusQualityCheck       Status = "quality_check"
	StatusDispatch           Status = "dispatch"
	StatusCompleted          Status = "completed"
)

// AllStatuses lists every status in pipeline order.
var AllStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
	StatusDesigning,
	StatusLaserCutting,
	StatusMetalBending,
	StatusFabricationWelding,
	StatusFinishing,
	StatusPowderCoating,
	StatusAssembling,
	StatusQualityCheck,
	StatusDispatch,
	StatusCompleted,
}

var cancellableStatuses = map[Status]bool{
	StatusPending:   true,
	StatusApproved:  true,
	StatusDesigning: true,
}

// ParseStatus converts raw input into a Status, rejecting values outside the enum.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Validate reports whether s is one of AllStatuses.
func (s Status) Validate() error {
	for _, known := range AllStatuses {
		if s == known {
			return nil
		}
	}
	return errs.NewValidationError("status", fmt.Sprintf("Invalid status: %s", string(s)))
}

func (s Status) String() string {
	return string(s)
}

// Label is the human form of the status, e.g. "Laser Cutting".
func (s Status) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}

// IsTerminal reports whether no further workflow is expected.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// IsCancellable reports whether a customer may still cancel from this status.
func (s Status) IsCancellable() bool {
	return cancellableStatuses[s]
}

// Approve transitions pending -> approved.
func (s Status) Approve() (Status, error) {
	if s != StatusPending {
		return "", errs.NewPreconditionError(string(s), string(StatusApproved),
			fmt.Sprintf("Only pending orders can be approved (current status: %s)", s))
	}
	return StatusApproved, nil
}

// Reject transitions pending -> rejected.
func (s Status) Reject() (Status, error) {
	if s != StatusPending {
		return "", errs.NewPreconditionError(string(s), string(StatusRejected),
			fmt.Sprintf("Only pending orders can be rejected (current status: %s)", s))
	}
	return StatusRejected, nil
}

// Cancel transitions {pending, approved, designing} -> cancelled.
func (s Status) Cancel() (Status, error) {
	if !s.IsCancellable() {
		return "", errs.NewPreconditionError(string(s), string(StatusCancelled),
			fmt.Sprintf("Order cannot be cancelled at the %s stage", s.Label()))
	}
	return StatusCancelled, nil
}

// SetTo is the permissive administrative transition: any known status is accepted
// from any source.
func (s Status) SetTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	return target, nil
}
