// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity does not exist.
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// Helper constructor
func NewNotFound(entity, id string) error {
	return &ErrNotFound{Entity: entity, ID: id}
}

func IsNotFound(err error) bool {
	var e *ErrNotFound
	return errors.As(err, &e)
}

// ErrInvalidPolicy means a campaign pricing policy is misconfigured
// (e.g. floor above ceiling). Never auto-corrected.
type ErrInvalidPolicy struct {
	Reason string
}

func (e *ErrInvalidPolicy) Error() string {
	return fmt.Sprintf("invalid pricing policy: %s", e.Reason)
}

func NewInvalidPolicy(reason string) error {
	return &ErrInvalidPolicy{Reason: reason}
}

func IsInvalidPolicy(err error) bool {
	var e *ErrInvalidPolicy
	return errors.As(err, &e)
}

// ErrMissingRequiredFactor means a policy declares a demographic attribute
// the school record does not carry.
type ErrMissingRequiredFactor struct {
	Factor string
}

func (e *ErrMissingRequiredFactor) Error() string {
	return fmt.Sprintf("school record is missing required pricing factor %q", e.Factor)
}

func NewMissingRequiredFactor(factor string) error {
	return &ErrMissingRequiredFactor{Factor: factor}
}

func IsMissingRequiredFactor(err error) bool {
	var e *ErrMissingRequiredFactor
	return errors.As(err, &e)
}

// ErrSuppressed means the contact is on the do-not-contact list. This is an
// expected business outcome, not a defect.
type ErrSuppressed struct {
	Email string
}

func (e *ErrSuppressed) Error() string {
	return fmt.Sprintf("contact %s is on the do-not-contact list", e.Email)
}

func NewSuppressed(email string) error {
	return &ErrSuppressed{Email: email}
}

func IsSuppressed(err error) bool {
	var e *ErrSuppressed
	return errors.As(err, &e)
}

// ErrRateLimited means the organization has exhausted its daily send cap.
type ErrRateLimited struct {
	OrgID string
	Cap   int
}

func (e *ErrRateLimited) Error() string {
	return fmt.Sprintf("daily send cap of %d reached for organization %s", e.Cap, e.OrgID)
}

func NewRateLimited(orgID string, cap int) error {
	return &ErrRateLimited{OrgID: orgID, Cap: cap}
}

func IsRateLimited(err error) bool {
	var e *ErrRateLimited
	return errors.As(err, &e)
}

// ErrInvalidTransition indicates a caller bug: the email is not in a state
// the requested operation is legal from. State is left unchanged.
type ErrInvalidTransition struct {
	From string
	To   string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("illegal email status transition %s -> %s", e.From, e.To)
}

func NewInvalidTransition(from, to string) error {
	return &ErrInvalidTransition{From: from, To: to}
}

func IsInvalidTransition(err error) bool {
	var e *ErrInvalidTransition
	return errors.As(err, &e)
}

// ErrConflict means an operation would violate a uniqueness invariant, e.g.
// drafting a second in-flight email for the same contact and campaign.
type ErrConflict struct {
	Reason string
}

func (e *ErrConflict) Error() string {
	return e.Reason
}

func NewConflict(reason string) error {
	return &ErrConflict{Reason: reason}
}

func IsConflict(err error) bool {
	var e *ErrConflict
	return errors.As(err, &e)
}

// ErrValidation means a request payload failed a field-level check.
type ErrValidation struct {
	Reason string
}

func (e *ErrValidation) Error() string {
	return e.Reason
}

func NewValidation(reason string) error {
	return &ErrValidation{Reason: reason}
}

func IsValidation(err error) bool {
	var e *ErrValidation
	return errors.As(err, &e)
}
