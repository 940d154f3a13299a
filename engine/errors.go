/*
errors.go - Centralized error types for the commission engine

PURPOSE:
  All error categories in one place so packages agree on what is fatal,
  what is a rejected operation, and what is merely tolerated.

ERROR CATEGORIES:
  1. Policy violations - Business-rule breaches on payments; surfaced to
     the caller as rejected operations with a reason code
  2. Validation errors - Bad input shape (unparseable dates); recovered
     locally with a fallback
  3. Integrity warnings - Dangling references in loaded data; traversal
     tolerates them instead of failing the whole computation

USAGE:
  Domain packages wrap the sentinels with context:

    if errors.Is(err, engine.ErrPastDueDate) {
        // parent was force-cancelled, payment rejected
    }

SEE ALSO:
  - lifecycle: produces PaymentRejectedError on every rule breach
  - rates: recovers from ErrUnparseableDate by resolving to latest entry
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnparseableDate is returned when a date string matches no accepted
	// layout. Recoverable: rate resolution falls back to the latest entry,
	// stage counting skips the record.
	ErrUnparseableDate = errors.New("unparseable date")

	// ErrMemberNotFound is returned when a computation targets an id that
	// is not in the network index.
	ErrMemberNotFound = errors.New("member not found")

	// ErrSaleNotFound is returned for a payment against an unknown sale.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrInvestmentNotFound is returned for a payment against an unknown
	// investment.
	ErrInvestmentNotFound = errors.New("investment not found")

	// ErrAlreadySettled is returned for a payment against a parent that
	// already reached the paid state.
	ErrAlreadySettled = errors.New("already settled")

	// ErrAlreadyCancelled is returned for a payment against a cancelled
	// parent. Terminal states accept no further payments.
	ErrAlreadyCancelled = errors.New("already cancelled")

	// ErrFirstPaymentTooSmall is returned when the opening installment is
	// below the minimum deposit (10% of the target amount).
	ErrFirstPaymentTooSmall = errors.New("first payment below minimum deposit")

	// ErrOverpayment is returned when a payment would push the paid total
	// above the target amount.
	ErrOverpayment = errors.New("payment exceeds target amount")

	// ErrPastDueDate is returned for a payment dated after the working-day
	// due date. The parent is force-cancelled; the payment is the trigger
	// for discovering the breach, not the cause of it.
	ErrPastDueDate = errors.New("payment dated after due date")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PaymentRejectedError reports a rejected payment with its reason code.
// The ledger and the parent's state are unchanged when this is returned,
// except for the past-due case where the parent has been force-cancelled.
type PaymentRejectedError struct {
	TargetID  string
	Reason    string // "terminal_state", "first_payment_floor", "overpayment", "past_due"
	Attempted Money
	Paid      Money
	Target    Money
	DueDate   TimePoint

	// ReleasedProperty names the property freed when the rejection
	// force-cancelled a sale that held one.
	ReleasedProperty string

	sentinel error
}

func NewPaymentRejected(targetID, reason string, sentinel error) *PaymentRejectedError {
	return &PaymentRejectedError{TargetID: targetID, Reason: reason, sentinel: sentinel}
}

func (e *PaymentRejectedError) Error() string {
	return fmt.Sprintf("payment rejected (%s): %s on %s", e.Reason, e.sentinel, e.TargetID)
}

func (e *PaymentRejectedError) Unwrap() error { return e.sentinel }

// IntegrityWarning records a tolerated inconsistency in loaded data, such
// as a sponsor id pointing at a member that does not exist.
type IntegrityWarning struct {
	Kind    string // e.g. "dangling_sponsor", "unparseable_join_date"
	Subject string
	Detail  string
}

func (w IntegrityWarning) String() string {
	return fmt.Sprintf("%s: %s (%s)", w.Kind, w.Subject, w.Detail)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsPolicyViolation reports whether the error is a business-rule breach
// rather than bad input or a missing record.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrAlreadySettled) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, ErrFirstPaymentTooSmall) ||
		errors.Is(err, ErrOverpayment) ||
		errors.Is(err, ErrPastDueDate)
}

// IsClientError reports whether the error is due to invalid caller input.
func IsClientError(err error) bool {
	return IsPolicyViolation(err) || errors.Is(err, ErrUnparseableDate)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrSaleNotFound) ||
		errors.Is(err, ErrInvestmentNotFound)
}
