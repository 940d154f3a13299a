/*
Package lifecycle drives sales and investments through their time-boxed
payment lifecycle.

PURPOSE:
  A sale or investment starts pending and must be paid off within 15
  working days of its transaction date. Installments are validated as
  they arrive (minimum opening deposit, no overpayment, nothing after the
  due date), and an explicit idempotent sweep settles everything overdue:
  fully paid by the due date becomes paid, anything else is cancelled.

STATES:
  pending -> paid      (fully paid by the due date)
  pending -> cancelled (due date missed, or a late payment discovered it)

  Both paid and cancelled are terminal and accept no further payments.

SIDE EFFECTS:
  - a paid investment activates its owning member and schedules a buyback
  - a cancelled investment deactivates the member unless another paid
    investment exists; the member record itself is never deleted, so the
    network graph and historical commissions stay valid
  - a cancelled sale releases its property and cancels any buyback

FAILURE SEMANTICS:
  Every rule breach is a rejected operation with a reason code and no
  partial mutation: the ledger and the parent's state change atomically
  or not at all.

SEE ALSO:
  - ledger.go: installment bookkeeping against a target amount
  - machine.go: payment validation and the passive sweep
*/
package lifecycle

import (
	"github.com/shopspring/decimal"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
)

// =============================================================================
// PAYMENT - One installment against a sale or investment
// =============================================================================

type Payment struct {
	Amount engine.Money
	Date   engine.TimePoint
}

// =============================================================================
// SALE
// =============================================================================

type SaleStatus string

const (
	SaleActive    SaleStatus = "active"
	SaleCancelled SaleStatus = "cancelled"
)

// Sale is a property sale paid off in installments.
type Sale struct {
	ID          string
	SellerID    network.MemberID
	PropertyID  string // released back to available on cancellation
	AreaSqYd    decimal.Decimal
	TotalAmount engine.Money
	SaleDate    engine.TimePoint
	Status      SaleStatus
	Payments    []Payment

	// Settlement state, written by the lifecycle engine.
	PaymentDone bool
	PaidAmount  engine.Money
	PaidDate    engine.TimePoint
	CancelledAt engine.TimePoint

	// Buyback sub-state: cancelled along with the sale.
	BuybackEnabled   bool
	BuybackCancelled bool
}

// Pending reports whether the sale is still awaiting settlement.
func (s *Sale) Pending() bool { return s.Status == SaleActive && !s.PaymentDone }

// Completed reports whether the sale counts toward stage progression and
// personal commission: not cancelled and fully paid.
func (s *Sale) Completed() bool { return s.Status != SaleCancelled && s.PaymentDone }

// Ledger returns the installment ledger over the sale's payments.
func (s *Sale) Ledger() *Ledger { return NewLedger(s.Payments) }

// =============================================================================
// INVESTMENT
// =============================================================================

type PaymentStatus string

const (
	InvestmentPending   PaymentStatus = "pending"
	InvestmentPaid      PaymentStatus = "paid"
	InvestmentCancelled PaymentStatus = "cancelled"
)

// Investment is a capital investment with a scheduled buyback once fully
// paid. ReturnPercent is the buyback return, at least 100.
type Investment struct {
	ID            string
	PersonID      network.MemberID
	Amount        engine.Money
	AreaSqYd      decimal.Decimal
	Date          engine.TimePoint
	PaymentStatus PaymentStatus
	BuybackMonths int
	ReturnPercent decimal.Decimal
	BuybackDate   *engine.TimePoint // derived: paid date + buyback months
	Payments      []Payment

	PaidAmount  engine.Money
	PaidDate    engine.TimePoint
	CancelledAt engine.TimePoint
}

// Pending reports whether the investment is still awaiting settlement.
func (inv *Investment) Pending() bool { return inv.PaymentStatus == InvestmentPending }

// Qualifies reports whether the investment counts toward override
// commission and member activation: fully paid, not cancelled.
func (inv *Investment) Qualifies() bool { return inv.PaymentStatus == InvestmentPaid }

// Ledger returns the installment ledger over the investment's payments.
func (inv *Investment) Ledger() *Ledger { return NewLedger(inv.Payments) }
