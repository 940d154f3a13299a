/*
machine.go - Payment validation and the passive sweep

PURPOSE:
  The Engine is the single writer of lifecycle state. It validates each
  incoming installment against the parent's state and due date, and its
  Sweep settles every pending item whose due date has passed.

DUE DATE:
  transaction date + 15 working days. The date is computed by stepping
  day by day and decrementing the remaining count only on weekdays, so
  Saturdays and Sundays never consume a day.

PAYMENT RULES (each breach is a rejected operation, no partial mutation):
  1. Terminal parent (paid or cancelled): rejected
  2. First installment below 10% of the target: rejected
  3. Cumulative paid above the target: rejected
  4. Dated after the due date: the parent is force-cancelled and the
     payment rejected - the payment record is the trigger for discovering
     the breach, not the cause of it

SWEEP:
  Run opportunistically before reads. For every pending item past due:
  paid-by-due-date >= target settles it as paid, anything else cancels
  it. Two concurrent sweeps over the same snapshot compute the same
  target state; transitions are recorded once, never re-applied, so the
  sweep is idempotent by construction.
*/
package lifecycle

import (
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
)

const (
	// DueWorkingDays is the payment window after the transaction date.
	DueWorkingDays = 15

	// MinFirstPaymentPercent is the opening deposit floor.
	MinFirstPaymentPercent = 10
)

// DueDate returns the payment deadline for a transaction date.
func DueDate(txnDate engine.TimePoint) engine.TimePoint {
	return txnDate.AddWorkdays(DueWorkingDays)
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs the payment lifecycle over a loaded snapshot. It mutates
// the records in place; callers persist what changed (the SweepResult
// lists every transition).
type Engine struct {
	Members     *network.Index
	Sales       []*Sale
	Investments []*Investment

	// Now supplies the sweep clock; defaults to engine.Today.
	Now func() engine.TimePoint
}

func NewEngine(members *network.Index, sales []*Sale, investments []*Investment) *Engine {
	return &Engine{Members: members, Sales: sales, Investments: investments}
}

func (e *Engine) now() engine.TimePoint {
	if e.Now != nil {
		return e.Now()
	}
	return engine.Today()
}

func (e *Engine) sale(id string) *Sale {
	for _, s := range e.Sales {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (e *Engine) investment(id string) *Investment {
	for _, inv := range e.Investments {
		if inv.ID == id {
			return inv
		}
	}
	return nil
}

// =============================================================================
// SWEEP RESULT
// =============================================================================

// SweepResult lists every transition a sweep (or a force-cancel) applied,
// so the caller can persist exactly what changed.
type SweepResult struct {
	SalesSettled         []string
	SalesCancelled       []string
	InvestmentsSettled   []string
	InvestmentsCancelled []string
	MembersActivated     []network.MemberID
	MembersDeactivated   []network.MemberID
	PropertiesReleased   []string
}

// Empty reports whether the sweep changed nothing.
func (r *SweepResult) Empty() bool {
	return len(r.SalesSettled) == 0 && len(r.SalesCancelled) == 0 &&
		len(r.InvestmentsSettled) == 0 && len(r.InvestmentsCancelled) == 0 &&
		len(r.MembersActivated) == 0 && len(r.MembersDeactivated) == 0
}

// =============================================================================
// PAYMENT RECORDING
// =============================================================================

// RecordSalePayment validates and appends an installment to a sale.
// On a past-due payment the sale is force-cancelled and the payment
// rejected; the caller should persist the cancelled sale.
func (e *Engine) RecordSalePayment(saleID string, p Payment) error {
	s := e.sale(saleID)
	if s == nil {
		return engine.ErrSaleNotFound
	}

	if s.Status == SaleCancelled {
		return rejected(saleID, "terminal_state", engine.ErrAlreadyCancelled, p, s.Ledger(), s.TotalAmount)
	}
	if s.PaymentDone {
		return rejected(saleID, "terminal_state", engine.ErrAlreadySettled, p, s.Ledger(), s.TotalAmount)
	}

	due := DueDate(s.SaleDate)
	if p.Date.AfterDay(due) {
		var forced SweepResult
		e.cancelSale(s, e.now(), &forced)
		err := rejected(saleID, "past_due", engine.ErrPastDueDate, p, s.Ledger(), s.TotalAmount)
		err.DueDate = due
		if len(forced.PropertiesReleased) > 0 {
			err.ReleasedProperty = forced.PropertiesReleased[0]
		}
		return err
	}

	ledger := s.Ledger()
	if err := validateInstallment(saleID, ledger, p, s.TotalAmount); err != nil {
		return err
	}

	s.Payments = append(s.Payments, p)
	if NewLedger(s.Payments).IsFullyPaid(s.TotalAmount) {
		e.settleSale(s, nil)
	}
	return nil
}

// RecordInvestmentPayment validates and appends an installment to an
// investment. Fully covering the target settles the investment and
// activates its owning member.
func (e *Engine) RecordInvestmentPayment(invID string, p Payment) error {
	inv := e.investment(invID)
	if inv == nil {
		return engine.ErrInvestmentNotFound
	}

	if inv.PaymentStatus == InvestmentCancelled {
		return rejected(invID, "terminal_state", engine.ErrAlreadyCancelled, p, inv.Ledger(), inv.Amount)
	}
	if inv.PaymentStatus == InvestmentPaid {
		return rejected(invID, "terminal_state", engine.ErrAlreadySettled, p, inv.Ledger(), inv.Amount)
	}

	due := DueDate(inv.Date)
	if p.Date.AfterDay(due) {
		e.cancelInvestment(inv, e.now(), nil)
		err := rejected(invID, "past_due", engine.ErrPastDueDate, p, inv.Ledger(), inv.Amount)
		err.DueDate = due
		return err
	}

	ledger := inv.Ledger()
	if err := validateInstallment(invID, ledger, p, inv.Amount); err != nil {
		return err
	}

	inv.Payments = append(inv.Payments, p)
	if NewLedger(inv.Payments).IsFullyPaid(inv.Amount) {
		e.settleInvestment(inv, nil)
	}
	return nil
}

// validateInstallment enforces the deposit floor and the conservation
// invariant before anything is mutated.
func validateInstallment(targetID string, ledger *Ledger, p Payment, target engine.Money) *engine.PaymentRejectedError {
	if ledger.Count() == 0 && p.Amount.LessThan(target.Percent(MinFirstPaymentPercent)) {
		return rejected(targetID, "first_payment_floor", engine.ErrFirstPaymentTooSmall, p, ledger, target)
	}
	if ledger.PaidToDate().Add(p.Amount).GreaterThan(target) {
		return rejected(targetID, "overpayment", engine.ErrOverpayment, p, ledger, target)
	}
	return nil
}

func rejected(targetID, reason string, sentinel error, p Payment, ledger *Ledger, target engine.Money) *engine.PaymentRejectedError {
	err := engine.NewPaymentRejected(targetID, reason, sentinel)
	err.Attempted = p.Amount
	err.Paid = ledger.PaidToDate()
	err.Target = target
	return err
}

// =============================================================================
// PASSIVE SWEEP
// =============================================================================

// Sweep settles every pending sale and investment whose due date has
// passed as of now. Safe to run repeatedly: settled and cancelled items
// are skipped, so a second sweep over the same snapshot is a no-op.
func (e *Engine) Sweep(now engine.TimePoint) SweepResult {
	var result SweepResult

	for _, s := range e.Sales {
		if !s.Pending() {
			continue
		}
		due := DueDate(s.SaleDate)
		if !now.AfterDay(due) {
			continue
		}

		ledger := s.Ledger()
		if ledger.PaidByDate(due).GreaterThanOrEqual(s.TotalAmount) {
			e.settleSale(s, &result)
		} else {
			e.cancelSale(s, now, &result)
		}
	}

	for _, inv := range e.Investments {
		if !inv.Pending() {
			continue
		}
		due := DueDate(inv.Date)
		if !now.AfterDay(due) {
			continue
		}

		ledger := inv.Ledger()
		if ledger.PaidByDate(due).GreaterThanOrEqual(inv.Amount) {
			e.settleInvestment(inv, &result)
		} else {
			e.cancelInvestment(inv, now, &result)
		}
	}

	return result
}

// =============================================================================
// TRANSITIONS
// =============================================================================

func (e *Engine) settleSale(s *Sale, result *SweepResult) {
	// Loaded data may carry rows dated after the due date; they never
	// contribute to the settlement.
	due := DueDate(s.SaleDate)
	ledger := s.Ledger()
	s.PaymentDone = true
	s.PaidAmount = ledger.PaidByDate(due)
	s.PaidDate = ledger.LatestDateBy(due)
	if result != nil {
		result.SalesSettled = append(result.SalesSettled, s.ID)
	}
}

func (e *Engine) cancelSale(s *Sale, now engine.TimePoint, result *SweepResult) {
	s.Status = SaleCancelled
	s.CancelledAt = now
	if s.BuybackEnabled {
		s.BuybackCancelled = true
	}
	if result != nil {
		result.SalesCancelled = append(result.SalesCancelled, s.ID)
		if s.PropertyID != "" {
			result.PropertiesReleased = append(result.PropertiesReleased, s.PropertyID)
		}
	}
}

func (e *Engine) settleInvestment(inv *Investment, result *SweepResult) {
	due := DueDate(inv.Date)
	ledger := inv.Ledger()
	inv.PaymentStatus = InvestmentPaid
	inv.PaidAmount = ledger.PaidByDate(due)
	inv.PaidDate = ledger.LatestDateBy(due)
	buyback := inv.PaidDate.AddMonths(inv.BuybackMonths)
	inv.BuybackDate = &buyback

	if m, ok := e.member(inv.PersonID); ok && m.Status != network.StatusActive {
		m.Status = network.StatusActive
		if result != nil {
			result.MembersActivated = append(result.MembersActivated, m.ID)
		}
	}
	if result != nil {
		result.InvestmentsSettled = append(result.InvestmentsSettled, inv.ID)
	}
}

func (e *Engine) cancelInvestment(inv *Investment, now engine.TimePoint, result *SweepResult) {
	inv.PaymentStatus = InvestmentCancelled
	inv.CancelledAt = now

	// The member record stays intact so the network graph and historical
	// commissions remain valid; only the status flips, and only when no
	// other paid investment keeps them active.
	if m, ok := e.member(inv.PersonID); ok && !e.hasOtherPaidInvestment(inv.PersonID, inv.ID) {
		if m.Status != network.StatusInactive {
			m.Status = network.StatusInactive
			if result != nil {
				result.MembersDeactivated = append(result.MembersDeactivated, m.ID)
			}
		}
	}
	if result != nil {
		result.InvestmentsCancelled = append(result.InvestmentsCancelled, inv.ID)
	}
}

func (e *Engine) member(id network.MemberID) (*network.Member, bool) {
	if e.Members == nil {
		return nil, false
	}
	return e.Members.Member(id)
}

func (e *Engine) hasOtherPaidInvestment(personID network.MemberID, excludeID string) bool {
	for _, inv := range e.Investments {
		if inv.ID != excludeID && inv.PersonID == personID && inv.PaymentStatus == InvestmentPaid {
			return true
		}
	}
	return false
}
