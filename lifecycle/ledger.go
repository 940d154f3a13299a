package lifecycle

import (
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
)

// =============================================================================
// LEDGER - Append-only installment view over a sale or investment
// =============================================================================

// Ledger sums installments against a target amount. It is a read view
// plus Add; the business invariants (opening deposit floor, no sum above
// the target) are enforced by the lifecycle engine, not here.
type Ledger struct {
	entries []Payment
}

// NewLedger wraps an ordered payment list. The slice is copied; the
// ledger never mutates its source.
func NewLedger(payments []Payment) *Ledger {
	entries := make([]Payment, len(payments))
	copy(entries, payments)
	return &Ledger{entries: entries}
}

// Add appends an installment.
func (l *Ledger) Add(p Payment) {
	l.entries = append(l.entries, p)
}

// Count returns the number of installments.
func (l *Ledger) Count() int { return len(l.entries) }

// Entries returns the installments in their recorded order.
func (l *Ledger) Entries() []Payment {
	out := make([]Payment, len(l.entries))
	copy(out, l.entries)
	return out
}

// PaidToDate returns the sum of all installments.
func (l *Ledger) PaidToDate() engine.Money {
	var total engine.Money
	for _, p := range l.entries {
		total = total.Add(p.Amount)
	}
	return total
}

// PaidByDate returns the sum of installments dated on or before cutoff.
// The boundary is day-granular: a payment later in the day still counts.
func (l *Ledger) PaidByDate(cutoff engine.TimePoint) engine.Money {
	var total engine.Money
	for _, p := range l.entries {
		if !p.Date.AfterDay(cutoff) {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// IsFullyPaid reports whether the installments cover the target.
func (l *Ledger) IsFullyPaid(target engine.Money) bool {
	return l.PaidToDate().GreaterThanOrEqual(target)
}

// LatestDate returns the latest installment date, or a zero TimePoint
// for an empty ledger.
func (l *Ledger) LatestDate() engine.TimePoint {
	var latest engine.TimePoint
	for _, p := range l.entries {
		if p.Date.After(latest) {
			latest = p.Date
		}
	}
	return latest
}

// LatestDateBy returns the latest installment date on or before cutoff.
// This is the settlement date of an item paid off by its due date: the
// latest contributing payment's date.
func (l *Ledger) LatestDateBy(cutoff engine.TimePoint) engine.TimePoint {
	var latest engine.TimePoint
	for _, p := range l.entries {
		if !p.Date.AfterDay(cutoff) && p.Date.After(latest) {
			latest = p.Date
		}
	}
	return latest
}
