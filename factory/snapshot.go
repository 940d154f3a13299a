/*
Package factory converts loosely-typed JSON exports into typed snapshots.

PURPOSE:
  Real member, sale and rate data arrives as JSON dumps from older admin
  tooling, with inconsistent field spellings (camelCase and snake_case
  mixed), numbers serialized as strings, and a handful of date formats.
  The factory normalizes all of that into a store.Snapshot so the rest of
  the system only ever sees typed records.

TOLERANCE RULES:
  - field names: each field accepts its camelCase and snake_case spelling
  - amounts and rates: JSON number or numeric string, parsed via decimal
  - dates: any layout engine.ParseDate accepts
  - missing IDs: a UUID is generated so rows never collide
  - rate rows with no usable created_at are dropped (rates.NewHistory
    guards against an empty history)

WHY JSON?
  - easy migration path from the previous admin system
  - fixtures for demo scenarios and tests read the same format
  - no code changes needed when operators hand-edit a dump

USAGE:
  snap, err := factory.ParseSnapshot(jsonBytes)
  // or per-collection:
  entries, err := factory.ParseRateRows(jsonBytes)

SEE ALSO:
  - store/store.go: Snapshot definition
  - api/scenarios.go: demo datasets built through this package
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/commission"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/lifecycle"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/rates"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/store"
)

// =============================================================================
// LOOSE VALUE TYPES
// =============================================================================

// looseDecimal accepts a JSON number or a numeric string.
type looseDecimal struct {
	d  decimal.Decimal
	ok bool
}

func (l *looseDecimal) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("not a numeric value: %s", s)
	}
	l.d = d
	l.ok = true
	return nil
}

func (l looseDecimal) or(fallback decimal.Decimal) decimal.Decimal {
	if l.ok {
		return l.d
	}
	return fallback
}

// looseDate accepts any layout engine.ParseDate knows, or null.
type looseDate struct {
	tp engine.TimePoint
	ok bool
}

func (l *looseDate) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)
	tp, err := engine.ParseDate(s)
	if err != nil {
		return err
	}
	l.tp = tp
	l.ok = true
	return nil
}

func pick(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func pickDate(vals ...looseDate) engine.TimePoint {
	for _, v := range vals {
		if v.ok {
			return v.tp
		}
	}
	return engine.TimePoint{}
}

func pickDecimal(vals ...looseDecimal) looseDecimal {
	for _, v := range vals {
		if v.ok {
			return v
		}
	}
	return looseDecimal{}
}

func orUUID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// =============================================================================
// ROW TYPES
// =============================================================================

// MemberRow is the loose JSON shape of a member record.
type MemberRow struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"memberId"`
	MemberID2 string    `json:"member_id"`
	Sponsor   string    `json:"sponsorId"`
	Sponsor2  string    `json:"sponsor_id"`
	Referrer  string    `json:"referredBy"`
	Joined    looseDate `json:"joinDate"`
	Joined2   looseDate `json:"join_date"`
	Joined3   looseDate `json:"createdAt"`
	Status    string    `json:"status"`
	Special   bool      `json:"isSpecial"`
	Special2  bool      `json:"is_special"`
}

// SaleRow is the loose JSON shape of a sale record.
type SaleRow struct {
	ID         string       `json:"id"`
	Seller     string       `json:"sellerId"`
	Seller2    string       `json:"seller_id"`
	Property   string       `json:"propertyId"`
	Property2  string       `json:"property_id"`
	Area       looseDecimal `json:"areaSqYd"`
	Area2      looseDecimal `json:"area_sq_yd"`
	Total      looseDecimal `json:"totalAmount"`
	Total2     looseDecimal `json:"total_amount"`
	Date       looseDate    `json:"saleDate"`
	Date2      looseDate    `json:"sale_date"`
	Status     string       `json:"status"`
	Buyback    bool         `json:"buybackEnabled"`
	Buyback2   bool         `json:"buyback_enabled"`
	Payments   []PaymentRow `json:"payments"`
}

// InvestmentRow is the loose JSON shape of an investment record.
type InvestmentRow struct {
	ID        string       `json:"id"`
	Person    string       `json:"personId"`
	Person2   string       `json:"person_id"`
	Amount    looseDecimal `json:"amount"`
	Area      looseDecimal `json:"areaSqYd"`
	Area2     looseDecimal `json:"area_sq_yd"`
	Date      looseDate    `json:"date"`
	Date2     looseDate    `json:"investedAt"`
	Date3     looseDate    `json:"invested_at"`
	Status    string       `json:"paymentStatus"`
	Status2   string       `json:"payment_status"`
	Months    int          `json:"buybackMonths"`
	Months2   int          `json:"buyback_months"`
	Return    looseDecimal `json:"returnPercent"`
	Return2   looseDecimal `json:"return_percent"`
	Payments  []PaymentRow `json:"payments"`
}

// PaymentRow is one installment in a loose dump.
type PaymentRow struct {
	Amount  looseDecimal `json:"amount"`
	Date    looseDate    `json:"date"`
	Date2   looseDate    `json:"paidAt"`
	Date3   looseDate    `json:"paid_at"`
}

// RateRow is the loose JSON shape of one rate history entry.
type RateRow struct {
	Created   looseDate      `json:"createdAt"`
	Created2  looseDate      `json:"created_at"`
	Created3  looseDate      `json:"date"`
	Levels    []looseDecimal `json:"levelRates"`
	Levels2   []looseDecimal `json:"level_rates"`
	Personal  []looseDecimal `json:"personalRates"`
	Personal2 []looseDecimal `json:"personal_rates"`
}

// PayoutRow is the loose JSON shape of one commission payout.
type PayoutRow struct {
	Person  string       `json:"personId"`
	Person2 string       `json:"person_id"`
	Amount  looseDecimal `json:"amount"`
	Date    looseDate    `json:"date"`
	Date2   looseDate    `json:"paidAt"`
	Date3   looseDate    `json:"paid_at"`
}

// SnapshotJSON is the top-level dump format.
type SnapshotJSON struct {
	Members     []MemberRow     `json:"members"`
	Sales       []SaleRow       `json:"sales"`
	Investments []InvestmentRow `json:"investments"`
	RateHistory []RateRow       `json:"rateHistory"`
	RateRows    []RateRow       `json:"rate_history"`
	Payouts     []PayoutRow     `json:"payouts"`
}

// =============================================================================
// CONVERSION
// =============================================================================

// ParseSnapshot parses a full JSON dump into a typed snapshot.
func ParseSnapshot(data []byte) (*store.Snapshot, error) {
	var sj SnapshotJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}
	return FromJSON(sj), nil
}

// FromJSON converts the loose dump into typed records.
func FromJSON(sj SnapshotJSON) *store.Snapshot {
	snap := &store.Snapshot{}

	for _, r := range sj.Members {
		snap.Members = append(snap.Members, MemberFromRow(r))
	}
	for _, r := range sj.Sales {
		snap.Sales = append(snap.Sales, SaleFromRow(r))
	}
	for _, r := range sj.Investments {
		snap.Investments = append(snap.Investments, InvestmentFromRow(r))
	}
	rateRows := sj.RateHistory
	if len(rateRows) == 0 {
		rateRows = sj.RateRows
	}
	for _, r := range rateRows {
		if e, ok := RateEntryFromRow(r); ok {
			snap.RateEntries = append(snap.RateEntries, e)
		}
	}
	for _, r := range sj.Payouts {
		snap.Payouts = append(snap.Payouts, commission.Payout{
			PersonID: network.MemberID(pick(r.Person, r.Person2)),
			Amount:   engine.Money{Value: r.Amount.or(decimal.Zero)},
			Date:     pickDate(r.Date, r.Date2, r.Date3),
		})
	}
	return snap
}

// MemberFromRow normalizes one member row.
func MemberFromRow(r MemberRow) network.Member {
	m := network.Member{
		ID:        network.MemberID(orUUID(pick(r.ID, r.MemberID, r.MemberID2))),
		JoinDate:  pickDate(r.Joined, r.Joined2, r.Joined3),
		Status:    parseStatus(r.Status),
		IsSpecial: r.Special || r.Special2,
	}
	if s := pick(r.Sponsor, r.Sponsor2, r.Referrer); s != "" {
		sid := network.MemberID(s)
		m.SponsorID = &sid
	}
	return m
}

// SaleFromRow normalizes one sale row. Settlement fields are left zero;
// the lifecycle engine owns them.
func SaleFromRow(r SaleRow) lifecycle.Sale {
	return lifecycle.Sale{
		ID:             orUUID(r.ID),
		SellerID:       network.MemberID(pick(r.Seller, r.Seller2)),
		PropertyID:     pick(r.Property, r.Property2),
		AreaSqYd:       pickDecimal(r.Area, r.Area2).or(decimal.Zero),
		TotalAmount:    engine.Money{Value: pickDecimal(r.Total, r.Total2).or(decimal.Zero)},
		SaleDate:       pickDate(r.Date, r.Date2),
		Status:         parseSaleStatus(r.Status),
		BuybackEnabled: r.Buyback || r.Buyback2,
		Payments:       paymentsFromRows(r.Payments),
	}
}

// InvestmentFromRow normalizes one investment row.
func InvestmentFromRow(r InvestmentRow) lifecycle.Investment {
	return lifecycle.Investment{
		ID:            orUUID(r.ID),
		PersonID:      network.MemberID(pick(r.Person, r.Person2)),
		Amount:        engine.Money{Value: r.Amount.or(decimal.Zero)},
		AreaSqYd:      pickDecimal(r.Area, r.Area2).or(decimal.Zero),
		Date:          pickDate(r.Date, r.Date2, r.Date3),
		PaymentStatus: parsePaymentStatus(pick(r.Status, r.Status2)),
		BuybackMonths: maxInt(r.Months, r.Months2),
		ReturnPercent: pickDecimal(r.Return, r.Return2).or(decimal.NewFromInt(100)),
		Payments:      paymentsFromRows(r.Payments),
	}
}

// RateEntryFromRow normalizes one rate row. Rows without a usable
// created_at are rejected.
func RateEntryFromRow(r RateRow) (rates.Entry, bool) {
	created := pickDate(r.Created, r.Created2, r.Created3)
	if created.IsZero() {
		return rates.Entry{}, false
	}
	e := rates.Entry{CreatedAt: created}

	levels := r.Levels
	if len(levels) == 0 {
		levels = r.Levels2
	}
	personal := r.Personal
	if len(personal) == 0 {
		personal = r.Personal2
	}
	for i := 0; i < len(levels) && i < rates.Levels; i++ {
		e.LevelRates[i] = levels[i].or(decimal.Zero)
	}
	for i := 0; i < len(personal) && i < rates.Levels; i++ {
		e.PersonalRates[i] = personal[i].or(decimal.Zero)
	}
	return e, true
}

// ParseRateRows parses a JSON array of rate rows.
func ParseRateRows(data []byte) ([]rates.Entry, error) {
	var rows []RateRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse rate rows: %w", err)
	}
	var entries []rates.Entry
	for _, r := range rows {
		if e, ok := RateEntryFromRow(r); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func paymentsFromRows(rows []PaymentRow) []lifecycle.Payment {
	var out []lifecycle.Payment
	for _, r := range rows {
		out = append(out, lifecycle.Payment{
			Amount: engine.Money{Value: r.Amount.or(decimal.Zero)},
			Date:   pickDate(r.Date, r.Date2, r.Date3),
		})
	}
	return out
}

// =============================================================================
// ENUM PARSING
// =============================================================================

func parseStatus(s string) network.Status {
	switch strings.ToLower(s) {
	case "active":
		return network.StatusActive
	case "inactive":
		return network.StatusInactive
	default:
		return network.StatusPending
	}
}

func parseSaleStatus(s string) lifecycle.SaleStatus {
	if strings.ToLower(s) == "cancelled" || strings.ToLower(s) == "canceled" {
		return lifecycle.SaleCancelled
	}
	return lifecycle.SaleActive
}

func parsePaymentStatus(s string) lifecycle.PaymentStatus {
	switch strings.ToLower(s) {
	case "paid", "completed":
		return lifecycle.InvestmentPaid
	case "cancelled", "canceled":
		return lifecycle.InvestmentCancelled
	default:
		return lifecycle.InvestmentPending
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
