/*
snapshot_test.go - Tests for the loose JSON dump parser

PURPOSE:
  Verifies the tolerance rules over real-world dump quirks: mixed field
  spellings, numbers as strings, multiple date layouts, missing IDs, and
  rate rows without a usable creation date.
*/
package factory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/factory"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/lifecycle"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
)

func TestParseSnapshot_MixedSpellings(t *testing.T) {
	// GIVEN a dump mixing camelCase and snake_case, with numbers both
	// bare and quoted
	data := []byte(`{
		"members": [
			{"member_id": "m1", "referredBy": "root", "join_date": "2024-01-05", "status": "ACTIVE"},
			{"id": "root", "createdAt": "2023/06/01", "is_special": true}
		],
		"sales": [
			{"id": "s1", "seller_id": "m1", "area_sq_yd": 120.5,
			 "total_amount": "600000", "sale_date": "2024-03-05", "status": "canceled",
			 "payments": [{"amount": 100000, "paid_at": "2024-03-06"}]}
		],
		"investments": [
			{"person_id": "m1", "amount": "250000", "areaSqYd": "50",
			 "invested_at": "2024-03-20", "payment_status": "completed", "buyback_months": 12}
		],
		"rate_history": [
			{"created_at": "2024-01-01", "level_rates": ["10", 8], "personal_rates": [25]}
		],
		"payouts": [
			{"personId": "m1", "amount": "500", "paidAt": "2024-04-01"}
		]
	}`)

	snap, err := factory.ParseSnapshot(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// THEN members resolved their aliases
	if len(snap.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(snap.Members))
	}
	m1 := snap.Members[0]
	if m1.ID != "m1" || m1.SponsorID == nil || *m1.SponsorID != "root" {
		t.Errorf("member aliases not resolved: %+v", m1)
	}
	if m1.Status != network.StatusActive {
		t.Errorf("status should be case-insensitive, got %q", m1.Status)
	}
	if !snap.Members[1].IsSpecial {
		t.Errorf("is_special spelling not honored")
	}
	if !snap.Members[1].JoinDate.Equal(engine.NewTimePoint(2023, time.June, 1)) {
		t.Errorf("slash date layout not parsed: %v", snap.Members[1].JoinDate)
	}

	// AND sales parsed numbers in both encodings
	s := snap.Sales[0]
	if !s.AreaSqYd.Equal(decimal.RequireFromString("120.5")) {
		t.Errorf("bare number area = %s", s.AreaSqYd)
	}
	if !s.TotalAmount.Value.Equal(decimal.NewFromInt(600000)) {
		t.Errorf("quoted number total = %s", s.TotalAmount)
	}
	if s.Status != lifecycle.SaleCancelled {
		t.Errorf("single-l cancelled spelling not accepted")
	}
	if len(s.Payments) != 1 || !s.Payments[0].Date.Equal(engine.NewTimePoint(2024, time.March, 6)) {
		t.Errorf("payment paid_at alias not resolved: %+v", s.Payments)
	}

	// AND the investment defaulted its return percent and got an ID
	inv := snap.Investments[0]
	if inv.ID == "" {
		t.Errorf("missing investment id should be generated")
	}
	if inv.PaymentStatus != lifecycle.InvestmentPaid {
		t.Errorf("completed should map to paid, got %q", inv.PaymentStatus)
	}
	if !inv.ReturnPercent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("return percent default = %s", inv.ReturnPercent)
	}
	if inv.BuybackMonths != 12 {
		t.Errorf("buyback_months = %d", inv.BuybackMonths)
	}

	// AND short rate arrays leave the tail at zero
	if len(snap.RateEntries) != 1 {
		t.Fatalf("expected 1 rate entry, got %d", len(snap.RateEntries))
	}
	e := snap.RateEntries[0]
	if !e.LevelRates[0].Equal(decimal.NewFromInt(10)) || !e.LevelRates[1].Equal(decimal.NewFromInt(8)) {
		t.Errorf("mixed-encoding level rates = %v", e.LevelRates)
	}
	if !e.LevelRates[2].IsZero() {
		t.Errorf("unspecified rate slots should be zero")
	}

	if len(snap.Payouts) != 1 || snap.Payouts[0].PersonID != "m1" {
		t.Errorf("payout aliases not resolved: %+v", snap.Payouts)
	}
}

func TestParseSnapshot_Invalid(t *testing.T) {
	if _, err := factory.ParseSnapshot([]byte(`{"members": "nope"`)); err == nil {
		t.Fatalf("malformed JSON should fail")
	}
}

func TestRateEntryFromRow_RequiresCreatedAt(t *testing.T) {
	entries, err := factory.ParseRateRows([]byte(`[
		{"level_rates": ["10"], "personal_rates": ["25"]},
		{"date": "2024-01-01", "levelRates": ["10"], "personalRates": ["25"]}
	]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// The undated row is dropped, the "date" alias is accepted.
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].CreatedAt.Equal(engine.NewTimePoint(2024, time.January, 1)) {
		t.Errorf("date alias not resolved: %v", entries[0].CreatedAt)
	}
}

func TestMemberFromRow_UnknownStatusDefaultsPending(t *testing.T) {
	m := factory.MemberFromRow(factory.MemberRow{ID: "x", Status: "weird"})
	if m.Status != network.StatusPending {
		t.Errorf("unknown status should default to pending, got %q", m.Status)
	}
}
