package commission_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/commission"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/lifecycle"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/rates"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func member(id, sponsor string, joined engine.TimePoint) network.Member {
	m := network.Member{ID: network.MemberID(id), JoinDate: joined, Status: network.StatusActive}
	if sponsor != "" {
		sid := network.MemberID(sponsor)
		m.SponsorID = &sid
	}
	return m
}

func date(year int, month time.Month, d int) engine.TimePoint {
	return engine.NewTimePoint(year, month, d)
}

// rateEntry builds an entry whose level rates start with the given values
// and whose personal rates are all equal to personal.
func rateEntry(created engine.TimePoint, levels []int64, personal int64) rates.Entry {
	e := rates.Entry{CreatedAt: created}
	for i, v := range levels {
		if i >= rates.Levels {
			break
		}
		e.LevelRates[i] = decimal.NewFromInt(v)
	}
	for i := 0; i < rates.Levels; i++ {
		e.PersonalRates[i] = decimal.NewFromInt(personal)
	}
	return e
}

func completedSale(id, seller string, area int64, saleDate engine.TimePoint) *lifecycle.Sale {
	return &lifecycle.Sale{
		ID:          id,
		SellerID:    network.MemberID(seller),
		AreaSqYd:    decimal.NewFromInt(area),
		TotalAmount: engine.NewMoneyFromInt(area * 5000),
		SaleDate:    saleDate,
		Status:      lifecycle.SaleActive,
		PaymentDone: true,
	}
}

func paidInvestment(id, person string, area int64, d engine.TimePoint) *lifecycle.Investment {
	return &lifecycle.Investment{
		ID:            id,
		PersonID:      network.MemberID(person),
		Amount:        engine.NewMoneyFromInt(area * 5000),
		AreaSqYd:      decimal.NewFromInt(area),
		Date:          d,
		PaymentStatus: lifecycle.InvestmentPaid,
	}
}

func summaryFor(report *commission.Report, id network.MemberID) commission.Summary {
	for _, s := range report.Members {
		if s.Member.ID == id {
			return s
		}
	}
	return commission.Summary{}
}

// =============================================================================
// PERSONAL COMMISSION
// =============================================================================

func TestRun_PersonalCommissionUsesRatesAsOfSaleDate(t *testing.T) {
	// GIVEN: personal rate 10 from 2023 and 20 from 2024
	// WHEN: a stage-1 seller completes a sale of 100 sq-yd dated 2023-06-01
	// THEN: the seller earns 100 * 10 = 1000, not 2000
	ix := network.BuildIndex([]network.Member{member("seller", "", date(2023, time.January, 1))})
	history := rates.NewHistory([]rates.Entry{
		rateEntry(date(2023, time.January, 1), nil, 10),
		rateEntry(date(2024, time.January, 1), nil, 20),
	}, rates.Set{})

	report := commission.NewCalculator(ix, history).Run(
		[]*lifecycle.Sale{completedSale("s1", "seller", 100, date(2023, time.June, 1))},
		nil, nil)

	got := summaryFor(report, "seller")
	if !got.TotalCommission.Value.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected 1000, got %v", got.TotalCommission)
	}
	// The displayed personal rate reflects the latest rate set.
	if !got.PersonalRate.Equal(decimal.NewFromInt(20)) {
		t.Errorf("displayed rate should come from the latest set, got %v", got.PersonalRate)
	}
}

func TestRun_CancelledAndUnpaidSalesEarnNothing(t *testing.T) {
	ix := network.BuildIndex([]network.Member{member("seller", "", date(2024, time.January, 1))})
	history := rates.NewHistory([]rates.Entry{
		rateEntry(date(2024, time.January, 1), nil, 10),
	}, rates.Set{})

	cancelled := completedSale("c", "seller", 100, date(2024, time.March, 1))
	cancelled.Status = lifecycle.SaleCancelled
	pending := completedSale("p", "seller", 100, date(2024, time.March, 1))
	pending.PaymentDone = false

	report := commission.NewCalculator(ix, history).Run(
		[]*lifecycle.Sale{cancelled, pending}, nil, nil)

	if got := summaryFor(report, "seller"); !got.TotalCommission.IsZero() {
		t.Errorf("only completed sales earn commission, got %v", got.TotalCommission)
	}
}

// =============================================================================
// OVERRIDE COMMISSION
// =============================================================================

func TestRun_OverrideCreditsUplineByLevel(t *testing.T) {
	// GIVEN: investor under sponsor-1 under sponsor-2, level rates [5, 3]
	// WHEN: the investor's 50 sq-yd investment is fully paid
	// THEN: sponsor-1 earns 50*5=250, sponsor-2 earns 50*3=150
	ix := network.BuildIndex([]network.Member{
		member("sponsor-2", "", date(2024, time.January, 1)),
		member("sponsor-1", "sponsor-2", date(2024, time.January, 2)),
		member("investor", "sponsor-1", date(2024, time.January, 3)),
	})
	history := rates.NewHistory([]rates.Entry{
		rateEntry(date(2024, time.January, 1), []int64{5, 3}, 0),
	}, rates.Set{})

	report := commission.NewCalculator(ix, history).Run(nil,
		[]*lifecycle.Investment{paidInvestment("i1", "investor", 50, date(2024, time.February, 1))},
		nil)

	if got := summaryFor(report, "sponsor-1"); !got.TotalCommission.Value.Equal(decimal.NewFromInt(250)) {
		t.Errorf("level-1 sponsor should earn 250, got %v", got.TotalCommission)
	}
	if got := summaryFor(report, "sponsor-2"); !got.TotalCommission.Value.Equal(decimal.NewFromInt(150)) {
		t.Errorf("level-2 sponsor should earn 150, got %v", got.TotalCommission)
	}
	if got := summaryFor(report, "investor"); !got.TotalCommission.IsZero() {
		t.Errorf("the investor earns no override on their own investment")
	}
}

func TestRun_OnlyEarliestPaidInvestmentGeneratesOverride(t *testing.T) {
	ix := network.BuildIndex([]network.Member{
		member("sponsor", "", date(2024, time.January, 1)),
		member("investor", "sponsor", date(2024, time.January, 2)),
	})
	history := rates.NewHistory([]rates.Entry{
		rateEntry(date(2024, time.January, 1), []int64{5}, 0),
	}, rates.Set{})

	report := commission.NewCalculator(ix, history).Run(nil,
		[]*lifecycle.Investment{
			paidInvestment("later", "investor", 100, date(2024, time.March, 1)),
			paidInvestment("earlier", "investor", 50, date(2024, time.February, 1)),
		}, nil)

	// Only the earlier 50 sq-yd investment counts: 50*5 = 250.
	if got := summaryFor(report, "sponsor"); !got.TotalCommission.Value.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected 250 from the earliest investment only, got %v", got.TotalCommission)
	}
}

func TestRun_PendingInvestmentGeneratesNoOverride(t *testing.T) {
	ix := network.BuildIndex([]network.Member{
		member("sponsor", "", date(2024, time.January, 1)),
		member("investor", "sponsor", date(2024, time.January, 2)),
	})
	history := rates.NewHistory([]rates.Entry{
		rateEntry(date(2024, time.January, 1), []int64{5}, 0),
	}, rates.Set{})

	pending := paidInvestment("i1", "investor", 50, date(2024, time.February, 1))
	pending.PaymentStatus = lifecycle.InvestmentPending

	report := commission.NewCalculator(ix, history).Run(nil,
		[]*lifecycle.Investment{pending}, nil)

	if got := summaryFor(report, "sponsor"); !got.TotalCommission.IsZero() {
		t.Errorf("unpaid investments earn nothing, got %v", got.TotalCommission)
	}
}

func TestRun_SpecialMemberGeneratesNoOverride(t *testing.T) {
	investor := member("investor", "sponsor", date(2024, time.January, 2))
	investor.IsSpecial = true
	ix := network.BuildIndex([]network.Member{
		member("sponsor", "", date(2024, time.January, 1)),
		investor,
	})
	history := rates.NewHistory([]rates.Entry{
		rateEntry(date(2024, time.January, 1), []int64{5}, 0),
	}, rates.Set{})

	report := commission.NewCalculator(ix, history).Run(nil,
		[]*lifecycle.Investment{paidInvestment("i1", "investor", 50, date(2024, time.February, 1))},
		nil)

	if got := summaryFor(report, "sponsor"); !got.TotalCommission.IsZero() {
		t.Errorf("special members generate no override, got %v", got.TotalCommission)
	}
}

func TestRun_OverrideUsesRatesAsOfInvestmentDate(t *testing.T) {
	ix := network.BuildIndex([]network.Member{
		member("sponsor", "", date(2023, time.January, 1)),
		member("investor", "sponsor", date(2023, time.January, 2)),
	})
	history := rates.NewHistory([]rates.Entry{
		rateEntry(date(2023, time.January, 1), []int64{5}, 0),
		rateEntry(date(2024, time.January, 1), []int64{50}, 0),
	}, rates.Set{})

	report := commission.NewCalculator(ix, history).Run(nil,
		[]*lifecycle.Investment{paidInvestment("i1", "investor", 10, date(2023, time.June, 1))},
		nil)

	// 2023 rates apply: 10 * 5 = 50, not 10 * 50.
	if got := summaryFor(report, "sponsor"); !got.TotalCommission.Value.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected 50 at 2023 rates, got %v", got.TotalCommission)
	}
}

// =============================================================================
// AGGREGATES
// =============================================================================

func TestRun_PayoutsAndTotals(t *testing.T) {
	ix := network.BuildIndex([]network.Member{member("seller", "", date(2024, time.January, 1))})
	history := rates.NewHistory([]rates.Entry{
		rateEntry(date(2024, time.January, 1), nil, 10),
	}, rates.Set{})

	report := commission.NewCalculator(ix, history).Run(
		[]*lifecycle.Sale{completedSale("s1", "seller", 100, date(2024, time.March, 1))},
		nil,
		[]commission.Payout{
			{PersonID: "seller", Amount: engine.NewMoneyFromInt(300), Date: date(2024, time.April, 1)},
			{PersonID: "seller", Amount: engine.NewMoneyFromInt(200), Date: date(2024, time.May, 1)},
		})

	got := summaryFor(report, "seller")
	if !got.TotalPaid.Value.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected 500 paid, got %v", got.TotalPaid)
	}
	if !got.Remaining().Value.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected 500 remaining, got %v", got.Remaining())
	}
	if !report.TotalCommission.Value.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected network total 1000, got %v", report.TotalCommission)
	}
}

func TestRun_TopEarnersTopFourByTotal(t *testing.T) {
	// Six sellers with distinct totals; the top four come back descending.
	var members []network.Member
	var sales []*lifecycle.Sale
	for i := 1; i <= 6; i++ {
		id := fmt.Sprintf("seller-%d", i)
		members = append(members, member(id, "", date(2024, time.January, 1)))
		sales = append(sales, completedSale(fmt.Sprintf("s%d", i), id, int64(i*10), date(2024, time.March, 1)))
	}
	ix := network.BuildIndex(members)
	history := rates.NewHistory([]rates.Entry{
		rateEntry(date(2024, time.January, 1), nil, 10),
	}, rates.Set{})

	report := commission.NewCalculator(ix, history).Run(sales, nil, nil)

	if len(report.TopEarners) != 4 {
		t.Fatalf("expected 4 top earners, got %d", len(report.TopEarners))
	}
	if report.TopEarners[0].Member.ID != "seller-6" {
		t.Errorf("top earner should be seller-6, got %v", report.TopEarners[0].Member.ID)
	}
	for i := 1; i < len(report.TopEarners); i++ {
		if report.TopEarners[i].TotalCommission.GreaterThan(report.TopEarners[i-1].TotalCommission) {
			t.Errorf("top earners not in descending order")
		}
	}
}
