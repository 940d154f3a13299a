/*
Package commission computes per-member commission over a settled snapshot.

PURPOSE:
  Two independent contributions feed a per-member running total:

  Personal (self-sale) commission - every completed, non-cancelled sale
  pays the seller personalRates[stage-1] * areaSqYd, with the rate set
  resolved as of the sale's date and the stage resolved as of now.

  Override (sponsor) commission - a member's earliest paid investment
  pays each of their upline sponsors levelRates[level-1] * areaSqYd, the
  rate set resolved as of the investment's date, the chain capped at
  nine levels. A member flagged special never generates override.

QUALIFICATION RULE:
  "Completed" means not cancelled AND fully paid, applied consistently
  to sales (stage events and personal commission) and investments
  (override commission). Partially-paid records earn nothing until the
  lifecycle engine settles them.

ORDERING:
  Member summaries follow the snapshot's input order; top earners break
  total ties by that same order. Run the lifecycle sweep before
  computing so the snapshot is consistent.

SEE ALSO:
  - stage: rank resolution
  - rates: date-versioned rate resolution
  - lifecycle: settlement that gates qualification
*/
package commission

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/lifecycle"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/rates"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/stage"
)

// TopEarnerCount is the size of the leaderboard in the report.
const TopEarnerCount = 4

// =============================================================================
// RECORDS
// =============================================================================

// Payout records a payment of already-earned commission. It never feeds
// the earned total, only the paid-so-far subtraction.
type Payout struct {
	PersonID network.MemberID
	Amount   engine.Money
	Date     engine.TimePoint
}

// Summary is the per-member output row.
type Summary struct {
	Member          *network.Member
	Stage           int
	PersonalRate    decimal.Decimal // current-stage self-sale rate, latest rate set
	TotalCommission engine.Money
	TotalPaid       engine.Money
	MaxLevel        int // downline depth, capped at nine
}

// Remaining is the earned commission not yet paid out.
func (s Summary) Remaining() engine.Money { return s.TotalCommission.Sub(s.TotalPaid) }

// Report is the aggregate output over the whole network.
type Report struct {
	Members         []Summary // input order
	TotalCommission engine.Money
	TopEarners      []Summary
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator computes the commission report. Construct one per loaded
// snapshot; every derived value is a pure function of that snapshot.
type Calculator struct {
	Index  *network.Index
	Rates  *rates.History
	Stages *stage.Calculator
}

func NewCalculator(ix *network.Index, history *rates.History) *Calculator {
	return &Calculator{
		Index:  ix,
		Rates:  history,
		Stages: stage.NewCalculator(ix),
	}
}

// Run computes the full report. Sales and investments should already be
// settled by the lifecycle sweep.
func (c *Calculator) Run(sales []*lifecycle.Sale, investments []*lifecycle.Investment, payouts []Payout) *Report {
	completedSales := groupCompletedSales(sales)

	totals := make(map[network.MemberID]engine.Money)
	stages := make(map[network.MemberID]stage.Result)

	// Stage first: personal commission needs the seller's current rank.
	for _, m := range c.Index.Members() {
		res, err := c.Stages.Calculate(m.ID, saleDates(completedSales[m.ID]))
		if err != nil {
			continue
		}
		stages[m.ID] = res
	}

	c.addPersonalCommission(completedSales, stages, totals)
	c.addOverrideCommission(investments, totals)

	paid := make(map[network.MemberID]engine.Money)
	for _, p := range payouts {
		paid[p.PersonID] = paid[p.PersonID].Add(p.Amount)
	}

	latest := c.Rates.Latest()

	report := &Report{}
	for _, m := range c.Index.Members() {
		res := stages[m.ID]
		s := Summary{
			Member:          m,
			Stage:           res.Stage,
			PersonalRate:    latest.PersonalRate(res.Stage),
			TotalCommission: totals[m.ID],
			TotalPaid:       paid[m.ID],
			MaxLevel:        c.Index.DownlineDepth(m.ID, network.MaxLevels),
		}
		report.Members = append(report.Members, s)
		report.TotalCommission = report.TotalCommission.Add(s.TotalCommission)
	}

	report.TopEarners = topEarners(report.Members)
	return report
}

// addPersonalCommission credits each seller for their completed sales,
// rates resolved as of each sale's date.
func (c *Calculator) addPersonalCommission(completed map[network.MemberID][]*lifecycle.Sale, stages map[network.MemberID]stage.Result, totals map[network.MemberID]engine.Money) {
	for _, m := range c.Index.Members() {
		res, ok := stages[m.ID]
		if !ok {
			continue
		}
		for _, s := range completed[m.ID] {
			entry := c.Rates.Resolve(s.SaleDate)
			rate := entry.PersonalRate(res.Stage)
			totals[m.ID] = totals[m.ID].Add(engine.RatePerSqYd(rate, s.AreaSqYd))
		}
	}
}

// addOverrideCommission walks each qualifying member's upline and credits
// the sponsors from the member's earliest paid investment.
func (c *Calculator) addOverrideCommission(investments []*lifecycle.Investment, totals map[network.MemberID]engine.Money) {
	earliest := earliestPaidInvestments(investments)

	for _, m := range c.Index.Members() {
		if m.IsRoot() || m.IsSpecial {
			continue
		}
		inv, ok := earliest[m.ID]
		if !ok {
			continue
		}

		entry := c.Rates.Resolve(inv.Date)
		for _, hop := range c.Index.UplineChain(m.ID, network.MaxLevels) {
			rate := entry.LevelRate(hop.Level)
			totals[hop.Sponsor.ID] = totals[hop.Sponsor.ID].Add(engine.RatePerSqYd(rate, inv.AreaSqYd))
		}
	}
}

// =============================================================================
// GROUPING HELPERS
// =============================================================================

func groupCompletedSales(sales []*lifecycle.Sale) map[network.MemberID][]*lifecycle.Sale {
	out := make(map[network.MemberID][]*lifecycle.Sale)
	for _, s := range sales {
		if s.Completed() {
			out[s.SellerID] = append(out[s.SellerID], s)
		}
	}
	return out
}

func saleDates(sales []*lifecycle.Sale) []engine.TimePoint {
	dates := make([]engine.TimePoint, 0, len(sales))
	for _, s := range sales {
		dates = append(dates, s.SaleDate)
	}
	return dates
}

// earliestPaidInvestments picks, per member, the earliest-by-date paid
// investment. Input-order ties keep the first seen.
func earliestPaidInvestments(investments []*lifecycle.Investment) map[network.MemberID]*lifecycle.Investment {
	out := make(map[network.MemberID]*lifecycle.Investment)
	for _, inv := range investments {
		if !inv.Qualifies() {
			continue
		}
		if cur, ok := out[inv.PersonID]; !ok || inv.Date.Before(cur.Date) {
			out[inv.PersonID] = inv
		}
	}
	return out
}

// topEarners returns the top earners by total, ties broken by input order.
func topEarners(members []Summary) []Summary {
	ranked := make([]Summary, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalCommission.GreaterThan(ranked[j].TotalCommission)
	})
	if len(ranked) > TopEarnerCount {
		ranked = ranked[:TopEarnerCount]
	}
	return ranked
}
