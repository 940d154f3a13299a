/*
Package stage computes a member's rank from their recruiting record.

PURPOSE:
  A member's stage (1-9) drives their personal commission rate. Stage 1
  and 2 depend only on the direct-recruit count; stages 3 through 9 are
  earned by accumulating progress events - downline joins within nine
  sponsor-levels plus the member's own completed sales - against a fixed
  cumulative threshold ladder.

THE LADDER:
  stage 3 needs 18 events, stage 4 another 72, then 288, 1152, 4608,
  9216 and finally 18432 for stage 9. Each rung consumes its events:
  reaching stage 4 spends 18+72 of the stream, and whatever remains is
  the progress toward the next rung.

THE STAGE-2 CLOCK:
  Only events strictly after the stage-2 entry date count - the join
  date of the sixth direct recruit when recruits are sorted ascending by
  join date. Events dated at or before that instant were part of getting
  to stage 2 and never count again, which is what makes stage
  non-decreasing as events accumulate.

EDGE CASES:
  - a recruit with no parseable join date is excluded from the entry-date
    ordering and from the event stream
  - fewer than six recruits with usable join dates freezes the member at
    stage 2 with no promotion data
  - join-date ties keep the stable order of the input

SEE ALSO:
  - network: downline traversal feeding the event stream
  - commission: resolves the personal rate for the computed stage
*/
package stage

import (
	"sort"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
)

const (
	// DirectRecruitTarget is the recruit count that promotes to stage 2.
	DirectRecruitTarget = 6

	// MaxStage is terminal; there is no further promotion.
	MaxStage = 9
)

// ladder holds the cumulative event counts required for stages 3..9.
var ladder = [...]int{18, 72, 288, 1152, 4608, 9216, 18432}

// Ladder returns a copy of the threshold ladder for stages 3..9.
func Ladder() []int {
	out := make([]int, len(ladder))
	copy(out, ladder[:])
	return out
}

// =============================================================================
// RESULT
// =============================================================================

// Result is a member's computed rank and progress toward the next one.
type Result struct {
	Stage          int
	DirectRecruits int

	// Progress counts toward NextTarget: direct recruits at stage 1,
	// unconsumed ladder events from stage 2 on.
	Progress   int
	NextTarget *int // nil at stage 9 or when promotion data is unusable

	// EntryDate is the stage-2 entry instant (join date of the sixth
	// direct recruit); zero while the member is at stage 1.
	EntryDate engine.TimePoint
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator computes stages over a network index. CompletedSales maps a
// member to the dates of their completed personal sales; cancelled or
// unpaid sales must not appear in it.
type Calculator struct {
	Index *network.Index
}

func NewCalculator(ix *network.Index) *Calculator {
	return &Calculator{Index: ix}
}

// Calculate computes the stage of one member. completedSales are the
// member's own completed sale dates.
func (c *Calculator) Calculate(id network.MemberID, completedSales []engine.TimePoint) (Result, error) {
	m, ok := c.Index.Member(id)
	if !ok {
		return Result{}, engine.ErrMemberNotFound
	}

	direct := len(m.DirectRecruits)
	if direct < DirectRecruitTarget {
		target := DirectRecruitTarget
		return Result{
			Stage:          1,
			DirectRecruits: direct,
			Progress:       direct,
			NextTarget:     &target,
		}, nil
	}

	entryDate, ok := c.entryDate(m)
	if !ok {
		// Enough recruits, but fewer than six with usable join dates:
		// stage 2 with no promotion data.
		return Result{Stage: 2, DirectRecruits: direct}, nil
	}

	events := c.eventStream(m, completedSales, entryDate)

	result := Result{
		Stage:          2,
		DirectRecruits: direct,
		EntryDate:      entryDate,
	}

	cursor := 0
	for i, threshold := range ladder {
		if len(events)-cursor >= threshold {
			cursor += threshold
			result.Stage = 3 + i
			continue
		}
		t := threshold
		result.Progress = len(events) - cursor
		result.NextTarget = &t
		return result, nil
	}

	// Every rung cleared: terminal stage.
	result.Stage = MaxStage
	result.Progress = len(events) - cursor
	return result, nil
}

// entryDate returns the join date of the sixth direct recruit, recruits
// sorted ascending by join date with input-order ties.
func (c *Calculator) entryDate(m *network.Member) (engine.TimePoint, bool) {
	dates := make([]engine.TimePoint, 0, len(m.DirectRecruits))
	for _, rid := range m.DirectRecruits {
		r, ok := c.Index.Member(rid)
		if !ok || r.JoinDate.IsZero() {
			continue
		}
		dates = append(dates, r.JoinDate)
	}
	if len(dates) < DirectRecruitTarget {
		return engine.TimePoint{}, false
	}

	sort.SliceStable(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates[DirectRecruitTarget-1], true
}

// eventStream unions downline joins (nine levels, one event per recruit)
// with the member's completed sale dates, keeps events strictly after
// the entry date, and sorts ascending.
func (c *Calculator) eventStream(m *network.Member, completedSales []engine.TimePoint, entryDate engine.TimePoint) []engine.TimePoint {
	var events []engine.TimePoint

	for _, did := range c.Index.DownlineIDs(m.ID, network.MaxLevels) {
		d, ok := c.Index.Member(did)
		if !ok || d.JoinDate.IsZero() {
			continue
		}
		if d.JoinDate.After(entryDate) {
			events = append(events, d.JoinDate)
		}
	}

	for _, saleDate := range completedSales {
		if !saleDate.IsZero() && saleDate.After(entryDate) {
			events = append(events, saleDate)
		}
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Before(events[j]) })
	return events
}
