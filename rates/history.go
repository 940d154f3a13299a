/*
Package rates holds the historically-versioned commission rate tables.

PURPOSE:
  Commission rates change over time, and a commission computed on a
  transaction must use the rates that were in force on the transaction's
  date, not today's. This makes historical recomputation reproducible
  even after an admin changes the rates.

KEY CONCEPTS:
  - Set: one {levelRates, personalRates} pair, 9 slots each
  - Entry: a Set stamped with the instant it came into force
  - History: entries sorted ascending by creation date, append-only

CRITICAL INVARIANTS:
  1. APPEND-ONLY: a settings change appends a new entry; existing entries
     are never edited or deleted
  2. SORTED: entries are kept ascending by CreatedAt, so resolution can
     short-circuit on the first entry past the lookup date
  3. NEVER EMPTY: an empty history synthesizes one epoch-dated entry from
     a caller-supplied fallback, so lookups never fail

RESOLUTION:
  Resolve(d) returns the latest entry whose CreatedAt <= d. An absent or
  unparseable date resolves to the most recent entry (current rates are
  the default). A date before the first entry resolves to the first
  entry.

SEE ALSO:
  - commission: resolves rates at sale/investment dates
  - factory: normalizes raw rate rows (alternate field spellings)
*/
package rates

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
)

// Levels is the number of rate slots: override rates are indexed by
// sponsor-distance 1..9, personal rates by stage 1..9.
const Levels = 9

// =============================================================================
// RATE SET AND ENTRY
// =============================================================================

// Set is one rate table: per-square-yard amounts indexed by level or stage.
type Set struct {
	LevelRates    [Levels]decimal.Decimal // override rate by sponsor-distance 1..9
	PersonalRates [Levels]decimal.Decimal // self-sale rate by stage 1..9
}

// LevelRate returns the override rate for a sponsor-distance (1-based).
// Out-of-range levels earn nothing.
func (s Set) LevelRate(level int) decimal.Decimal {
	if level < 1 || level > Levels {
		return decimal.Zero
	}
	return s.LevelRates[level-1]
}

// PersonalRate returns the self-sale rate for a stage (1-based).
func (s Set) PersonalRate(stage int) decimal.Decimal {
	if stage < 1 || stage > Levels {
		return decimal.Zero
	}
	return s.PersonalRates[stage-1]
}

// Entry is an immutable rate set stamped with its creation instant.
type Entry struct {
	CreatedAt engine.TimePoint
	Set
}

// =============================================================================
// HISTORY
// =============================================================================

// History is the ordered, versioned list of rate entries.
type History struct {
	entries []Entry
}

// NewHistory normalizes the given entries: entries with a zero CreatedAt
// (unparseable in the source row) are dropped, the rest sorted ascending.
// If nothing survives, one epoch-dated entry is synthesized from fallback.
func NewHistory(entries []Entry, fallback Set) *History {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			continue
		}
		kept = append(kept, e)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].CreatedAt.Before(kept[j].CreatedAt)
	})

	if len(kept) == 0 {
		kept = append(kept, Entry{CreatedAt: engine.Epoch(), Set: fallback})
	}

	return &History{entries: kept}
}

// Append adds a new versioned entry. Existing entries are never touched;
// past resolutions stay reproducible.
func (h *History) Append(e Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = engine.Today()
	}
	h.entries = append(h.entries, e)
	sort.SliceStable(h.entries, func(i, j int) bool {
		return h.entries[i].CreatedAt.Before(h.entries[j].CreatedAt)
	})
}

// Entries returns the normalized entries, ascending by CreatedAt.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Latest returns the most recent entry.
func (h *History) Latest() Entry {
	return h.entries[len(h.entries)-1]
}

// Resolve returns the rate set in effect on date. A zero date means "no
// usable date" and resolves to the latest entry. Entries are sorted, so
// the scan short-circuits at the first entry past the date.
func (h *History) Resolve(date engine.TimePoint) Entry {
	if date.IsZero() {
		return h.Latest()
	}

	selected := h.entries[0]
	for _, e := range h.entries {
		if e.CreatedAt.After(date) {
			break
		}
		selected = e
	}
	return selected
}

// ResolveString parses a raw date string and resolves it, falling back to
// the latest entry if the string is unparseable.
func (h *History) ResolveString(raw string) Entry {
	d, err := engine.ParseDate(raw)
	if err != nil {
		return h.Latest()
	}
	return h.Resolve(d)
}
