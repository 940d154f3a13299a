/*
Package network models the sponsor/recruit forest of sales agents.

PURPOSE:
  Members form a forest over sponsor pointers: every member names at most
  one sponsor, and the owner sits at a root with no sponsor. This package
  builds an in-memory index over a flat member list and answers the graph
  questions the rank and commission calculators ask:
  - who is in a member's downline, and how deep does it go?
  - who sits above a member, and at what sponsor-distance?

KEY CONCEPTS:
  - Member: an agent with a sponsor pointer and derived direct recruits
  - Index: id -> member lookup with DirectRecruits populated
  - Level: sponsor-distance, capped at 9 for every traversal

DESIGN:
  DirectRecruits is the inverse of SponsorID and is rebuilt wholesale by
  BuildIndex whenever membership changes; it is never patched
  incrementally, and members never hold live object back-references.

SEE ALSO:
  - index.go: BuildIndex and the traversal queries
  - stage: consumes downline joins for rank progression
  - commission: consumes the upline chain for override commission
*/
package network

import (
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
)

// =============================================================================
// IDENTIFIERS AND STATUS
// =============================================================================

type MemberID string

// Status is the member lifecycle state. A member stays pending until
// their first qualifying investment is fully paid, and drops to inactive
// if that investment is cancelled with no other paid investment.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// MaxLevels caps every sponsor-distance traversal. Rates are defined for
// levels 1..9 only, so deeper structure never earns or counts.
const MaxLevels = 9

// =============================================================================
// MEMBER
// =============================================================================

// Member is a sales agent in the referral network.
type Member struct {
	ID        MemberID
	SponsorID *MemberID // nil means root ("Owner")
	JoinDate  engine.TimePoint
	Status    Status
	IsSpecial bool // exempt from generating override commission

	// Derived: inverse of SponsorID, populated by BuildIndex in input order.
	DirectRecruits []MemberID
}

// IsRoot reports whether the member has no sponsor.
func (m *Member) IsRoot() bool { return m.SponsorID == nil }
