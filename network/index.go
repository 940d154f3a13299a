package network

// =============================================================================
// INDEX - id -> member lookup with derived recruit lists
// =============================================================================

// Index is the in-memory lookup over a member snapshot. Build it once per
// computation; it is a pure function of the flat list and is rebuilt, not
// patched, when membership changes.
type Index struct {
	members map[MemberID]*Member
	order   []MemberID // input order, for deterministic iteration

	warnings []string
}

// BuildIndex copies the flat list and populates DirectRecruits. A member
// whose SponsorID is not in the list is treated as rootless; the dangling
// reference is recorded as a warning, never an error.
func BuildIndex(members []Member) *Index {
	ix := &Index{
		members: make(map[MemberID]*Member, len(members)),
		order:   make([]MemberID, 0, len(members)),
	}

	for i := range members {
		m := members[i] // copy
		m.DirectRecruits = nil
		if _, dup := ix.members[m.ID]; dup {
			continue // first occurrence wins
		}
		ix.members[m.ID] = &m
		ix.order = append(ix.order, m.ID)
	}

	// Second pass: invert sponsor pointers in input order.
	for _, id := range ix.order {
		m := ix.members[id]
		if m.SponsorID == nil {
			continue
		}
		sponsor, ok := ix.members[*m.SponsorID]
		if !ok {
			ix.warnings = append(ix.warnings,
				"dangling sponsor "+string(*m.SponsorID)+" on member "+string(id))
			continue
		}
		sponsor.DirectRecruits = append(sponsor.DirectRecruits, id)
	}

	return ix
}

// Member returns the indexed member for id.
func (ix *Index) Member(id MemberID) (*Member, bool) {
	m, ok := ix.members[id]
	return m, ok
}

// Members returns all members in input order.
func (ix *Index) Members() []*Member {
	out := make([]*Member, 0, len(ix.order))
	for _, id := range ix.order {
		out = append(out, ix.members[id])
	}
	return out
}

// Len returns the number of indexed members.
func (ix *Index) Len() int { return len(ix.order) }

// Warnings returns the integrity warnings collected while building.
func (ix *Index) Warnings() []string { return ix.warnings }

// =============================================================================
// TRAVERSALS - All capped at MaxLevels sponsor-distance
// =============================================================================

// DownlineIDs walks DirectRecruits breadth-first from id, capped at
// maxLevels hops, and returns the visited ids excluding id itself.
// Pass maxLevels <= 0 for the default cap.
func (ix *Index) DownlineIDs(id MemberID, maxLevels int) []MemberID {
	if maxLevels <= 0 {
		maxLevels = MaxLevels
	}

	start, ok := ix.members[id]
	if !ok {
		return nil
	}

	var out []MemberID
	visited := map[MemberID]bool{id: true}
	frontier := start.DirectRecruits

	for level := 1; level <= maxLevels && len(frontier) > 0; level++ {
		var next []MemberID
		for _, rid := range frontier {
			if visited[rid] {
				continue // guards against a corrupted (cyclic) snapshot
			}
			visited[rid] = true
			out = append(out, rid)
			if rm, ok := ix.members[rid]; ok {
				next = append(next, rm.DirectRecruits...)
			}
		}
		frontier = next
	}
	return out
}

// DownlineDepth returns the maximum BFS depth reached from id, capped at
// maxLevels. A member with no recruits has depth 0.
func (ix *Index) DownlineDepth(id MemberID, maxLevels int) int {
	if maxLevels <= 0 {
		maxLevels = MaxLevels
	}

	start, ok := ix.members[id]
	if !ok {
		return 0
	}

	depth := 0
	visited := map[MemberID]bool{id: true}
	frontier := start.DirectRecruits

	for level := 1; level <= maxLevels && len(frontier) > 0; level++ {
		var next []MemberID
		reached := false
		for _, rid := range frontier {
			if visited[rid] {
				continue
			}
			visited[rid] = true
			reached = true
			if rm, ok := ix.members[rid]; ok {
				next = append(next, rm.DirectRecruits...)
			}
		}
		if reached {
			depth = level
		}
		frontier = next
	}
	return depth
}

// UplineHop is one step of the sponsor chain above a member.
type UplineHop struct {
	Level   int // sponsor-distance, starting at 1
	Sponsor *Member
}

// UplineChain walks sponsor pointers upward from id, yielding hops
// starting at level 1 and stopping at a missing sponsor or maxLevels.
func (ix *Index) UplineChain(id MemberID, maxLevels int) []UplineHop {
	if maxLevels <= 0 {
		maxLevels = MaxLevels
	}

	m, ok := ix.members[id]
	if !ok {
		return nil
	}

	var chain []UplineHop
	visited := map[MemberID]bool{id: true}
	for level := 1; level <= maxLevels; level++ {
		if m.SponsorID == nil {
			break
		}
		sponsor, ok := ix.members[*m.SponsorID]
		if !ok || visited[sponsor.ID] {
			break
		}
		visited[sponsor.ID] = true
		chain = append(chain, UplineHop{Level: level, Sponsor: sponsor})
		m = sponsor
	}
	return chain
}
