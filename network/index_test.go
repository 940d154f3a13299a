package network_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
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

func day(d int) engine.TimePoint {
	return engine.NewTimePoint(2024, time.January, d)
}

// chain builds root -> c1 -> c2 -> ... -> cN.
func chain(n int) []network.Member {
	members := []network.Member{member("root", "", day(1))}
	prev := "root"
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("c%d", i)
		members = append(members, member(id, prev, day(1+i)))
		prev = id
	}
	return members
}

// =============================================================================
// BUILD
// =============================================================================

func TestBuildIndex_PopulatesDirectRecruits(t *testing.T) {
	// GIVEN: a root with two recruits, one of which has a recruit of its own
	// WHEN: building the index
	// THEN: DirectRecruits holds children in input order
	ix := network.BuildIndex([]network.Member{
		member("root", "", day(1)),
		member("a", "root", day(2)),
		member("b", "root", day(3)),
		member("a1", "a", day(4)),
	})

	root, ok := ix.Member("root")
	if !ok {
		t.Fatal("root not indexed")
	}
	if len(root.DirectRecruits) != 2 || root.DirectRecruits[0] != "a" || root.DirectRecruits[1] != "b" {
		t.Errorf("unexpected recruits: %v", root.DirectRecruits)
	}

	a, _ := ix.Member("a")
	if len(a.DirectRecruits) != 1 || a.DirectRecruits[0] != "a1" {
		t.Errorf("unexpected recruits for a: %v", a.DirectRecruits)
	}
}

func TestBuildIndex_DanglingSponsorIsWarningNotError(t *testing.T) {
	// GIVEN: a member whose sponsor is not in the list
	// THEN: the member is indexed as rootless and a warning is recorded
	ix := network.BuildIndex([]network.Member{
		member("orphan", "ghost", day(1)),
	})

	if _, ok := ix.Member("orphan"); !ok {
		t.Fatal("orphan must still be indexed")
	}
	if len(ix.Warnings()) != 1 {
		t.Errorf("expected one warning, got %v", ix.Warnings())
	}
	if got := ix.DownlineIDs("orphan", 0); len(got) != 0 {
		t.Errorf("rootless member has no downline, got %v", got)
	}
}

func TestBuildIndex_DuplicateIDFirstWins(t *testing.T) {
	ix := network.BuildIndex([]network.Member{
		member("m", "", day(1)),
		member("m", "", day(9)),
	})

	if ix.Len() != 1 {
		t.Fatalf("expected 1 member, got %d", ix.Len())
	}
	m, _ := ix.Member("m")
	if !m.JoinDate.Equal(day(1)) {
		t.Errorf("first occurrence must win, got join date %v", m.JoinDate)
	}
}

func TestBuildIndex_DoesNotMutateInput(t *testing.T) {
	in := []network.Member{member("root", "", day(1)), member("a", "root", day(2))}
	network.BuildIndex(in)
	if in[0].DirectRecruits != nil {
		t.Errorf("input slice was mutated")
	}
}

// =============================================================================
// DOWNLINE
// =============================================================================

func TestDownlineIDs_CappedAtNineLevels(t *testing.T) {
	// GIVEN: a 12-deep chain under root
	// WHEN: walking with the default cap
	// THEN: only the first 9 levels are visited
	ix := network.BuildIndex(chain(12))

	got := ix.DownlineIDs("root", 0)
	if len(got) != 9 {
		t.Fatalf("expected 9 downline members, got %d: %v", len(got), got)
	}
	if got[len(got)-1] != "c9" {
		t.Errorf("deepest visited should be c9, got %v", got[len(got)-1])
	}
}

func TestDownlineIDs_BreadthFirstOrder(t *testing.T) {
	ix := network.BuildIndex([]network.Member{
		member("root", "", day(1)),
		member("a", "root", day(2)),
		member("b", "root", day(3)),
		member("a1", "a", day(4)),
		member("b1", "b", day(5)),
	})

	got := ix.DownlineIDs("root", 0)
	want := []network.MemberID{"a", "b", "a1", "b1"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDownlineIDs_CycleDoesNotLoop(t *testing.T) {
	// Corrupted snapshot: a and b sponsor each other.
	ix := network.BuildIndex([]network.Member{
		member("a", "b", day(1)),
		member("b", "a", day(2)),
	})

	got := ix.DownlineIDs("a", 0)
	if len(got) > 1 {
		t.Errorf("cycle must terminate, got %v", got)
	}
}

func TestDownlineDepth(t *testing.T) {
	ix := network.BuildIndex(chain(3))

	if d := ix.DownlineDepth("root", 0); d != 3 {
		t.Errorf("expected depth 3, got %d", d)
	}
	if d := ix.DownlineDepth("c3", 0); d != 0 {
		t.Errorf("leaf depth should be 0, got %d", d)
	}
}

// =============================================================================
// UPLINE
// =============================================================================

func TestUplineChain_LevelsStartAtOne(t *testing.T) {
	ix := network.BuildIndex(chain(3))

	hops := ix.UplineChain("c3", 0)
	if len(hops) != 3 {
		t.Fatalf("expected 3 hops, got %d", len(hops))
	}
	if hops[0].Level != 1 || hops[0].Sponsor.ID != "c2" {
		t.Errorf("hop 1 should be c2, got level %d id %v", hops[0].Level, hops[0].Sponsor.ID)
	}
	if hops[2].Sponsor.ID != "root" {
		t.Errorf("last hop should be root, got %v", hops[2].Sponsor.ID)
	}
}

func TestUplineChain_CappedAtNineLevels(t *testing.T) {
	ix := network.BuildIndex(chain(12))

	hops := ix.UplineChain("c12", 0)
	if len(hops) != 9 {
		t.Errorf("expected 9 hops, got %d", len(hops))
	}
}
