package service

import (
	"testing"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
)

func roster(members ...domain.MemberEntry) domain.Roster {
	return domain.Roster{Members: members}
}

func m(name string, pts int) domain.MemberEntry {
	return domain.MemberEntry{Name: name, Points: pts}
}

func TestDiff_EmptyNewRosterIsNoop(t *testing.T) {
	old := roster(m("Alice", 100))

	cs := Diff(old, roster())
	if !cs.IsEmpty() {
		t.Fatalf("expected empty changeset for empty new roster, got %+v", cs)
	}
}

func TestDiff_RenameAndPointGain(t *testing.T) {
	old := roster(m("Alice", 100), m("Bob", 50))
	new := roster(m("Alice", 110), m("Carol", 50))

	cs := Diff(old, new)

	if len(cs.Left) != 0 {
		t.Fatalf("expected no leavers, got %v", cs.Left)
	}
	r, ok := cs.Renamed["Bob"]
	if !ok || r.NewName != "Carol" || r.Points != 50 {
		t.Fatalf("expected Bob renamed to Carol at 50, got %v", cs.Renamed)
	}
	if len(cs.Joined) != 0 {
		t.Fatalf("rename target must not also count as joined, got %v", cs.Joined)
	}
	d, ok := cs.PointsChanged["Alice"]
	if !ok || d.Delta != 10 || d.New != 110 {
		t.Fatalf("expected Alice +10 -> 110, got %v", cs.PointsChanged)
	}
}

func TestDiff_RenameRequiresExactPoints(t *testing.T) {
	old := roster(m("Bob", 50))
	new := roster(m("Carol", 51))

	cs := Diff(old, new)

	if len(cs.Renamed) != 0 {
		t.Fatalf("off-by-one points must not look like a rename, got %v", cs.Renamed)
	}
	if _, ok := cs.Left["Bob"]; !ok {
		t.Fatalf("expected Bob in left, got %v", cs.Left)
	}
	if pts, ok := cs.Joined["Carol"]; !ok || pts != 51 {
		t.Fatalf("expected Carol joined at 51, got %v", cs.Joined)
	}
}

func TestDiff_RenameNeverTargetsStayingMember(t *testing.T) {
	// Carol ya estaba: que Bob se vaya con sus mismos puntos no es un
	// renombre hacia ella.
	old := roster(m("Bob", 50), m("Carol", 50))
	new := roster(m("Carol", 50))

	cs := Diff(old, new)

	if len(cs.Renamed) != 0 {
		t.Fatalf("staying member claimed as rename target: %v", cs.Renamed)
	}
	if _, ok := cs.Left["Bob"]; !ok {
		t.Fatalf("expected Bob in left, got %v", cs.Left)
	}
}

func TestDiff_JoinWithPointsCountsAsGain(t *testing.T) {
	old := roster(m("Alice", 100))
	new := roster(m("Alice", 100), m("Dave", 5))

	cs := Diff(old, new)

	if pts, ok := cs.Joined["Dave"]; !ok || pts != 5 {
		t.Fatalf("expected Dave joined at 5, got %v", cs.Joined)
	}
	d, ok := cs.PointsChanged["Dave"]
	if !ok || d.Delta != 5 || d.New != 5 {
		t.Fatalf("expected Dave (+5, 5), got %v", cs.PointsChanged)
	}
	if len(cs.Left) != 0 || len(cs.Renamed) != 0 {
		t.Fatalf("expected nothing else, got left=%v renamed=%v", cs.Left, cs.Renamed)
	}
	if _, ok := cs.PointsChanged["Alice"]; ok {
		t.Fatalf("unchanged member must not appear in points changes")
	}
}

func TestDiff_JoinWithZeroPointsIsNotAGain(t *testing.T) {
	cs := Diff(roster(m("Alice", 100)), roster(m("Alice", 100), m("Eve", 0)))

	if _, ok := cs.Joined["Eve"]; !ok {
		t.Fatalf("expected Eve joined, got %v", cs.Joined)
	}
	if _, ok := cs.PointsChanged["Eve"]; ok {
		t.Fatalf("zero-point joiner must not show a point change")
	}
}

func TestDiff_ZeroPointLeaverIsReported(t *testing.T) {
	cs := Diff(roster(m("Alice", 100), m("Fresh", 0)), roster(m("Alice", 100)))

	if pts, ok := cs.Left["Fresh"]; !ok || pts != 0 {
		t.Fatalf("expected Fresh in left with 0 points, got %v", cs.Left)
	}
}

func TestDiff_Partition(t *testing.T) {
	old := roster(m("A", 10), m("B", 20), m("C", 30), m("D", 40))
	new := roster(m("A", 10), m("B", 25), m("X", 30), m("Y", 7))

	cs := Diff(old, new)

	// cada nombre viejo cae en exactamente un bucket
	for _, name := range []string{"A", "B", "C", "D"} {
		buckets := 0
		if _, ok := new.MemberMap()[name]; ok {
			buckets++
		}
		if _, ok := cs.Left[name]; ok {
			buckets++
		}
		if _, ok := cs.Renamed[name]; ok {
			buckets++
		}
		if buckets != 1 {
			t.Fatalf("old member %s landed in %d buckets", name, buckets)
		}
	}
	// y cada nombre nuevo también
	targets := map[string]bool{}
	for _, r := range cs.Renamed {
		targets[r.NewName] = true
	}
	for _, name := range []string{"A", "B", "X", "Y"} {
		buckets := 0
		if _, ok := old.MemberMap()[name]; ok {
			buckets++
		}
		if _, ok := cs.Joined[name]; ok {
			buckets++
		}
		if targets[name] {
			buckets++
		}
		if buckets != 1 {
			t.Fatalf("new member %s landed in %d buckets", name, buckets)
		}
	}
}
