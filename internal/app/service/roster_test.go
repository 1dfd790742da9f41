package service

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
)

func newTestParser() *RosterParser {
	return NewRosterParser(zerolog.Nop())
}

func TestParse_SkipsGarbageLines(t *testing.T) {
	fields := []domain.SnapshotField{
		{Name: memberFieldName, Value: "Alice: 100 points\nnot-a-valid-line\nBob: 50 points"},
	}

	r := newTestParser().Parse(fields)
	if len(r.Members) != 2 {
		t.Fatalf("expected 2 members, got %d: %v", len(r.Members), r.Members)
	}
	if r.Members[0] != (domain.MemberEntry{Name: "Alice", Points: 100}) {
		t.Fatalf("unexpected first member: %+v", r.Members[0])
	}
}

func TestParse_UnescapesUnderscores(t *testing.T) {
	fields := []domain.SnapshotField{
		{Name: memberFieldName, Value: `Ground\_2000: 77 points`},
	}

	r := newTestParser().Parse(fields)
	if len(r.Members) != 1 || r.Members[0].Name != "Ground_2000" {
		t.Fatalf("expected Ground_2000, got %v", r.Members)
	}
}

func TestParse_NameWithColonSpace(t *testing.T) {
	fields := []domain.SnapshotField{
		{Name: memberFieldName, Value: "weird: name: 42 points"},
	}

	r := newTestParser().Parse(fields)
	if len(r.Members) != 1 || r.Members[0].Name != "weird: name" || r.Members[0].Points != 42 {
		t.Fatalf("split must anchor on the last separator, got %v", r.Members)
	}
}

func TestParse_RejectsNegativePoints(t *testing.T) {
	fields := []domain.SnapshotField{
		{Name: memberFieldName, Value: "Alice: -5 points"},
	}

	if r := newTestParser().Parse(fields); len(r.Members) != 0 {
		t.Fatalf("negative points must be rejected, got %v", r.Members)
	}
}

func TestParse_Totals(t *testing.T) {
	fields := []domain.SnapshotField{
		{Name: totalMembersLabel, Value: "64"},
		{Name: totalPointsLabel, Value: "12,345"},
	}

	r := newTestParser().Parse(fields)
	if r.TotalMembers == nil || *r.TotalMembers != 64 {
		t.Fatalf("expected total members 64, got %v", r.TotalMembers)
	}
	if r.TotalPoints == nil || *r.TotalPoints != 12345 {
		t.Fatalf("expected total points 12345, got %v", r.TotalPoints)
	}
}

func TestRenderFields_RoundTrip(t *testing.T) {
	tm, tp := 3, 260
	in := domain.Roster{
		Members: []domain.MemberEntry{
			{Name: "low_rank", Points: 10},
			{Name: "Alice", Points: 200},
			{Name: "Bob", Points: 50},
		},
		TotalMembers: &tm,
		TotalPoints:  &tp,
	}

	out := newTestParser().Parse(RenderFields(in))

	if out.TotalMembers == nil || *out.TotalMembers != 3 {
		t.Fatalf("total members lost in round trip: %v", out.TotalMembers)
	}
	got := out.MemberMap()
	for _, want := range in.Members {
		if got[want.Name] != want.Points {
			t.Fatalf("member %s: want %d, got %d", want.Name, want.Points, got[want.Name])
		}
	}
	// el render ordena por puntos desc
	if out.Members[0].Name != "Alice" || out.Members[2].Name != "low_rank" {
		t.Fatalf("expected descending point order, got %v", out.Members)
	}
}

func TestRenderFields_ChunksLongRosters(t *testing.T) {
	var members []domain.MemberEntry
	for i := 0; i < 80; i++ {
		members = append(members, domain.MemberEntry{
			Name:   strings.Repeat("x", 20) + string(rune('a'+i%26)),
			Points: 1000 - i,
		})
	}

	fields := RenderFields(domain.Roster{Members: members})
	if len(fields) < 2 {
		t.Fatalf("expected roster split across several fields, got %d", len(fields))
	}
	for i, f := range fields {
		if len(f.Value) > maxFieldValueLen {
			t.Fatalf("field %d exceeds value limit: %d", i, len(f.Value))
		}
	}

	back := newTestParser().Parse(fields)
	if len(back.Members) != len(members) {
		t.Fatalf("chunking lost members: want %d, got %d", len(members), len(back.Members))
	}
}
