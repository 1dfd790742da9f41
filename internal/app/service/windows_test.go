package service

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2025, 6, 15, h, m, 0, 0, time.UTC)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("13:55-22:10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start != 13*60+55 || w.End != 22*60+10 {
		t.Fatalf("unexpected window: %+v", w)
	}

	for _, bad := range []string{"", "13:55", "25:00-10:00", "10:00-10:61", "aa:bb-cc:dd"} {
		if _, err := ParseWindow(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestWindowContains(t *testing.T) {
	w, _ := ParseWindow("13:55-22:10")

	if !w.Contains(at(13, 55)) || !w.Contains(at(22, 10)) || !w.Contains(at(18, 0)) {
		t.Fatalf("window must include its bounds and interior")
	}
	if w.Contains(at(13, 54)) || w.Contains(at(22, 11)) {
		t.Fatalf("window must exclude minutes outside the range")
	}
}

func TestWindowContains_MidnightWrap(t *testing.T) {
	w, _ := ParseWindow("23:30-01:30")

	if !w.Contains(at(23, 45)) || !w.Contains(at(0, 30)) {
		t.Fatalf("wrapping window must cover both sides of midnight")
	}
	if w.Contains(at(12, 0)) {
		t.Fatalf("noon is outside a 23:30-01:30 window")
	}
}

func TestRegionWindowsActive(t *testing.T) {
	eu, _ := ParseWindow("13:55-22:10")
	us, _ := ParseWindow("00:55-07:10")
	rw := RegionWindows{EU: eu, US: us}

	if r, ok := rw.Active(at(18, 0)); !ok || r != "EU" {
		t.Fatalf("expected EU active at 18:00, got %q %v", r, ok)
	}
	if r, ok := rw.Active(at(3, 0)); !ok || r != "US" {
		t.Fatalf("expected US active at 03:00, got %q %v", r, ok)
	}
	if _, ok := rw.Active(at(10, 0)); ok {
		t.Fatalf("10:00 is outside both windows")
	}
}

func TestOppositeRegion(t *testing.T) {
	if OppositeRegion("EU") != "US" || OppositeRegion("US") != "EU" {
		t.Fatalf("regions must mirror each other")
	}
}
