package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
	"github.com/xcgclub/wt-squadron-bot/internal/infra/storage"
	"github.com/xcgclub/wt-squadron-bot/internal/replay"
)

type stubFetcher struct {
	fakeFetcher
	roster domain.Roster
}

func (f *stubFetcher) FetchRoster(context.Context, string, domain.FetchMode) (domain.Roster, error) {
	return f.roster, nil
}

type stubSnaps struct {
	snaps map[string]domain.Snapshot
}

func snapKey(guildID, squadron, region string) string {
	return guildID + "|" + squadron + "|" + region
}

func (s *stubSnaps) Get(_ context.Context, guildID, squadron, region string) (domain.Snapshot, error) {
	snap, ok := s.snaps[snapKey(guildID, squadron, region)]
	if !ok {
		return domain.Snapshot{}, storage.ErrNotFound
	}
	return snap, nil
}

func (s *stubSnaps) Put(_ context.Context, guildID, squadron, region string, snap domain.Snapshot) error {
	s.snaps[snapKey(guildID, squadron, region)] = snap
	return nil
}

type stubAlarms struct {
	cfgs []storage.AlarmConfig
}

func (s *stubAlarms) Upsert(context.Context, storage.AlarmConfig) error { return nil }
func (s *stubAlarms) Get(context.Context, string, string, domain.AlarmType) (storage.AlarmConfig, error) {
	return storage.AlarmConfig{}, storage.ErrNotFound
}
func (s *stubAlarms) ListEnabledByType(_ context.Context, t domain.AlarmType) ([]storage.AlarmConfig, error) {
	var out []storage.AlarmConfig
	for _, c := range s.cfgs {
		if c.Type == t && c.Enabled {
			out = append(out, c)
		}
	}
	return out, nil
}
func (s *stubAlarms) ListForGuild(context.Context, string) ([]storage.AlarmConfig, error) {
	return s.cfgs, nil
}
func (s *stubAlarms) SetEnabled(context.Context, string, string, domain.AlarmType, bool) (bool, error) {
	return false, nil
}
func (s *stubAlarms) Delete(context.Context, string, string, domain.AlarmType) (bool, error) {
	return false, nil
}

type stubNotifier struct {
	points []domain.ChangeSet
	leaves []domain.ChangeSet
}

func (n *stubNotifier) NotifyLeaves(_ context.Context, _ storage.AlarmConfig, cs domain.ChangeSet) error {
	n.leaves = append(n.leaves, cs)
	return nil
}

func (n *stubNotifier) NotifyPoints(_ context.Context, _ storage.AlarmConfig, _ string, cs domain.ChangeSet, _, _ int) error {
	n.points = append(n.points, cs)
	return nil
}

func (n *stubNotifier) NotifyBattle(context.Context, storage.AlarmConfig, replay.BattleReport) error {
	return nil
}

func newAlarmFixture(members ...domain.MemberEntry) (*AlarmService, *stubFetcher, *stubSnaps, *stubNotifier) {
	fc := &stubFetcher{roster: domain.Roster{SquadronID: "EXLY", Members: members}}
	snaps := &stubSnaps{snaps: map[string]domain.Snapshot{}}
	alarms := &stubAlarms{cfgs: []storage.AlarmConfig{
		{GuildID: "g1", Squadron: "EXLY", Type: domain.AlarmPoints, ChannelID: "c1", Enabled: true},
		{GuildID: "g1", Squadron: "EXLY", Type: domain.AlarmLeave, ChannelID: "c2", Enabled: true},
	}}
	notif := &stubNotifier{}

	eu, _ := ParseWindow("13:55-22:10")
	us, _ := ParseWindow("00:55-07:10")
	svc := NewAlarmService(fc, snaps, alarms, notif, RegionWindows{EU: eu, US: us}, zerolog.Nop())
	return svc, fc, snaps, notif
}

func TestPointsTick_OutsideWindowIsNoop(t *testing.T) {
	svc, _, snaps, notif := newAlarmFixture(m("Alice", 100))
	svc.now = func() time.Time { return at(10, 0) } // entre ambas ventanas

	svc.PointsTick(context.Background())

	if len(notif.points) != 0 || len(snaps.snaps) != 0 {
		t.Fatalf("outside any window the tick must do nothing")
	}
}

func TestPointsTick_BaselineThenDiff(t *testing.T) {
	svc, fc, snaps, notif := newAlarmFixture(m("Alice", 100))
	svc.now = func() time.Time { return at(18, 0) } // ventana EU

	// primera corrida: no hay snapshot US, solo baseline en EU
	svc.PointsTick(context.Background())
	if len(notif.points) != 0 {
		t.Fatalf("first run must only store a baseline, got %v", notif.points)
	}
	if _, ok := snaps.snaps[snapKey("g1", "EXLY", "EU")]; !ok {
		t.Fatalf("first run must persist the EU snapshot")
	}

	// corrida US contra el cierre EU: Alice subió
	fc.roster = domain.Roster{SquadronID: "EXLY", Members: []domain.MemberEntry{m("Alice", 130)}}
	svc.now = func() time.Time { return at(3, 0) } // ventana US
	svc.PointsTick(context.Background())

	if len(notif.points) != 1 {
		t.Fatalf("expected one points notification, got %d", len(notif.points))
	}
	d, ok := notif.points[0].PointsChanged["Alice"]
	if !ok || d.Delta != 30 || d.New != 130 {
		t.Fatalf("expected Alice +30 -> 130, got %v", notif.points[0].PointsChanged)
	}
	if _, ok := snaps.snaps[snapKey("g1", "EXLY", "US")]; !ok {
		t.Fatalf("US run must persist the US snapshot")
	}
}

func TestPointsTick_NoChangesNoNotification(t *testing.T) {
	svc, _, _, notif := newAlarmFixture(m("Alice", 100))
	svc.now = func() time.Time { return at(18, 0) }

	svc.PointsTick(context.Background())
	svc.now = func() time.Time { return at(3, 0) }
	svc.PointsTick(context.Background())

	if len(notif.points) != 0 {
		t.Fatalf("identical rosters must not notify, got %v", notif.points)
	}
}

func TestLeaveTick_DetectsLeaver(t *testing.T) {
	svc, fc, _, notif := newAlarmFixture(m("Alice", 100), m("Bob", 40))

	svc.LeaveTick(context.Background()) // baseline
	if len(notif.leaves) != 0 {
		t.Fatalf("baseline run must not notify")
	}

	fc.roster = domain.Roster{SquadronID: "EXLY", Members: []domain.MemberEntry{m("Alice", 100)}}
	svc.LeaveTick(context.Background())

	if len(notif.leaves) != 1 {
		t.Fatalf("expected one leave notification, got %d", len(notif.leaves))
	}
	if pts, ok := notif.leaves[0].Left["Bob"]; !ok || pts != 40 {
		t.Fatalf("expected Bob gone with 40 points, got %v", notif.leaves[0].Left)
	}
}

func TestLeaveTick_RenameIsNotALeave(t *testing.T) {
	svc, fc, _, notif := newAlarmFixture(m("Alice", 100), m("Bob", 40))

	svc.LeaveTick(context.Background())
	fc.roster = domain.Roster{SquadronID: "EXLY", Members: []domain.MemberEntry{m("Alice", 100), m("Bobby", 40)}}
	svc.LeaveTick(context.Background())

	if len(notif.leaves) != 1 {
		t.Fatalf("expected one notification, got %d", len(notif.leaves))
	}
	cs := notif.leaves[0]
	if len(cs.Left) != 0 {
		t.Fatalf("rename must not count as a leave, got %v", cs.Left)
	}
	if r, ok := cs.Renamed["Bob"]; !ok || r.NewName != "Bobby" {
		t.Fatalf("expected Bob -> Bobby, got %v", cs.Renamed)
	}
}
