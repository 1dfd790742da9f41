package replay

import (
	"strings"
	"testing"
)

func TestParseLine_Pairs(t *testing.T) {
	ev := ParseLine("xTHCx Alice (M1A2 Abrams) destroyed BADGY Bob (T-80U)")
	if ev.Kind != EventFatality {
		t.Fatalf("expected fatality, got %v", ev.Kind)
	}
	if ev.Actor.Name != "xTHCx Alice" || ev.Actor.Vehicle != "(M1A2 Abrams)" {
		t.Fatalf("unexpected actor: %+v", ev.Actor)
	}
	if ev.Target.Name != "BADGY Bob" || ev.Target.Vehicle != "(T-80U)" {
		t.Fatalf("unexpected target: %+v", ev.Target)
	}

	ev = ParseLine("xTHCx Alice (Leopard 2A7) damaged BADGY Bob (BMP-2M)")
	if ev.Kind != EventCasualty {
		t.Fatalf("damaged must be a casualty, got %v", ev.Kind)
	}

	ev = ParseLine("xTHCx Alice (F-16C) shot down BADGY Bob (MiG-29)")
	if ev.Kind != EventFatality {
		t.Fatalf("shot down must be a fatality, got %v", ev.Kind)
	}

	ev = ParseLine("xTHCx Alice (2S38) set afire BADGY Bob (Strv 122)")
	if ev.Kind != EventCasualty {
		t.Fatalf("set afire must be a casualty, got %v", ev.Kind)
	}
}

func TestParseLine_Solo(t *testing.T) {
	ev := ParseLine("xTHCx Alice (F-16C) has crashed.")
	if ev.Kind != EventDiedSolo || ev.Actor.Name != "xTHCx Alice" {
		t.Fatalf("unexpected crash event: %+v", ev)
	}

	ev = ParseLine("xTHCx Alice (M1A2 Abrams) has achieved Adamant")
	if ev.Kind != EventSolo {
		t.Fatalf("achievement must be solo, got %v", ev.Kind)
	}

	ev = ParseLine("xTHCx Alice has died.")
	if ev.Kind != EventDiedSolo {
		t.Fatalf("has died must be a solo death, got %v", ev.Kind)
	}

	ev = ParseLine("xTHCx Alice (F-16C) has delivered the first strike!")
	if ev.Kind != EventSolo {
		t.Fatalf("first strike must be solo, got %v", ev.Kind)
	}

	ev = ParseLine("xTHCx Alice kd?NET_PLAYER_DISCONNECT_FROM_GAME")
	if ev.Kind != EventDiedSolo || ev.Actor.Name != "xTHCx Alice" {
		t.Fatalf("unexpected disconnect event: %+v", ev)
	}
}

func TestParseLine_DroneIsNotACombatPair(t *testing.T) {
	ev := ParseLine("xTHCx Alice (2S38) shot down (Recon Micro)")
	if ev.Kind != EventSolo {
		t.Fatalf("drone kill must degrade to solo, got %v", ev.Kind)
	}
	if ev.Actor.Name != "xTHCx Alice" {
		t.Fatalf("unexpected actor: %+v", ev.Actor)
	}
	if ev.Target.Name != "" {
		t.Fatalf("drone event must have no target, got %+v", ev.Target)
	}

	ev = ParseLine("xTHCx Alice (2S38) damaged (Recon Micro)")
	if ev.Kind != EventSolo {
		t.Fatalf("drone damage must degrade to solo, got %v", ev.Kind)
	}
}

func TestParseLine_Unknown(t *testing.T) {
	ev := ParseLine("some chat message without any verb")
	if ev.Kind != EventUnknown {
		t.Fatalf("expected unknown, got %v", ev.Kind)
	}
}

func TestSplitGames(t *testing.T) {
	// el reloj decrece dentro de una partida; un salto hacia arriba abre
	// la siguiente
	logs := []LogLine{
		{ID: 1, Time: 900}, {ID: 2, Time: 850}, {ID: 3, Time: 10},
		{ID: 4, Time: 880}, {ID: 5, Time: 400},
		{ID: 6, Time: 895},
	}

	games := SplitGames(logs)
	if len(games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(games))
	}
	if len(games[0]) != 3 || len(games[1]) != 2 || len(games[2]) != 1 {
		t.Fatalf("unexpected split: %v", games)
	}
	if games[1][0].ID != 4 {
		t.Fatalf("second game must start at the time reset, got id %d", games[1][0].ID)
	}
}

func TestSplitGames_Empty(t *testing.T) {
	if games := SplitGames(nil); games != nil {
		t.Fatalf("expected no games, got %v", games)
	}
}

func TestFilterByTag(t *testing.T) {
	logs := []LogLine{
		{Msg: "xTHCx Alice (M1A2 Abrams) destroyed BADGY Bob (T-80U)"},
		{Msg: "OTHER Guy (Tiger II) damaged SOME Dude (IS-2)"},
		{Msg: "BADGY Bob (T-80U) set afire xTHCx Carol (Leopard 2A7)"},
		{Msg: "xTHCx Alice (M1A2 Abrams) has achieved Adamant"},
	}

	lines, members := FilterByTag(logs, "xTHCx")
	if len(lines) != 3 {
		t.Fatalf("expected 3 matching lines, got %d: %v", len(lines), lines)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 distinct members, got %v", members)
	}
	if members[0] != "xTHCx Alice : (M1A2 Abrams)" || members[1] != "xTHCx Carol : (Leopard 2A7)" {
		t.Fatalf("unexpected members: %v", members)
	}
}

func TestParse_FileRoundTrip(t *testing.T) {
	// exportado más-nuevo-primero, dos partidas
	data := []byte(`{"damage":[
		{"id":6,"time":100,"msg":"xTHCx Alice (F-16C) shot down FOE Max (MiG-29)"},
		{"id":5,"time":700,"msg":"FOE Max (MiG-29) damaged xTHCx Alice (F-16C)"},
		{"id":4,"time":880,"msg":"NOBODY Here (Su-27) has crashed."},
		{"id":3,"time":20,"msg":"xTHCx Bob (T-90M) destroyed FOE Min (Leclerc)"},
		{"id":2,"time":500,"msg":"chat noise"},
		{"id":1,"time":900,"msg":"xTHCx Bob (T-90M) has delivered the first strike!"}
	]}`)

	reports, err := Parse(data, "abc123", "xTHCx")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].SessionID != "abc123" {
		t.Fatalf("session id lost: %+v", reports[0])
	}
	if len(reports[0].Lines) != 2 || !strings.Contains(reports[0].Lines[0], "first strike") {
		t.Fatalf("unexpected first game lines: %v", reports[0].Lines)
	}
	if len(reports[1].Lines) != 2 {
		t.Fatalf("unexpected second game lines: %v", reports[1].Lines)
	}
	if reports[1].Members[0] != "xTHCx Alice : (F-16C)" {
		t.Fatalf("unexpected members: %v", reports[1].Members)
	}
}

func TestParse_BadJSON(t *testing.T) {
	if _, err := Parse([]byte("not json"), "x", "TAG"); err == nil {
		t.Fatalf("expected error for malformed input")
	}
}
