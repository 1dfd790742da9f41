// Package replay parsea los damage-logs de server replays: eventos de
// combate, corte por partidas y resumen de actividad de un escuadrón.
package replay

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// LogLine es una línea cruda del damage-log del replay.
type LogLine struct {
	ID   int    `json:"id"`
	Time int    `json:"time"`
	Msg  string `json:"msg"`
}

// logFile es el shape del archivo exportado por el cliente.
type logFile struct {
	Damage []LogLine `json:"damage"`
}

// EventKind clasifica la línea según los verbos del log.
type EventKind int

const (
	EventUnknown   EventKind = iota
	EventCasualty            // daño sin kill: damaged / set afire
	EventFatality            // kill: destroyed / shot down
	EventDiedSolo            // muerte sin atacante: crashed / has died / disconnect
	EventSolo                // acción propia: achievement / first strike / drones
)

// Participant es un jugador con su vehículo (entre paréntesis en el log).
type Participant struct {
	Name    string
	Vehicle string
}

// Event es una línea clasificada. Target solo aplica a casualty/fatality.
type Event struct {
	Kind   EventKind
	Actor  Participant
	Target Participant
	Raw    string
}

// BattleReport es el resumen de una partida filtrado por tag de escuadrón.
type BattleReport struct {
	SessionID string
	Lines     []string
	Members   []string // "nombre : (vehículo)", dedupeado y ordenado
}

var (
	nameRe    = regexp.MustCompile(`^[^()]+`)
	vehicleRe = regexp.MustCompile(`(\([^()]+(?:[()]?[^()]+)*\))`)

	reconRe = regexp.MustCompile(`(?i)Recon Micr`)

	dcNeedle = " kd?NET_PLAYER_DISCONNECT_FROM_GAME"
)

func extractName(text string) string {
	return strings.TrimSpace(nameRe.FindString(text))
}

func extractVehicle(text string) string {
	return vehicleRe.FindString(text)
}

func participant(text string) Participant {
	return Participant{Name: extractName(text), Vehicle: extractVehicle(text)}
}

// pairEvent corta en el verbo y arma actor/target de cada lado.
func pairEvent(kind EventKind, text, needle string) Event {
	i := strings.Index(text, needle)
	return Event{
		Kind:   kind,
		Actor:  participant(text[:i]),
		Target: participant(text[i+len(needle):]),
		Raw:    text,
	}
}

func soloEvent(kind EventKind, head, text string) Event {
	return Event{Kind: kind, Actor: participant(head), Raw: text}
}

// ParseLine clasifica una línea del damage-log. Las líneas de drones
// (Recon Micro) no cuentan como combate entre jugadores: el drone no es
// un vehículo tripulado, así que bajan a evento solo del tirador.
func ParseLine(text string) Event {
	droneVictim := strings.HasSuffix(text, "(Recon Micro)") || strings.HasSuffix(text, "Recon Micro")

	switch {
	case strings.Contains(text, " damaged ") && !reconRe.MatchString(text):
		return pairEvent(EventCasualty, text, " damaged ")
	case strings.Contains(text, " destroyed ") && !reconRe.MatchString(text):
		return pairEvent(EventFatality, text, " destroyed ")
	case strings.Contains(text, " set afire ") && !reconRe.MatchString(text):
		return pairEvent(EventCasualty, text, " set afire ")
	case strings.Contains(text, " shot down ") && !reconRe.MatchString(text):
		return pairEvent(EventFatality, text, " shot down ")
	case strings.Contains(text, dcNeedle):
		head, _, _ := strings.Cut(text, dcNeedle)
		return Event{Kind: EventDiedSolo, Actor: Participant{Name: extractName(head)}, Raw: text}
	case strings.Contains(text, " has crashed."):
		head, _, _ := strings.Cut(text, " has crashed.")
		return soloEvent(EventDiedSolo, head, text)
	case strings.Contains(text, " has achieved "):
		head, _, _ := strings.Cut(text, " has achieved ")
		return soloEvent(EventSolo, head, text)
	case strings.HasSuffix(text, " has died."):
		return Event{Kind: EventDiedSolo, Actor: Participant{Name: extractName(text)}, Raw: text}
	case strings.Contains(text, " has delivered the first strike!"):
		head, _, _ := strings.Cut(text, " has delivered the first strike!")
		return soloEvent(EventSolo, head, text)
	case droneVictim && strings.Contains(text, "shot down "):
		head, _, _ := strings.Cut(text, "shot down ")
		return soloEvent(EventSolo, head, text)
	case droneVictim && strings.Contains(text, "damaged "):
		head, _, _ := strings.Cut(text, "damaged ")
		return soloEvent(EventSolo, head, text)
	default:
		return Event{Kind: EventUnknown, Raw: text}
	}
}

// SplitGames corta el stream en partidas: el reloj del log es decreciente
// dentro de una partida, así que un salto hacia arriba marca el arranque
// de la siguiente.
func SplitGames(logs []LogLine) [][]LogLine {
	var games [][]LogLine
	var cur []LogLine
	prev := math.MaxInt

	for _, l := range logs {
		if l.Time > prev {
			games = append(games, cur)
			cur = nil
		}
		cur = append(cur, l)
		prev = l.Time
	}
	if len(cur) > 0 {
		games = append(games, cur)
	}
	return games
}

// FilterByTag devuelve las líneas donde aparece el tag y los miembros del
// escuadrón vistos con su vehículo.
func FilterByTag(logs []LogLine, tag string) (lines []string, members []string) {
	seen := map[string]struct{}{}
	for _, l := range logs {
		if !strings.Contains(l.Msg, tag) {
			continue
		}
		lines = append(lines, l.Msg)

		ev := ParseLine(l.Msg)
		switch ev.Kind {
		case EventCasualty, EventFatality:
			if strings.Contains(ev.Actor.Name, tag) {
				seen[ev.Actor.Name+" : "+ev.Actor.Vehicle] = struct{}{}
			} else if strings.Contains(ev.Target.Name, tag) {
				seen[ev.Target.Name+" : "+ev.Target.Vehicle] = struct{}{}
			}
		case EventSolo, EventDiedSolo:
			if strings.Contains(ev.Actor.Name, tag) {
				seen[ev.Actor.Name+" : "+ev.Actor.Vehicle] = struct{}{}
			}
		}
	}
	members = make([]string, 0, len(seen))
	for m := range seen {
		members = append(members, m)
	}
	sort.Strings(members)
	return lines, members
}

// Parse decodifica el archivo del replay, invierte el orden (el cliente
// exporta el log más nuevo primero) y arma un reporte por partida para el
// tag dado. Partidas donde el tag no aparece se descartan.
func Parse(data []byte, sessionID, tag string) ([]BattleReport, error) {
	var f logFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("replay %s: %w", sessionID, err)
	}
	for i, j := 0, len(f.Damage)-1; i < j; i, j = i+1, j-1 {
		f.Damage[i], f.Damage[j] = f.Damage[j], f.Damage[i]
	}

	var reports []BattleReport
	for _, game := range SplitGames(f.Damage) {
		lines, members := FilterByTag(game, tag)
		if len(lines) == 0 {
			continue
		}
		reports = append(reports, BattleReport{SessionID: sessionID, Lines: lines, Members: members})
	}
	return reports, nil
}
