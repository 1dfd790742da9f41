package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
)

// El formato fuente agrupa miembros en campos con este nombre (un
// non-breaking space, artefacto del heading del embed).
const memberFieldName = " "

const (
	totalMembersLabel = "Total Members"
	totalPointsLabel  = "Total Points"

	// límite de value por campo del formato fuente
	maxFieldValueLen = 1024
)

// RosterParser reconstruye un Roster desde el layout fields-style
// persistido. Una línea rota se saltea y se loguea, nunca aborta el parse.
type RosterParser struct {
	log zerolog.Logger
}

func NewRosterParser(log zerolog.Logger) *RosterParser {
	return &RosterParser{log: log}
}

func (p *RosterParser) Parse(fields []domain.SnapshotField) domain.Roster {
	var snap domain.Roster

	for _, f := range fields {
		switch strings.TrimSpace(f.Name) {
		case totalMembersLabel:
			if v, err := strconv.Atoi(strings.TrimSpace(f.Value)); err == nil {
				snap.TotalMembers = &v
			} else {
				p.log.Debug().Str("value", f.Value).Msg("total members ilegible, lo dejamos vacío")
			}
		case totalPointsLabel:
			if v, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(f.Value), ",", "")); err == nil {
				snap.TotalPoints = &v
			} else {
				p.log.Debug().Str("value", f.Value).Msg("total points ilegible, lo dejamos vacío")
			}
		case "", memberFieldName:
			// bloque de miembros: una línea por jugador
			for _, line := range strings.Split(f.Value, "\n") {
				entry, ok := parseMemberLine(line)
				if !ok {
					if strings.TrimSpace(line) != "" {
						p.log.Debug().Str("line", line).Msg("línea de roster malformada, salteada")
					}
					continue
				}
				snap.Members = append(snap.Members, entry)
			}
		}
	}
	return snap
}

// parseMemberLine: "<nombre>: <puntos> points". El split es por el ÚLTIMO
// ": " porque el nombre puede traer cualquier cosa, incluso ": "; el número
// al final es el ancla confiable. Solo el primer token después del
// separador es el valor, el texto que sobre se ignora.
func parseMemberLine(line string) (domain.MemberEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return domain.MemberEntry{}, false
	}

	idx := strings.LastIndex(line, ": ")
	if idx < 0 {
		return domain.MemberEntry{}, false
	}

	name := strings.TrimSpace(line[:idx])
	name = strings.ReplaceAll(name, `\_`, "_")
	if name == "" {
		return domain.MemberEntry{}, false
	}

	toks := strings.Fields(line[idx+2:])
	if len(toks) == 0 {
		return domain.MemberEntry{}, false
	}
	pts, err := strconv.Atoi(toks[0])
	if err != nil || pts < 0 {
		return domain.MemberEntry{}, false
	}

	return domain.MemberEntry{Name: name, Points: pts}, true
}

// RenderFields arma el layout fields-style desde un roster normalizado:
// miembros ordenados por puntos desc, underscores escapados, bloques de
// hasta 1024 chars. Es el inverso de Parse y el formato que se persiste.
func RenderFields(r domain.Roster) []domain.SnapshotField {
	var fields []domain.SnapshotField

	if r.TotalMembers != nil {
		fields = append(fields, domain.SnapshotField{Name: totalMembersLabel, Value: strconv.Itoa(*r.TotalMembers)})
	}
	if r.TotalPoints != nil {
		fields = append(fields, domain.SnapshotField{Name: totalPointsLabel, Value: strconv.Itoa(*r.TotalPoints)})
	}

	members := make([]domain.MemberEntry, len(r.Members))
	copy(members, r.Members)
	sort.SliceStable(members, func(i, j int) bool { return members[i].Points > members[j].Points })

	var chunk strings.Builder
	flush := func() {
		if chunk.Len() > 0 {
			fields = append(fields, domain.SnapshotField{Name: memberFieldName, Value: strings.TrimRight(chunk.String(), "\n")})
			chunk.Reset()
		}
	}
	for _, m := range members {
		line := strings.ReplaceAll(m.Name, "_", `\_`) + ": " + strconv.Itoa(m.Points) + " points"
		if chunk.Len()+len(line)+1 > maxFieldValueLen {
			flush()
		}
		chunk.WriteString(line)
		chunk.WriteString("\n")
	}
	flush()

	return fields
}

// BuildSnapshot empaqueta un roster para persistirlo.
func BuildSnapshot(r domain.Roster, region string) domain.Snapshot {
	return domain.Snapshot{
		SquadronID: r.SquadronID,
		Region:     region,
		CapturedAt: r.CapturedAt,
		Fields:     RenderFields(r),
	}
}
