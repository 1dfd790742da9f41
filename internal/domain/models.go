package domain

import "time"

// MemberEntry es una fila del roster: nombre visible + puntos al momento
// de la captura. El nombre NO es un ID estable (la gente se renombra).
type MemberEntry struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// SnapshotField reproduce el layout fields-style de la fuente: los campos
// con nombre U+00A0 traen ~40 miembros por bloque, uno por línea.
type SnapshotField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FetchMode elige qué partes del roster trae el fetch.
type FetchMode string

const (
	ModeMembers FetchMode = "members"
	ModePoints  FetchMode = "points"
	ModeFull    FetchMode = "full"
)

// Snapshot es el formato persistido: la lista fields-style tal cual la
// renderiza el embed, compatible con lo que ya hay guardado. Se vuelve a
// parsear a Roster antes de diffear.
type Snapshot struct {
	SquadronID string          `json:"squadron_id"`
	Region     string          `json:"region,omitempty"`
	CapturedAt time.Time       `json:"captured_at"`
	Fields     []SnapshotField `json:"fields"`
}

// Roster es la captura normalizada de un escuadrón en un instante.
type Roster struct {
	SquadronID   string        `json:"squadron_id"`
	Region       string        `json:"region,omitempty"`
	CapturedAt   time.Time     `json:"captured_at"`
	Members      []MemberEntry `json:"members"`
	TotalMembers *int          `json:"total_members,omitempty"` // auto-reportado, puede estar desfasado
	TotalPoints  *int          `json:"total_points,omitempty"`
}

// MemberMap arma name→points; ante duplicados gana el último visto.
func (r Roster) MemberMap() map[string]int {
	m := make(map[string]int, len(r.Members))
	for _, e := range r.Members {
		m[e.Name] = e.Points
	}
	return m
}

// Rename es un cambio de nombre inferido por coincidencia exacta de puntos.
type Rename struct {
	NewName string
	Points  int
}

// PointDelta acompaña a un miembro cuyos puntos cambiaron entre capturas.
type PointDelta struct {
	Delta int
	New   int
}

// ChangeSet es la salida del diff entre dos rosters. Un nombre cae en a lo
// sumo uno de Joined/Left/Renamed; PointsChanged es independiente.
type ChangeSet struct {
	Joined        map[string]int
	Left          map[string]int
	Renamed       map[string]Rename
	PointsChanged map[string]PointDelta
}

func EmptyChangeSet() ChangeSet {
	return ChangeSet{
		Joined:        map[string]int{},
		Left:          map[string]int{},
		Renamed:       map[string]Rename{},
		PointsChanged: map[string]PointDelta{},
	}
}

// IsEmpty indica que no hay nada que avisar.
func (c ChangeSet) IsEmpty() bool {
	return len(c.Joined) == 0 && len(c.Left) == 0 && len(c.Renamed) == 0 && len(c.PointsChanged) == 0
}

// GameResult de una batalla registrada a mano en una sesión.
type GameResult string

const (
	ResultWin  GameResult = "WIN"
	ResultLoss GameResult = "LOSS"
)

// VehicleCounts es la composición del equipo rival según lo reporta el usuario.
type VehicleCounts struct {
	Bombers  int `json:"bombers"`
	Fighters int `json:"fighters"`
	Helis    int `json:"helis"`
	Tanks    int `json:"tanks"`
	SPAA     int `json:"spaa"`
}

// LogEntry es una batalla dentro de una sesión. Solo la última es editable.
type LogEntry struct {
	Result         GameResult    `json:"result"`
	SequenceNumber int           `json:"sequence_number"` // 1-based, = wins+losses al loguear
	OpponentName   string        `json:"opponent_name"`
	Vehicles       VehicleCounts `json:"vehicles"`
	Comment        string        `json:"comment,omitempty"`
	PointsNote     string        `json:"points_note,omitempty"` // se completa async tras confirmar puntos
}

// AlarmType clasifica a dónde va cada aviso. Enum cerrado, nada de strings
// libres como hacía la versión vieja.
type AlarmType string

const (
	AlarmLeave  AlarmType = "leave"
	AlarmPoints AlarmType = "points"
	AlarmLogs   AlarmType = "logs"
)

func ParseAlarmType(s string) (AlarmType, bool) {
	switch AlarmType(s) {
	case AlarmLeave, AlarmPoints, AlarmLogs:
		return AlarmType(s), true
	}
	return "", false
}

// SquadronStats viene del leaderboard de clanes (endpoint JSON público).
type SquadronStats struct {
	Position    int    `json:"position"`
	LongName    string `json:"long_name"`
	ShortName   string `json:"short_name"`
	Members     int    `json:"members"`
	Wins        int    `json:"wins"`
	Battles     int    `json:"battles"`
	AirKills    int    `json:"a_kills"`
	GroundKills int    `json:"g_kills"`
	Deaths      int    `json:"deaths"`
	Playtime    int    `json:"playtime"`
	ClanRating  int    `json:"clanrating"`
}
