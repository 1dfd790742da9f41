package storage

import (
	"errors"
	"time"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
)

var ErrNotFound = errors.New("not found")

// SessionRecord es la sesión de scoring activa de una guild. UserID es el
// dueño: otros usuarios ven la sesión pero no pueden mutarla. Las entries
// viven como blob JSONB; solo la última es editable.
type SessionRecord struct {
	GuildID        string
	UserID         string
	Squadron       string
	Started        bool
	Region         string
	Wins           int
	Losses         int
	StartingPoints int
	CurrentPoints  int
	Entries        []domain.LogEntry
	// Mensaje de display del log: se borra y se re-manda en cada mutación,
	// acá guardamos el id del último para poder borrarlo.
	LogChannelID string
	LogMessageID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AlarmConfig: a qué canal va cada tipo de aviso de un escuadrón.
// Canal + flag en vez del viejo prefijo "DISABLED-" metido en el id.
type AlarmConfig struct {
	GuildID   string
	Squadron  string
	Type      domain.AlarmType
	ChannelID string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrackedSquadron mapea tag corto -> nombre largo por guild.
type TrackedSquadron struct {
	GuildID  string
	Tag      string
	LongName string
	AddedAt  time.Time
}
