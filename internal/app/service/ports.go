package service

import (
	"context"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
	"github.com/xcgclub/wt-squadron-bot/internal/infra/storage"
	"github.com/xcgclub/wt-squadron-bot/internal/replay"
)

// Lo implementa internal/adapters/thunder.Client
type RosterFetcher interface {
	FetchRoster(ctx context.Context, squadron string, mode domain.FetchMode) (domain.Roster, error)
	FetchAggregatePoints(ctx context.Context, squadron string) (int, error)
	SearchSquadron(ctx context.Context, tag string) (*domain.SquadronStats, error)
	TopSquadrons(ctx context.Context) ([]domain.SquadronStats, error)
}

// Lo implementa internal/infra/storage.SnapshotRepo
type SnapshotStore interface {
	Get(ctx context.Context, guildID, squadron, region string) (domain.Snapshot, error)
	Put(ctx context.Context, guildID, squadron, region string, snap domain.Snapshot) error
}

// Lo implementa internal/infra/storage.AlarmRepo
type AlarmStore interface {
	Upsert(ctx context.Context, a storage.AlarmConfig) error
	Get(ctx context.Context, guildID, squadron string, t domain.AlarmType) (storage.AlarmConfig, error)
	ListEnabledByType(ctx context.Context, t domain.AlarmType) ([]storage.AlarmConfig, error)
	ListForGuild(ctx context.Context, guildID string) ([]storage.AlarmConfig, error)
	SetEnabled(ctx context.Context, guildID, squadron string, t domain.AlarmType, enabled bool) (bool, error)
	Delete(ctx context.Context, guildID, squadron string, t domain.AlarmType) (bool, error)
}

// Lo implementa internal/infra/storage.SessionRepo
type SessionStore interface {
	Get(ctx context.Context, guildID string) (storage.SessionRecord, error)
	Upsert(ctx context.Context, rec storage.SessionRecord) error
	Delete(ctx context.Context, guildID string) (bool, error)
}

// Lo implementa internal/infra/storage.SquadronRepo
type SquadronStore interface {
	Upsert(ctx context.Context, s storage.TrackedSquadron) error
	GetByTag(ctx context.Context, guildID, tag string) (storage.TrackedSquadron, error)
	List(ctx context.Context, guildID string) ([]storage.TrackedSquadron, error)
	Delete(ctx context.Context, guildID, tag string) (bool, error)
}

// Lo implementa internal/infra/storage.ReplayRepo
type ReplayStore interface {
	FilterNew(ctx context.Context, ids []string) ([]string, error)
	MarkSeen(ctx context.Context, ids []string) error
}

// Lo implementa internal/adapters/discord.Dispatcher: formatea y manda los
// avisos. El core solo entrega el ChangeSet y los totales.
type AlarmNotifier interface {
	NotifyLeaves(ctx context.Context, cfg storage.AlarmConfig, cs domain.ChangeSet) error
	NotifyPoints(ctx context.Context, cfg storage.AlarmConfig, region string, cs domain.ChangeSet, oldTotal, newTotal int) error
	NotifyBattle(ctx context.Context, cfg storage.AlarmConfig, report replay.BattleReport) error
}

// Display del log de sesión: borrar-y-remandar, nunca editar in place.
type SessionDisplay interface {
	ReplaceLog(ctx context.Context, rec storage.SessionRecord) (newMessageID string, err error)
	RemoveLog(ctx context.Context, channelID, messageID string) error
}
