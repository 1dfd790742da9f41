package storage

import (
	"context"
	"database/sql"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
)

type AlarmRepo struct{ db *sql.DB }

func NewAlarmRepo(db *sql.DB) *AlarmRepo { return &AlarmRepo{db: db} }

// Upsert: setear de nuevo el mismo tipo reemplaza el canal (igual que hacía
// /alarm pisando la preferencia anterior).
func (r *AlarmRepo) Upsert(ctx context.Context, a AlarmConfig) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO squadron_alarms (guild_id, squadron, alarm_type, channel_id, enabled)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (guild_id, squadron, alarm_type) DO UPDATE SET
  channel_id = EXCLUDED.channel_id,
  enabled    = EXCLUDED.enabled,
  updated_at = now()
`, a.GuildID, a.Squadron, string(a.Type), a.ChannelID, a.Enabled)
	return err
}

func (r *AlarmRepo) Get(ctx context.Context, guildID, squadron string, t domain.AlarmType) (AlarmConfig, error) {
	var a AlarmConfig
	var typ string
	err := r.db.QueryRowContext(ctx, `
SELECT guild_id, squadron, alarm_type, channel_id, enabled, created_at, updated_at
  FROM squadron_alarms
 WHERE guild_id = $1 AND squadron = $2 AND alarm_type = $3
`, guildID, squadron, string(t)).Scan(
		&a.GuildID, &a.Squadron, &typ, &a.ChannelID, &a.Enabled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return AlarmConfig{}, ErrNotFound
	}
	a.Type = domain.AlarmType(typ)
	return a, err
}

// ListEnabledByType: todas las alarmas activas de un tipo, de todas las
// guilds. Es lo que itera el scheduler en cada tick.
func (r *AlarmRepo) ListEnabledByType(ctx context.Context, t domain.AlarmType) ([]AlarmConfig, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, squadron, alarm_type, channel_id, enabled, created_at, updated_at
  FROM squadron_alarms
 WHERE alarm_type = $1 AND enabled
 ORDER BY guild_id, squadron
`, string(t))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlarms(rows)
}

func (r *AlarmRepo) ListForGuild(ctx context.Context, guildID string) ([]AlarmConfig, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, squadron, alarm_type, channel_id, enabled, created_at, updated_at
  FROM squadron_alarms
 WHERE guild_id = $1
 ORDER BY squadron, alarm_type
`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlarms(rows)
}

func (r *AlarmRepo) SetEnabled(ctx context.Context, guildID, squadron string, t domain.AlarmType, enabled bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE squadron_alarms
   SET enabled = $1, updated_at = now()
 WHERE guild_id = $2 AND squadron = $3 AND alarm_type = $4
`, enabled, guildID, squadron, string(t))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *AlarmRepo) Delete(ctx context.Context, guildID, squadron string, t domain.AlarmType) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM squadron_alarms
 WHERE guild_id = $1 AND squadron = $2 AND alarm_type = $3
`, guildID, squadron, string(t))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func scanAlarms(rows *sql.Rows) ([]AlarmConfig, error) {
	var out []AlarmConfig
	for rows.Next() {
		var a AlarmConfig
		var typ string
		if err := rows.Scan(&a.GuildID, &a.Squadron, &typ, &a.ChannelID, &a.Enabled, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Type = domain.AlarmType(typ)
		out = append(out, a)
	}
	return out, rows.Err()
}
