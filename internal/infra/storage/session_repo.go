package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
)

type SessionRepo struct{ db *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

func (r *SessionRepo) Get(ctx context.Context, guildID string) (SessionRecord, error) {
	var (
		rec SessionRecord
		raw []byte
	)
	err := r.db.QueryRowContext(ctx, `
SELECT guild_id, user_id, squadron, started, region, wins, losses,
       starting_points, current_points, entries,
       log_channel_id, log_message_id, created_at, updated_at
  FROM scoring_sessions
 WHERE guild_id = $1
`, guildID).Scan(
		&rec.GuildID, &rec.UserID, &rec.Squadron, &rec.Started, &rec.Region, &rec.Wins, &rec.Losses,
		&rec.StartingPoints, &rec.CurrentPoints, &raw,
		&rec.LogChannelID, &rec.LogMessageID, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return SessionRecord{}, ErrNotFound
	}
	if err != nil {
		return SessionRecord{}, err
	}
	if err := json.Unmarshal(raw, &rec.Entries); err != nil {
		return SessionRecord{}, fmt.Errorf("session entries: %w", err)
	}
	return rec, nil
}

// Upsert persiste la sesión entera. Hay un solo mutador por guild (el dueño
// más el confirmador de puntos que relee antes de escribir), último gana.
func (r *SessionRepo) Upsert(ctx context.Context, rec SessionRecord) error {
	entries := rec.Entries
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("session entries marshal: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO scoring_sessions
  (guild_id, user_id, squadron, started, region, wins, losses,
   starting_points, current_points, entries, log_channel_id, log_message_id)
VALUES
  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (guild_id) DO UPDATE SET
  user_id         = EXCLUDED.user_id,
  squadron        = EXCLUDED.squadron,
  started         = EXCLUDED.started,
  region          = EXCLUDED.region,
  wins            = EXCLUDED.wins,
  losses          = EXCLUDED.losses,
  starting_points = EXCLUDED.starting_points,
  current_points  = EXCLUDED.current_points,
  entries         = EXCLUDED.entries,
  log_channel_id  = EXCLUDED.log_channel_id,
  log_message_id  = EXCLUDED.log_message_id,
  updated_at      = now()
`, rec.GuildID, rec.UserID, rec.Squadron, rec.Started, rec.Region, rec.Wins, rec.Losses,
		rec.StartingPoints, rec.CurrentPoints, raw, rec.LogChannelID, rec.LogMessageID)
	return err
}

func (r *SessionRepo) Delete(ctx context.Context, guildID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM scoring_sessions
 WHERE guild_id = $1
`, guildID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
