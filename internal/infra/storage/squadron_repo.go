package storage

import (
	"context"
	"database/sql"
	"strings"
)

type SquadronRepo struct{ db *sql.DB }

func NewSquadronRepo(db *sql.DB) *SquadronRepo { return &SquadronRepo{db: db} }

func (r *SquadronRepo) Upsert(ctx context.Context, s TrackedSquadron) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tracked_squadrons (guild_id, tag, long_name)
VALUES ($1,$2,$3)
ON CONFLICT (guild_id, tag) DO UPDATE SET
  long_name = EXCLUDED.long_name
`, s.GuildID, strings.ToLower(s.Tag), s.LongName)
	return err
}

func (r *SquadronRepo) GetByTag(ctx context.Context, guildID, tag string) (TrackedSquadron, error) {
	var s TrackedSquadron
	err := r.db.QueryRowContext(ctx, `
SELECT guild_id, tag, long_name, added_at
  FROM tracked_squadrons
 WHERE guild_id = $1 AND tag = $2
`, guildID, strings.ToLower(tag)).Scan(&s.GuildID, &s.Tag, &s.LongName, &s.AddedAt)
	if err == sql.ErrNoRows {
		return TrackedSquadron{}, ErrNotFound
	}
	return s, err
}

func (r *SquadronRepo) List(ctx context.Context, guildID string) ([]TrackedSquadron, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, tag, long_name, added_at
  FROM tracked_squadrons
 WHERE guild_id = $1
 ORDER BY tag
`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrackedSquadron
	for rows.Next() {
		var s TrackedSquadron
		if err := rows.Scan(&s.GuildID, &s.Tag, &s.LongName, &s.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SquadronRepo) Delete(ctx context.Context, guildID, tag string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM tracked_squadrons
 WHERE guild_id = $1 AND tag = $2
`, guildID, strings.ToLower(tag))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
