package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
)

type SnapshotRepo struct{ db *sql.DB }

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

// Get carga el snapshot de (guild, squadron, region). Region vacía es la
// clave "sin región" que usa el tracking de bajas.
func (r *SnapshotRepo) Get(ctx context.Context, guildID, squadron, region string) (domain.Snapshot, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `
SELECT payload
  FROM roster_snapshots
 WHERE guild_id = $1 AND squadron = $2 AND region = $3
`, guildID, squadron, region).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("snapshot payload: %w", err)
	}
	return snap, nil
}

// Put upserta el snapshot para la clave (guild, squadron, region).
func (r *SnapshotRepo) Put(ctx context.Context, guildID, squadron, region string, snap domain.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot marshal: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO roster_snapshots (guild_id, squadron, region, captured_at, payload)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (guild_id, squadron, region) DO UPDATE SET
  captured_at = EXCLUDED.captured_at,
  payload     = EXCLUDED.payload,
  updated_at  = now()
`, guildID, squadron, region, snap.CapturedAt, raw)
	return err
}
