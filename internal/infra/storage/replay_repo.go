package storage

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// ReplayRepo recuerda qué replays ya se escanearon, para no loguear dos
// veces la misma batalla.
type ReplayRepo struct{ db *sql.DB }

func NewReplayRepo(db *sql.DB) *ReplayRepo { return &ReplayRepo{db: db} }

// FilterNew devuelve, de los ids dados, los que todavía no se vieron.
func (r *ReplayRepo) FilterNew(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT u.id
  FROM unnest($1::text[]) AS u(id)
 WHERE NOT EXISTS (
   SELECT 1 FROM replay_seen rs WHERE rs.session_hex = u.id
 )
`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// MarkSeen registra el batch entero de una.
func (r *ReplayRepo) MarkSeen(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO replay_seen (session_hex)
SELECT unnest($1::text[])
ON CONFLICT DO NOTHING
`, pq.Array(ids))
	return err
}
