package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Limpieza periódica: snapshots viejos, replays ya vistos y sesiones
// abandonadas que nadie cerró con /session end.
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, _ = pool.Exec(cctx, `DELETE FROM replay_seen WHERE seen_at < now() - INTERVAL '7 days';`)
	_, _ = pool.Exec(cctx, `DELETE FROM roster_snapshots WHERE captured_at < now() - INTERVAL '30 days';`)
	_, _ = pool.Exec(cctx, `DELETE FROM scoring_sessions WHERE updated_at < now() - INTERVAL '2 days';`)

	return "ok", nil
}

func main() { lambda.Start(handler) }
