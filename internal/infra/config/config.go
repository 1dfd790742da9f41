package config

import (
	"log"
	"os"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL  string
	DiscordToken string
	DiscordGuild string // opcional: vacío = comandos globales
	LogLevel     string

	// Roles con permiso de admin sobre alarmas y sesiones, además del
	// owner y el bit Administrator
	AdminRoleIDs []string

	// Ventanas regionales en UTC, formato "HH:MM-HH:MM"
	EUWindow string
	USWindow string

	// Cadencias de los ticks de fondo
	PointsInterval time.Duration
	LeaveInterval  time.Duration
	ReplayInterval time.Duration

	// Carpeta local donde el grabador deja los replays
	ReplaysDir string
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("faltante env %s", k)
		}
		return v
	}
	getDur := func(k string, def time.Duration) time.Duration {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Fatalf("env %s invalida: %q", k, v)
		}
		return d
	}

	cfg := Config{
		DatabaseURL:  get("DATABASE_URL", true),
		DiscordToken: get("DISCORD_BOT_TOKEN", true),
		DiscordGuild: get("DISCORD_GUILD_ID", false),
		LogLevel:     get("LOG_LEVEL", false),

		EUWindow: get("EU_WINDOW", false),
		USWindow: get("US_WINDOW", false),

		PointsInterval: getDur("POINTS_POLL_INTERVAL", 3*time.Minute),
		LeaveInterval:  getDur("LEAVE_POLL_INTERVAL", time.Minute),
		ReplayInterval: getDur("REPLAY_SCAN_INTERVAL", 45*time.Second),

		ReplaysDir: get("REPLAYS_DIR", false),
	}

	if raw := get("ADMIN_ROLE_IDS", false); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.AdminRoleIDs = append(cfg.AdminRoleIDs, id)
			}
		}
	}

	// ventanas por defecto: sesiones squadrons EU y US en UTC
	if cfg.EUWindow == "" {
		cfg.EUWindow = "13:55-22:10"
	}
	if cfg.USWindow == "" {
		cfg.USWindow = "00:55-07:10"
	}
	if cfg.ReplaysDir == "" {
		cfg.ReplaysDir = "replays"
	}
	return cfg
}
