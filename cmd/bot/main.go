package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/xcgclub/wt-squadron-bot/internal/adapters/discord"
	"github.com/xcgclub/wt-squadron-bot/internal/adapters/thunder"
	"github.com/xcgclub/wt-squadron-bot/internal/app/service"
	"github.com/xcgclub/wt-squadron-bot/internal/infra/config"
	"github.com/xcgclub/wt-squadron-bot/internal/infra/logger"
	"github.com/xcgclub/wt-squadron-bot/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	zl := logger.New(cfg.LogLevel)

	euWin, err := service.ParseWindow(cfg.EUWindow)
	if err != nil {
		log.Fatal(err)
	}
	usWin, err := service.ParseWindow(cfg.USWindow)
	if err != nil {
		log.Fatal(err)
	}
	windows := service.RegionWindows{EU: euWin, US: usWin}

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	zl.Info().Msg("✅ DB lista y migrada")

	// Repos
	snapRepo := storage.NewSnapshotRepo(db)
	sessionRepo := storage.NewSessionRepo(db)
	alarmRepo := storage.NewAlarmRepo(db)
	squadronRepo := storage.NewSquadronRepo(db)
	replayRepo := storage.NewReplayRepo(db)

	// Cliente del sitio de War Thunder (antes de services que lo usan)
	fc := thunder.New()

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	zl.Info().Str("user", s.State.User.Username).Str("id", s.State.User.ID).Msg("✅ conectado a Discord")

	// Services
	dispatcher := discordrouter.NewDispatcher(s, zl)
	squadronSvc := service.NewSquadronService(fc, squadronRepo, zl)
	sessionSvc := service.NewSessionService(fc, sessionRepo, dispatcher, zl)
	alarmSvc := service.NewAlarmService(fc, snapRepo, alarmRepo, dispatcher, windows, zl)
	replaySvc := service.NewReplayService(cfg.ReplaysDir, replayRepo, alarmRepo, dispatcher, zl)

	// Router
	r := discordrouter.NewRouter(s, cfg.DiscordGuild, cfg.AdminRoleIDs, squadronSvc, sessionSvc, replaySvc, alarmRepo, windows, zl)
	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	r.Handlers()
	zl.Info().Str("guild", cfg.DiscordGuild).Msg("✅ comandos registrados")

	// Ticks de fondo: puntos post-ventana, bajas, y scan de replays
	go tick(cfg.PointsInterval, alarmSvc.PointsTick)
	go tick(cfg.LeaveInterval, alarmSvc.LeaveTick)
	go tick(cfg.ReplayInterval, replaySvc.ScanTick)

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
}

func tick(every time.Duration, fn func(context.Context)) {
	t := time.NewTicker(every)
	defer t.Stop()
	for range t.C {
		ctx, cancel := context.WithTimeout(context.Background(), every)
		fn(ctx)
		cancel()
	}
}
