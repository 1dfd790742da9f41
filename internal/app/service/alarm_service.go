package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
	"github.com/xcgclub/wt-squadron-bot/internal/infra/storage"
)

// AlarmService corre los ciclos periódicos de diff-y-aviso: puntos (pareado
// por región) y bajas (contra el último snapshot, sin región).
type AlarmService struct {
	fc      RosterFetcher
	snaps   SnapshotStore
	alarms  AlarmStore
	notif   AlarmNotifier
	parser  *RosterParser
	windows RegionWindows
	log     zerolog.Logger

	// ticks sin solaparse: si el anterior sigue corriendo, el nuevo se saltea
	pointsMu sync.Mutex
	leaveMu  sync.Mutex

	now func() time.Time // inyectable para tests
}

func NewAlarmService(fc RosterFetcher, snaps SnapshotStore, alarms AlarmStore, notif AlarmNotifier, windows RegionWindows, log zerolog.Logger) *AlarmService {
	return &AlarmService{
		fc:      fc,
		snaps:   snaps,
		alarms:  alarms,
		notif:   notif,
		parser:  NewRosterParser(log),
		windows: windows,
		log:     log,
		now:     time.Now,
	}
}

// PointsTick procesa el ciclo de puntos si estamos dentro de una ventana
// regional. Fuera de ambas ventanas es no-op: comparar a mitad de la nada
// no significa nada.
func (s *AlarmService) PointsTick(ctx context.Context) {
	region, ok := s.windows.Active(s.now())
	if !ok {
		return
	}
	if !s.pointsMu.TryLock() {
		s.log.Warn().Msg("tick de puntos anterior sigue corriendo, salteamos")
		return
	}
	defer s.pointsMu.Unlock()

	cfgs, err := s.alarms.ListEnabledByType(ctx, domain.AlarmPoints)
	if err != nil {
		s.log.Error().Err(err).Msg("no pude listar alarmas de puntos")
		return
	}
	for _, cfg := range cfgs {
		// una falla en un escuadrón no frena a los demás
		if err := s.pointsCycle(ctx, cfg, region); err != nil {
			s.log.Error().Err(err).
				Str("guild", cfg.GuildID).
				Str("squadron", cfg.Squadron).
				Str("region", region).
				Msg("ciclo de puntos falló para este escuadrón")
		}
	}
}

func (s *AlarmService) pointsCycle(ctx context.Context, cfg storage.AlarmConfig, region string) error {
	fresh, err := s.fc.FetchRoster(ctx, cfg.Squadron, domain.ModeFull)
	if err != nil {
		return fmt.Errorf("fetch roster: %w", err)
	}

	// la comparación que importa: contra el cierre de la OTRA región
	opposite := OppositeRegion(region)
	prev, err := s.snaps.Get(ctx, cfg.GuildID, cfg.Squadron, opposite)
	switch {
	case err == nil:
		oldRoster := s.parser.Parse(prev.Fields)
		cs := Diff(oldRoster, fresh)
		if len(cs.PointsChanged) > 0 {
			oldTotal, newTotal := 0, 0
			if oldRoster.TotalPoints != nil {
				oldTotal = *oldRoster.TotalPoints
			}
			if fresh.TotalPoints != nil {
				newTotal = *fresh.TotalPoints
			}
			if err := s.notif.NotifyPoints(ctx, cfg, region, cs, oldTotal, newTotal); err != nil {
				s.log.Error().Err(err).Str("squadron", cfg.Squadron).Msg("no pude mandar el aviso de puntos")
			}
		}
	case errors.Is(err, storage.ErrNotFound):
		// primera corrida para esta clave: solo dejamos baseline
		s.log.Info().Str("squadron", cfg.Squadron).Str("region", opposite).Msg("sin snapshot previo, guardamos baseline")
	default:
		return fmt.Errorf("load snapshot: %w", err)
	}

	// siempre persistimos lo fresco en la región ACTUAL, haya o no aviso
	if err := s.snaps.Put(ctx, cfg.GuildID, cfg.Squadron, region, BuildSnapshot(fresh, region)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LeaveTick corre el tracking de bajas/renombres. Sin pareo regional: acá
// interesa "quién falta desde la última vez que miramos", a cadencia corta.
func (s *AlarmService) LeaveTick(ctx context.Context) {
	if !s.leaveMu.TryLock() {
		s.log.Warn().Msg("tick de bajas anterior sigue corriendo, salteamos")
		return
	}
	defer s.leaveMu.Unlock()

	cfgs, err := s.alarms.ListEnabledByType(ctx, domain.AlarmLeave)
	if err != nil {
		s.log.Error().Err(err).Msg("no pude listar alarmas de bajas")
		return
	}
	for _, cfg := range cfgs {
		if err := s.leaveCycle(ctx, cfg); err != nil {
			s.log.Error().Err(err).
				Str("guild", cfg.GuildID).
				Str("squadron", cfg.Squadron).
				Msg("ciclo de bajas falló para este escuadrón")
		}
	}
}

func (s *AlarmService) leaveCycle(ctx context.Context, cfg storage.AlarmConfig) error {
	// acá solo importa la lista de miembros, los totales no hacen falta
	fresh, err := s.fc.FetchRoster(ctx, cfg.Squadron, domain.ModeMembers)
	if err != nil {
		return fmt.Errorf("fetch roster: %w", err)
	}

	prev, err := s.snaps.Get(ctx, cfg.GuildID, cfg.Squadron, "")
	switch {
	case err == nil:
		cs := Diff(s.parser.Parse(prev.Fields), fresh)
		if len(cs.Left) > 0 || len(cs.Renamed) > 0 {
			if err := s.notif.NotifyLeaves(ctx, cfg, cs); err != nil {
				s.log.Error().Err(err).Str("squadron", cfg.Squadron).Msg("no pude mandar el aviso de bajas")
			}
		}
	case errors.Is(err, storage.ErrNotFound):
		s.log.Info().Str("squadron", cfg.Squadron).Msg("sin snapshot previo de bajas, guardamos baseline")
	default:
		return fmt.Errorf("load snapshot: %w", err)
	}

	if err := s.snaps.Put(ctx, cfg.GuildID, cfg.Squadron, "", BuildSnapshot(fresh, "")); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
