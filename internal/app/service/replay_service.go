package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
	"github.com/xcgclub/wt-squadron-bot/internal/infra/storage"
	"github.com/xcgclub/wt-squadron-bot/internal/replay"
)

// ReplayService barre el directorio de replays exportados, parsea los que
// no vimos todavía y despacha los reportes a las alarmas de logs.
type ReplayService struct {
	dir    string
	store  ReplayStore
	alarms AlarmStore
	notif  AlarmNotifier
	log    zerolog.Logger

	mu sync.Mutex
}

func NewReplayService(dir string, store ReplayStore, alarms AlarmStore, notif AlarmNotifier, log zerolog.Logger) *ReplayService {
	return &ReplayService{dir: dir, store: store, alarms: alarms, notif: notif, log: log}
}

// ScanTick corre una pasada completa. Si el tick anterior sigue vivo, este
// se salta en vez de encimarse.
func (s *ReplayService) ScanTick(ctx context.Context) {
	if !s.mu.TryLock() {
		s.log.Debug().Msg("scan de replays anterior sigue corriendo, salto el tick")
		return
	}
	defer s.mu.Unlock()

	if _, err := s.scan(ctx); err != nil {
		s.log.Error().Err(err).Msg("scan de replays falló")
	}
}

// ScanNow fuerza una pasada inmediata (comando /quick-log) y devuelve
// cuántos replays quedaron consumidos. Espera al scan en curso si hay uno.
func (s *ReplayService) ScanNow(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scan(ctx)
}

func (s *ReplayService) scan(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("leer directorio de replays: %w", err)
	}

	byID := map[string]string{} // session hex -> path
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if id == "" {
			continue
		}
		byID[id] = filepath.Join(s.dir, e.Name())
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	fresh, err := s.store.FilterNew(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("filtrar replays nuevos: %w", err)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	cfgs, err := s.alarms.ListEnabledByType(ctx, domain.AlarmLogs)
	if err != nil {
		return 0, fmt.Errorf("listar alarmas de logs: %w", err)
	}

	var done []string
	for _, id := range fresh {
		if s.processReplay(ctx, id, byID[id], cfgs) {
			done = append(done, id)
		}
	}
	if len(done) > 0 {
		if err := s.store.MarkSeen(ctx, done); err != nil {
			return len(done), fmt.Errorf("marcar replays vistos: %w", err)
		}
	}
	return len(done), nil
}

// processReplay parsea un archivo y notifica cada alarma cuyo escuadrón
// aparece en alguna partida. Devuelve si el replay queda consumido: un
// archivo ilegible también se marca para no reintentarlo cada tick.
func (s *ReplayService) processReplay(ctx context.Context, id, path string, cfgs []storage.AlarmConfig) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Error().Err(err).Str("replay", id).Msg("no pude leer el replay")
		return false
	}

	for _, cfg := range cfgs {
		reports, err := replay.Parse(data, id, cfg.Squadron)
		if err != nil {
			s.log.Warn().Err(err).Str("replay", id).Msg("replay corrupto, lo descarto")
			return true
		}
		for _, rep := range reports {
			if err := s.notif.NotifyBattle(ctx, cfg, rep); err != nil {
				s.log.Error().Err(err).
					Str("replay", id).
					Str("guild", cfg.GuildID).
					Msg("no pude mandar el reporte de batalla")
			}
		}
	}
	return true
}
