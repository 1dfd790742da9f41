package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
	"github.com/xcgclub/wt-squadron-bot/internal/infra/storage"
)

var ErrSquadronNotFound = errors.New("escuadrón no encontrado")

// SquadronService: consultas on-demand de roster/leaderboard y el registro
// por guild de escuadrones seguidos.
type SquadronService struct {
	fc   RosterFetcher
	repo SquadronStore
	log  zerolog.Logger
}

func NewSquadronService(fc RosterFetcher, repo SquadronStore, log zerolog.Logger) *SquadronService {
	return &SquadronService{fc: fc, repo: repo, log: log}
}

// Describe trae el roster completo con totales para el comando de info.
func (s *SquadronService) Describe(ctx context.Context, squadron string) (domain.Roster, error) {
	return s.fc.FetchRoster(ctx, squadron, domain.ModeFull)
}

// Stats busca el escuadrón en el leaderboard por tag.
func (s *SquadronService) Stats(ctx context.Context, tag string) (domain.SquadronStats, error) {
	st, err := s.fc.SearchSquadron(ctx, tag)
	if err != nil {
		return domain.SquadronStats{}, err
	}
	if st == nil {
		return domain.SquadronStats{}, fmt.Errorf("%w: %s", ErrSquadronNotFound, tag)
	}
	return *st, nil
}

// Top devuelve la primera página del leaderboard.
func (s *SquadronService) Top(ctx context.Context) ([]domain.SquadronStats, error) {
	return s.fc.TopSquadrons(ctx)
}

// Track registra un escuadrón para la guild. Resuelve el nombre largo via
// leaderboard; si el tag no aparece ahí lo registramos igual solo con tag.
func (s *SquadronService) Track(ctx context.Context, guildID, tag string) (storage.TrackedSquadron, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return storage.TrackedSquadron{}, errors.New("tag vacío")
	}

	rec := storage.TrackedSquadron{GuildID: guildID, Tag: tag}
	if st, err := s.fc.SearchSquadron(ctx, tag); err == nil && st != nil {
		rec.LongName = st.LongName
	} else if err != nil {
		s.log.Warn().Err(err).Str("tag", tag).Msg("no pude resolver el nombre largo, registro solo el tag")
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return storage.TrackedSquadron{}, err
	}
	return rec, nil
}

func (s *SquadronService) Untrack(ctx context.Context, guildID, tag string) (bool, error) {
	return s.repo.Delete(ctx, guildID, tag)
}

func (s *SquadronService) Tracked(ctx context.Context, guildID string) ([]storage.TrackedSquadron, error) {
	return s.repo.List(ctx, guildID)
}
