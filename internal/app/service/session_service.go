package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
	"github.com/xcgclub/wt-squadron-bot/internal/infra/storage"
)

var (
	ErrAlreadyActive   = errors.New("ya hay una sesión activa")
	ErrNoActiveSession = errors.New("no hay sesión activa")
	ErrNotAuthorized   = errors.New("la sesión es de otro usuario")
	ErrNoEntries       = errors.New("la sesión no tiene batallas logueadas")
)

const (
	// marcas del punto 6 del log: primero pendiente, después el delta
	// observado o el marcador de "no se pudo confirmar"
	notePending = "(pts pendientes)"
	noteUnknown = "(pts: ?)"
)

// SessionSummary es lo que devuelve End para el mensaje de cierre.
type SessionSummary struct {
	Squadron       string
	Region         string
	Wins           int
	Losses         int
	WinRate        float64
	StartingPoints int
	FinalPoints    int
}

// SessionService es el ledger manual de wins/losses. Estado vive en el
// store, no en memoria: cada operación relee, muta y persiste.
type SessionService struct {
	fc      RosterFetcher
	repo    SessionStore
	display SessionDisplay // opcional; nil = sin display
	log     zerolog.Logger

	// ventana del confirmador de puntos en background
	confirmEvery time.Duration
	confirmFor   time.Duration
}

func NewSessionService(fc RosterFetcher, repo SessionStore, display SessionDisplay, log zerolog.Logger) *SessionService {
	return &SessionService{
		fc:           fc,
		repo:         repo,
		display:      display,
		log:          log,
		confirmEvery: 30 * time.Second,
		confirmFor:   10 * time.Minute,
	}
}

// Start abre la sesión de la guild. Captura los puntos agregados de arranque
// best-effort: si el fetch falla arrancamos igual con 0, nunca bloqueamos.
func (s *SessionService) Start(ctx context.Context, guildID, userID, squadron, region, channelID string) (storage.SessionRecord, error) {
	if cur, err := s.repo.Get(ctx, guildID); err == nil && cur.Started {
		return storage.SessionRecord{}, ErrAlreadyActive
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return storage.SessionRecord{}, err
	}

	pts := 0
	if v, err := s.fc.FetchAggregatePoints(ctx, squadron); err == nil {
		pts = v
	} else {
		s.log.Warn().Err(err).Str("squadron", squadron).Msg("sin puntos de arranque, sesión parte de 0")
	}

	rec := storage.SessionRecord{
		GuildID:        guildID,
		UserID:         userID,
		Squadron:       squadron,
		Started:        true,
		Region:         region,
		StartingPoints: pts,
		CurrentPoints:  pts,
		Entries:        []domain.LogEntry{},
		LogChannelID:   channelID,
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return storage.SessionRecord{}, err
	}
	s.refreshDisplay(ctx, &rec)
	return rec, nil
}

// LogResult agrega una batalla y dispara el confirmador de puntos en
// background. El ack al usuario no espera a la confirmación.
func (s *SessionService) LogResult(ctx context.Context, guildID, actorID string, admin bool, result domain.GameResult, opponent string, vehicles domain.VehicleCounts, comment string) (storage.SessionRecord, error) {
	rec, err := s.authorized(ctx, guildID, actorID, admin)
	if err != nil {
		return storage.SessionRecord{}, err
	}

	if result == domain.ResultWin {
		rec.Wins++
	} else {
		rec.Losses++
	}
	rec.Entries = append(rec.Entries, domain.LogEntry{
		Result:         result,
		SequenceNumber: rec.Wins + rec.Losses,
		OpponentName:   opponent,
		Vehicles:       vehicles,
		Comment:        comment,
		PointsNote:     notePending,
	})
	idx := len(rec.Entries) - 1

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return storage.SessionRecord{}, err
	}
	s.refreshDisplay(ctx, &rec)

	// guardamos el índice AHORA: si entran más logs durante la espera, el
	// update de fondo tiene que pegar en esta entry, no en "la última"
	go s.confirmPoints(guildID, rec.Squadron, idx, rec.CurrentPoints)

	return rec, nil
}

// confirmPoints espera a que el total agregado del escuadrón se mueva y
// anota el delta en la entry idx. Si la ventana expira sin cambio, marca
// explícito de desconocido. Si la sesión ya no existe, no-op silencioso.
func (s *SessionService) confirmPoints(guildID, squadron string, idx, baseline int) {
	deadline := time.Now().Add(s.confirmFor)
	t := time.NewTicker(s.confirmEvery)
	defer t.Stop()

	delta, changed := 0, false
	for time.Now().Before(deadline) {
		<-t.C
		cctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		pts, err := s.fc.FetchAggregatePoints(cctx, squadron)
		cancel()
		if err != nil {
			continue
		}
		if pts != baseline {
			delta, changed = pts-baseline, true
			break
		}
	}

	note := noteUnknown
	if changed {
		note = fmt.Sprintf("(%+d pts)", delta)
	}

	cctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// releemos del store: la entry pudo haber cambiado de vecinos, o la
	// sesión entera pudo haberse cerrado mientras esperábamos
	rec, err := s.repo.Get(cctx, guildID)
	if err != nil {
		return // sesión terminada: el update muere en silencio
	}
	if idx < 0 || idx >= len(rec.Entries) {
		return
	}
	rec.Entries[idx].PointsNote = note
	if changed {
		rec.CurrentPoints = baseline + delta
	}
	if err := s.repo.Upsert(cctx, rec); err != nil {
		s.log.Error().Err(err).Str("guild", guildID).Msg("no pude anotar el delta de puntos")
		return
	}
	s.refreshDisplay(cctx, &rec)
}

// EditLast reemplaza la última entry. Si cambia el resultado, ajusta los
// contadores exactamente una vez.
func (s *SessionService) EditLast(ctx context.Context, guildID, actorID string, admin bool, result domain.GameResult, opponent string, vehicles domain.VehicleCounts, comment string) (storage.SessionRecord, error) {
	rec, err := s.authorized(ctx, guildID, actorID, admin)
	if err != nil {
		return storage.SessionRecord{}, err
	}
	if len(rec.Entries) == 0 {
		return storage.SessionRecord{}, ErrNoEntries
	}

	last := &rec.Entries[len(rec.Entries)-1]
	if result != last.Result {
		if result == domain.ResultWin {
			rec.Wins++
			rec.Losses--
		} else {
			rec.Losses++
			rec.Wins--
		}
	}
	last.Result = result
	last.OpponentName = opponent
	last.Vehicles = vehicles
	last.Comment = comment

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return storage.SessionRecord{}, err
	}
	s.refreshDisplay(ctx, &rec)
	return rec, nil
}

// End cierra la sesión: calcula el resumen final y borra el registro para
// que la próxima arranque limpia.
func (s *SessionService) End(ctx context.Context, guildID, actorID string, admin bool) (SessionSummary, error) {
	rec, err := s.authorized(ctx, guildID, actorID, admin)
	if err != nil {
		return SessionSummary{}, err
	}

	games := rec.Wins + rec.Losses
	rate := 0.0
	if games > 0 {
		rate = float64(rec.Wins) / float64(games)
	}

	final := rec.CurrentPoints
	if v, err := s.fc.FetchAggregatePoints(ctx, rec.Squadron); err == nil {
		final = v
	}

	if _, err := s.repo.Delete(ctx, guildID); err != nil {
		return SessionSummary{}, err
	}
	if s.display != nil && rec.LogMessageID != "" {
		if err := s.display.RemoveLog(ctx, rec.LogChannelID, rec.LogMessageID); err != nil {
			s.log.Warn().Err(err).Msg("no pude borrar el log viejo al cerrar")
		}
	}

	return SessionSummary{
		Squadron:       rec.Squadron,
		Region:         rec.Region,
		Wins:           rec.Wins,
		Losses:         rec.Losses,
		WinRate:        rate,
		StartingPoints: rec.StartingPoints,
		FinalPoints:    final,
	}, nil
}

// authorized carga la sesión y valida dueño (o admin override).
func (s *SessionService) authorized(ctx context.Context, guildID, actorID string, admin bool) (storage.SessionRecord, error) {
	rec, err := s.repo.Get(ctx, guildID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.SessionRecord{}, ErrNoActiveSession
	}
	if err != nil {
		return storage.SessionRecord{}, err
	}
	if !rec.Started {
		return storage.SessionRecord{}, ErrNoActiveSession
	}
	if !admin && rec.UserID != actorID {
		return storage.SessionRecord{}, ErrNotAuthorized
	}
	return rec, nil
}

// refreshDisplay: borrar-y-remandar el mensaje de log. El id nuevo queda
// persistido para poder borrarlo en la próxima mutación.
func (s *SessionService) refreshDisplay(ctx context.Context, rec *storage.SessionRecord) {
	if s.display == nil {
		return
	}
	newID, err := s.display.ReplaceLog(ctx, *rec)
	if err != nil {
		s.log.Warn().Err(err).Str("guild", rec.GuildID).Msg("no pude refrescar el display de la sesión")
		return
	}
	if newID != rec.LogMessageID {
		rec.LogMessageID = newID
		if err := s.repo.Upsert(ctx, *rec); err != nil {
			s.log.Warn().Err(err).Msg("no pude guardar el id del mensaje de log")
		}
	}
}
