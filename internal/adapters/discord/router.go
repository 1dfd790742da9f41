package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/xcgclub/wt-squadron-bot/internal/app/service"
	"github.com/xcgclub/wt-squadron-bot/internal/domain"
	"github.com/xcgclub/wt-squadron-bot/internal/infra/storage"
)

type Router struct {
	s            *discordgo.Session
	guildID      string
	adminRoleIDs []string

	squadrons *service.SquadronService
	sessions  *service.SessionService
	replays   *service.ReplayService
	alarms    service.AlarmStore
	windows   service.RegionWindows

	scrapeLimit *userLimiter
	log         zerolog.Logger
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	adminRoleIDs []string,
	squadrons *service.SquadronService,
	sessions *service.SessionService,
	replays *service.ReplayService,
	alarms service.AlarmStore,
	windows service.RegionWindows,
	log zerolog.Logger,
) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		adminRoleIDs: adminRoleIDs,
		squadrons:    squadrons,
		sessions:     sessions,
		replays:      replays,
		alarms:       alarms,
		windows:      windows,
		scrapeLimit:  newUserLimiter(10 * time.Second),
		log:          log,
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		r.log.Info().
			Str("cmd", data.Name).
			Str("user", ic.Member.User.ID).
			Str("guild", ic.GuildID).
			Msg("slash")

		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error().Interface("panic", rec).Str("cmd", data.Name).Msg("panic en slash")
				ReplyEphemeral(s, ic, "⚠️ Ocurrió un error inesperado.")
			}
		}()

		_ = DeferEphemeral(s, ic)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		switch data.Name {
		case "sq-info":
			r.handleSqInfo(ctx, s, ic, data.Options)
		case "sq-find":
			r.handleSqFind(ctx, s, ic, data.Options)
		case "sq-top":
			r.handleSqTop(ctx, s, ic)
		case "alarm":
			r.handleAlarm(ctx, s, ic)
		case "track":
			r.handleTrack(ctx, s, ic)
		case "session":
			r.handleSession(ctx, s, ic)
		case "quick-log":
			r.handleQuickLog(ctx, s, ic)
		case "time-now":
			r.handleTimeNow(s, ic)
		}
	})
}

func (r *Router) handleSqInfo(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !r.scrapeLimit.Allow(ic.Member.User.ID) {
		ReplyEphemeral(s, ic, "⏳ Tranquilo, espera unos segundos entre consultas.")
		return
	}
	squadron := optStr(opts, "squadron")
	kind := optStr(opts, "type")

	roster, err := r.squadrons.Describe(ctx, squadron)
	if err != nil {
		ReplyEphemeral(s, ic, "⚠️ No pude obtener el escuadrón: "+err.Error())
		return
	}
	ReplyEphemeral(s, ic, "", rosterEmbed(squadron, kind, roster))
}

func (r *Router) handleSqFind(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !r.scrapeLimit.Allow(ic.Member.User.ID) {
		ReplyEphemeral(s, ic, "⏳ Tranquilo, espera unos segundos entre consultas.")
		return
	}
	tag := optStr(opts, "tag")

	st, err := r.squadrons.Stats(ctx, tag)
	if err != nil {
		ReplyEphemeral(s, ic, "⚠️ "+err.Error())
		return
	}
	ReplyEphemeral(s, ic, statsLine(st))
}

func (r *Router) handleSqTop(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	stats, err := r.squadrons.Top(ctx)
	if err != nil {
		ReplyEphemeral(s, ic, "⚠️ No pude leer el leaderboard: "+err.Error())
		return
	}
	ReplyEphemeral(s, ic, "", leaderboardEmbed(stats))
}

func (r *Router) handleAlarm(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	sub, opts := subOpts(ic)

	// list es de solo lectura, el resto pide admin
	if sub != "list" && !r.requireAdmin(s, ic) {
		return
	}

	switch sub {
	case "set":
		t, ok := domain.ParseAlarmType(optStr(opts, "type"))
		if !ok {
			ReplyEphemeral(s, ic, "⚠️ Tipo de aviso desconocido.")
			return
		}
		cfg := storage.AlarmConfig{
			GuildID:   ic.GuildID,
			Squadron:  optStr(opts, "squadron"),
			Type:      t,
			ChannelID: optChannelID(opts, "channel"),
			Enabled:   true,
		}
		if err := r.alarms.Upsert(ctx, cfg); err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude guardar el aviso: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, fmt.Sprintf("✅ Aviso `%s` de **%s** apuntado a <#%s>.", t, cfg.Squadron, cfg.ChannelID))

	case "toggle":
		t, ok := domain.ParseAlarmType(optStr(opts, "type"))
		if !ok {
			ReplyEphemeral(s, ic, "⚠️ Tipo de aviso desconocido.")
			return
		}
		enabled := optBool(opts, "enabled")
		found, err := r.alarms.SetEnabled(ctx, ic.GuildID, optStr(opts, "squadron"), t, enabled)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ "+err.Error())
			return
		}
		if !found {
			ReplyEphemeral(s, ic, "⚠️ Ese aviso no existe. Configúralo con `/alarm set`.")
			return
		}
		state := "apagado"
		if enabled {
			state = "activo"
		}
		ReplyEphemeral(s, ic, fmt.Sprintf("✅ Aviso `%s` ahora %s.", t, state))

	case "remove":
		t, ok := domain.ParseAlarmType(optStr(opts, "type"))
		if !ok {
			ReplyEphemeral(s, ic, "⚠️ Tipo de aviso desconocido.")
			return
		}
		found, err := r.alarms.Delete(ctx, ic.GuildID, optStr(opts, "squadron"), t)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ "+err.Error())
			return
		}
		if !found {
			ReplyEphemeral(s, ic, "⚠️ Ese aviso no existía.")
			return
		}
		ReplyEphemeral(s, ic, "✅ Aviso borrado.")

	case "list":
		cfgs, err := r.alarms.ListForGuild(ctx, ic.GuildID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ "+err.Error())
			return
		}
		if len(cfgs) == 0 {
			ReplyEphemeral(s, ic, "No hay avisos configurados. Usa `/alarm set`.")
			return
		}
		var b strings.Builder
		for _, c := range cfgs {
			state := "🔕"
			if c.Enabled {
				state = "🔔"
			}
			fmt.Fprintf(&b, "%s **%s** `%s` → <#%s>\n", state, c.Squadron, c.Type, c.ChannelID)
		}
		ReplyEphemeral(s, ic, b.String())

	default:
		ReplyEphemeral(s, ic, "Usa `/alarm set`, `toggle`, `remove` o `list`.")
	}
}

func (r *Router) handleTrack(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	sub, opts := subOpts(ic)

	if sub != "list" && !r.requireAdmin(s, ic) {
		return
	}

	switch sub {
	case "add":
		rec, err := r.squadrons.Track(ctx, ic.GuildID, optStr(opts, "tag"))
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude registrar el escuadrón: "+err.Error())
			return
		}
		if rec.LongName != "" {
			ReplyEphemeral(s, ic, fmt.Sprintf("✅ Siguiendo a **%s** [%s].", rec.LongName, rec.Tag))
		} else {
			ReplyEphemeral(s, ic, fmt.Sprintf("✅ Siguiendo a [%s] (no apareció en el leaderboard todavía).", rec.Tag))
		}

	case "remove":
		found, err := r.squadrons.Untrack(ctx, ic.GuildID, optStr(opts, "tag"))
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ "+err.Error())
			return
		}
		if !found {
			ReplyEphemeral(s, ic, "⚠️ Ese escuadrón no estaba registrado.")
			return
		}
		ReplyEphemeral(s, ic, "✅ Escuadrón quitado del registro.")

	case "list":
		recs, err := r.squadrons.Tracked(ctx, ic.GuildID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ "+err.Error())
			return
		}
		if len(recs) == 0 {
			ReplyEphemeral(s, ic, "No hay escuadrones seguidos. Usa `/track add`.")
			return
		}
		var b strings.Builder
		for _, rec := range recs {
			if rec.LongName != "" {
				fmt.Fprintf(&b, "• **%s** [%s]\n", rec.LongName, rec.Tag)
			} else {
				fmt.Fprintf(&b, "• [%s]\n", rec.Tag)
			}
		}
		ReplyEphemeral(s, ic, b.String())

	default:
		ReplyEphemeral(s, ic, "Usa `/track add`, `remove` o `list`.")
	}
}

func (r *Router) handleSession(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	sub, opts := subOpts(ic)
	userID := ic.Member.User.ID
	admin := r.isAdmin(s, ic)

	switch sub {
	case "start":
		rec, err := r.sessions.Start(ctx, ic.GuildID, userID, optStr(opts, "squadron"), optStr(opts, "region"), ic.ChannelID)
		if err != nil {
			ReplyEphemeral(s, ic, sessionErrMsg(err))
			return
		}
		ReplyPublic(s, ic, fmt.Sprintf("🏁 Sesión de **%s** (%s) arrancada por <@%s>. Puntos iniciales: %d.",
			rec.Squadron, rec.Region, userID, rec.StartingPoints))

	case "win", "loss":
		result := domain.ResultWin
		if sub == "loss" {
			result = domain.ResultLoss
		}
		rec, err := r.sessions.LogResult(ctx, ic.GuildID, userID, admin, result, optStr(opts, "opponent"), vehiclesFromOpts(opts), optStr(opts, "comment"))
		if err != nil {
			ReplyEphemeral(s, ic, sessionErrMsg(err))
			return
		}
		ReplyEphemeral(s, ic, fmt.Sprintf("✅ Batalla `#%d` registrada. Vamos %d-%d.", rec.Wins+rec.Losses, rec.Wins, rec.Losses))

	case "edit-last":
		result := domain.GameResult(optStr(opts, "result"))
		rec, err := r.sessions.EditLast(ctx, ic.GuildID, userID, admin, result, optStr(opts, "opponent"), vehiclesFromOpts(opts), optStr(opts, "comment"))
		if err != nil {
			ReplyEphemeral(s, ic, sessionErrMsg(err))
			return
		}
		ReplyEphemeral(s, ic, fmt.Sprintf("✏️ Última batalla corregida. Vamos %d-%d.", rec.Wins, rec.Losses))

	case "end":
		sum, err := r.sessions.End(ctx, ic.GuildID, userID, admin)
		if err != nil {
			ReplyEphemeral(s, ic, sessionErrMsg(err))
			return
		}
		ReplyPublic(s, ic, "", summaryEmbed(sum))

	default:
		ReplyEphemeral(s, ic, "Usa `/session start`, `win`, `loss`, `edit-last` o `end`.")
	}
}

func (r *Router) handleQuickLog(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	if !r.requireAdmin(s, ic) {
		return
	}
	n, err := r.replays.ScanNow(ctx)
	if err != nil {
		ReplyEphemeral(s, ic, "⚠️ El scan falló: "+err.Error())
		return
	}
	if n == 0 {
		ReplyEphemeral(s, ic, "📭 Nada nuevo en la carpeta de replays.")
		return
	}
	ReplyEphemeral(s, ic, fmt.Sprintf("📬 %d replay(s) procesados; los reportes salen por la alarma de logs.", n))
}

func (r *Router) handleTimeNow(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	now := time.Now().UTC()
	msg := fmt.Sprintf("🕐 UTC ahora: **%s**", now.Format("15:04"))
	if region, ok := r.windows.Active(now); ok {
		msg += fmt.Sprintf("\nVentana **%s** activa.", region)
	} else {
		msg += "\nNinguna ventana regional activa."
	}
	ReplyEphemeral(s, ic, msg)
}

func sessionErrMsg(err error) string {
	switch {
	case errors.Is(err, service.ErrAlreadyActive):
		return "⚠️ Ya hay una sesión activa en esta guild. Ciérrala con `/session end`."
	case errors.Is(err, service.ErrNoActiveSession):
		return "⚠️ No hay sesión activa. Arranca una con `/session start`."
	case errors.Is(err, service.ErrNotAuthorized):
		return "🔒 La sesión es de otro usuario; solo el dueño o un admin pueden tocarla."
	case errors.Is(err, service.ErrNoEntries):
		return "⚠️ La sesión no tiene batallas que corregir."
	default:
		return "⚠️ " + err.Error()
	}
}
