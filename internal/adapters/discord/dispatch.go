package discord

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
	"github.com/xcgclub/wt-squadron-bot/internal/infra/storage"
	"github.com/xcgclub/wt-squadron-bot/internal/replay"
)

// límite de value por field de embed que impone Discord
const maxEmbedField = 1024

// Dispatcher manda los avisos de alarmas y mantiene el mensaje de log de
// sesión. Es la única pieza que conoce el formato de los embeds salientes.
type Dispatcher struct {
	s   *discordgo.Session
	log zerolog.Logger
}

func NewDispatcher(s *discordgo.Session, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{s: s, log: log}
}

// NotifyLeaves avisa bajas y renombres detectados en el roster.
func (d *Dispatcher) NotifyLeaves(_ context.Context, cfg storage.AlarmConfig, cs domain.ChangeSet) error {
	var b strings.Builder

	names := make([]string, 0, len(cs.Left))
	for n := range cs.Left {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(&b, "🚪 **%s** se fue con %d puntos\n", escapeMD(n), cs.Left[n])
	}

	olds := make([]string, 0, len(cs.Renamed))
	for n := range cs.Renamed {
		olds = append(olds, n)
	}
	sort.Strings(olds)
	for _, n := range olds {
		r := cs.Renamed[n]
		fmt.Fprintf(&b, "📝 **%s** ahora se llama **%s** (%d puntos)\n", escapeMD(n), escapeMD(r.NewName), r.Points)
	}

	if b.Len() == 0 {
		return nil
	}
	emb := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("**%s Member Update**", cfg.Squadron),
		Description: b.String(),
		Color:       0xe67e22,
	}
	_, err := d.s.ChannelMessageSendEmbed(cfg.ChannelID, emb)
	return err
}

// NotifyPoints publica la tabla de cambios de puntos post-ventana. Formato
// de ancho fijo dentro de code blocks para que las columnas no bailen.
func (d *Dispatcher) NotifyPoints(_ context.Context, cfg storage.AlarmConfig, region string, cs domain.ChangeSet, oldTotal, newTotal int) error {
	names := make([]string, 0, len(cs.PointsChanged))
	for n := range cs.PointsChanged {
		names = append(names, n)
	}
	sort.Strings(names)

	var lines []string
	for _, n := range names {
		ch := cs.PointsChanged[n]
		arrow := "🌲"
		if ch.Delta < 0 {
			arrow = "🔻"
		}
		member := fmt.Sprintf("%-20s", n)
		if len(member) > 20 {
			member = member[:20]
		}
		lines = append(lines, fmt.Sprintf("%s%s %-5d%8d", member, arrow, abs(ch.Delta), ch.New))
	}

	chart := "📈"
	if newTotal < oldTotal {
		chart = "📉"
	}
	emb := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("**%s %s Points Update**", cfg.Squadron, region),
		Description: fmt.Sprintf("# **Point Change:** %d -> %d %s\n\n**Player Changes:**", oldTotal, newTotal, chart),
		Color:       0x3498db,
	}
	header := "Name                Change       Now\n"
	for _, chunk := range codeChunks(header, lines) {
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{Name: " ", Value: chunk})
	}

	_, err := d.s.ChannelMessageSendEmbed(cfg.ChannelID, emb)
	return err
}

// NotifyBattle publica el resumen de una partida sacada de un replay.
func (d *Dispatcher) NotifyBattle(_ context.Context, cfg storage.AlarmConfig, rep replay.BattleReport) error {
	emb := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("**%s Battle Log** (%s)", cfg.Squadron, rep.SessionID),
		Color: 0x9b59b6,
	}
	for _, chunk := range codeChunks("", rep.Lines) {
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{Name: " ", Value: chunk})
	}
	if len(rep.Members) > 0 {
		v := strings.Join(rep.Members, "\n")
		if len(v) > maxEmbedField {
			v = v[:maxEmbedField]
		}
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{Name: "Lineup", Value: v})
	}

	_, err := d.s.ChannelMessageSendEmbed(cfg.ChannelID, emb)
	return err
}

// ReplaceLog borra el mensaje de log anterior y manda uno fresco al fondo
// del canal. Editar in place dejaría el log enterrado bajo la charla.
func (d *Dispatcher) ReplaceLog(_ context.Context, rec storage.SessionRecord) (string, error) {
	if rec.LogChannelID == "" {
		return "", nil
	}
	if rec.LogMessageID != "" {
		if err := d.s.ChannelMessageDelete(rec.LogChannelID, rec.LogMessageID); err != nil {
			d.log.Debug().Err(err).Msg("mensaje de log anterior ya no estaba")
		}
	}

	msg, err := d.s.ChannelMessageSendEmbed(rec.LogChannelID, sessionLogEmbed(rec))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (d *Dispatcher) RemoveLog(_ context.Context, channelID, messageID string) error {
	if channelID == "" || messageID == "" {
		return nil
	}
	return d.s.ChannelMessageDelete(channelID, messageID)
}

func sessionLogEmbed(rec storage.SessionRecord) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, e := range rec.Entries {
		mark := "✅"
		if e.Result == domain.ResultLoss {
			mark = "❌"
		}
		fmt.Fprintf(&b, "%s `#%d` vs **%s**", mark, e.SequenceNumber, escapeMD(e.OpponentName))
		if vs := vehiclesLine(e.Vehicles); vs != "" {
			b.WriteString(" — ")
			b.WriteString(vs)
		}
		if e.PointsNote != "" {
			b.WriteString(" ")
			b.WriteString(e.PointsNote)
		}
		if e.Comment != "" {
			b.WriteString("\n> ")
			b.WriteString(e.Comment)
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		b.WriteString("*Sin batallas todavía.*")
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Session Log: %s (%s) — %d-%d", rec.Squadron, rec.Region, rec.Wins, rec.Losses),
		Description: fmt.Sprintf("Puntos: %d (arrancó en %d)\n\n%s",
			rec.CurrentPoints, rec.StartingPoints, b.String()),
		Color: 0x2ecc71,
	}
}

func vehiclesLine(v domain.VehicleCounts) string {
	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(v.Tanks, "tanks")
	add(v.Fighters, "fighters")
	add(v.Bombers, "bombers")
	add(v.Helis, "helis")
	add(v.SPAA, "spaa")
	return strings.Join(parts, ", ")
}

// codeChunks parte líneas en bloques ``` que entren en un field de embed.
func codeChunks(header string, lines []string) []string {
	var chunks []string
	cur := "```\n" + header
	for _, line := range lines {
		if len(cur)+len(line)+4 > maxEmbedField {
			chunks = append(chunks, cur+"```")
			cur = "```\n"
		}
		cur += line + "\n"
	}
	if cur != "```\n" {
		chunks = append(chunks, cur+"```")
	}
	return chunks
}

func escapeMD(s string) string {
	return strings.ReplaceAll(s, "_", `\_`)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
