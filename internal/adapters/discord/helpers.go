package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/xcgclub/wt-squadron-bot/internal/app/service"
	"github.com/xcgclub/wt-squadron-bot/internal/domain"
)

// subOpts devuelve el subcomando invocado y sus opciones.
func subOpts(ic *discordgo.InteractionCreate) (string, []*discordgo.ApplicationCommandInteractionDataOption) {
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o.Name, o.Options
		}
	}
	return "", nil
}

func optStr(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue()
		}
	}
	return ""
}

func optInt(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) int {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionInteger {
			return int(o.IntValue())
		}
	}
	return 0
}

func optBool(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionBoolean {
			return o.BoolValue()
		}
	}
	return false
}

func optChannelID(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionChannel {
			if ch := o.ChannelValue(nil); ch != nil {
				return ch.ID
			}
		}
	}
	return ""
}

func vehiclesFromOpts(opts []*discordgo.ApplicationCommandInteractionDataOption) domain.VehicleCounts {
	return domain.VehicleCounts{
		Tanks:    optInt(opts, "tanks"),
		Fighters: optInt(opts, "fighters"),
		Bombers:  optInt(opts, "bombers"),
		Helis:    optInt(opts, "helis"),
		SPAA:     optInt(opts, "spaa"),
	}
}

// rosterEmbed arma el embed de /sq-info con el mismo layout que se
// persiste en los snapshots.
func rosterEmbed(squadron, kind string, r domain.Roster) *discordgo.MessageEmbed {
	emb := &discordgo.MessageEmbed{
		Title: "Squadron Info: " + squadron,
		Color: 0x3498db,
	}

	switch kind {
	case "points":
		if r.TotalPoints != nil {
			emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
				Name: "Total Points", Value: fmt.Sprintf("%d", *r.TotalPoints),
			})
		}
	case "members":
		stripped := r
		stripped.TotalMembers, stripped.TotalPoints = nil, nil
		for _, f := range service.RenderFields(stripped) {
			emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value})
		}
	default:
		for _, f := range service.RenderFields(r) {
			emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value})
		}
	}
	return emb
}

func statsLine(st domain.SquadronStats) string {
	return fmt.Sprintf("`#%-4d` **%s** [%s] — %d members, rating %d",
		st.Position, st.LongName, st.ShortName, st.Members, st.ClanRating)
}

func leaderboardEmbed(stats []domain.SquadronStats) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, st := range stats {
		b.WriteString(statsLine(st))
		b.WriteString("\n")
	}
	return &discordgo.MessageEmbed{
		Title:       "Squadron Leaderboard",
		Description: b.String(),
		Color:       0x3498db,
	}
}

func summaryEmbed(sum service.SessionSummary) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Session Summary: %s (%s)", sum.Squadron, sum.Region),
		Description: fmt.Sprintf(
			"**Record:** %d-%d (%.0f%% win rate)\n**Points:** %d -> %d",
			sum.Wins, sum.Losses, sum.WinRate*100, sum.StartingPoints, sum.FinalPoints,
		),
		Color: 0x2ecc71,
	}
}
