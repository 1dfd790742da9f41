package thunder

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/xcgclub/wt-squadron-bot/internal/domain"
)

const (
	claninfoPath    = "/en/community/claninfo/"
	leaderboardPath = "/en/community/getclansleaderboard/dif/_hist/page/%d/sort/dr_era5"

	// el leaderboard pagina de a 20; cortamos la búsqueda en algún punto
	maxSearchPages = 100
)

// FetchRoster scrapea la página claninfo del escuadrón. mode decide qué
// partes del snapshot se llenan (members / points / full). Un escuadrón
// sin miembros devuelve roster vacío, no error.
func (c *Client) FetchRoster(ctx context.Context, squadron string, mode domain.FetchMode) (domain.Roster, error) {
	body, err := c.doGET(ctx, claninfoPath+url.PathEscape(squadron))
	if err != nil {
		return domain.Roster{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return domain.Roster{}, fmt.Errorf("claninfo parse: %w", err)
	}

	snap := domain.Roster{
		SquadronID: squadron,
		CapturedAt: time.Now().UTC(),
	}

	if mode == domain.ModePoints || mode == domain.ModeFull {
		if raw := strings.TrimSpace(doc.Find("div.squadrons-counter__value").First().Text()); raw != "" {
			if v, err := strconv.Atoi(cleanNumber(raw)); err == nil {
				snap.TotalPoints = &v
			}
		}
	}
	if mode == domain.ModePoints {
		return snap, nil
	}

	// La grilla trae 6 celdas de header y después 6 celdas por miembro:
	// offset 1 = link al perfil (el nick va en el query), offset 2 = puntos.
	var cells []*goquery.Selection
	doc.Find("div.squadrons-members__grid-item").Each(func(_ int, s *goquery.Selection) {
		cells = append(cells, s)
	})
	for i := 6; i+2 < len(cells); i += 6 {
		name := memberName(cells[i+1])
		if name == "" {
			continue
		}
		pts := 0
		if v, err := strconv.Atoi(cleanNumber(cells[i+2].Text())); err == nil {
			pts = v
		}
		snap.Members = append(snap.Members, domain.MemberEntry{Name: name, Points: pts})
	}

	if mode == domain.ModeFull {
		n := len(snap.Members)
		snap.TotalMembers = &n
	}
	return snap, nil
}

// FetchAggregatePoints: atajo para los que solo quieren el total del clan.
func (c *Client) FetchAggregatePoints(ctx context.Context, squadron string) (int, error) {
	snap, err := c.FetchRoster(ctx, squadron, domain.ModePoints)
	if err != nil {
		return 0, err
	}
	if snap.TotalPoints == nil {
		return 0, fmt.Errorf("claninfo sin total de puntos para %q", squadron)
	}
	return *snap.TotalPoints, nil
}

// LeaderboardPage baja una página del leaderboard de clanes (JSON público).
func (c *Client) LeaderboardPage(ctx context.Context, page int) ([]domain.SquadronStats, error) {
	body, err := c.doGET(ctx, fmt.Sprintf(leaderboardPath, page))
	if err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(body)
	if root.Get("status").String() != "ok" {
		return nil, nil
	}

	var out []domain.SquadronStats
	root.Get("data").ForEach(func(_, entry gjson.Result) bool {
		out = append(out, domain.SquadronStats{
			Position:    int(entry.Get("pos").Int()),
			LongName:    entry.Get("name").String(),
			ShortName:   entry.Get("tagl").String(),
			Members:     int(entry.Get("members_cnt").Int()),
			Wins:        int(entry.Get("astat.wins_hist").Int()),
			Battles:     int(entry.Get("astat.battles_hist").Int()),
			AirKills:    int(entry.Get("astat.akills_hist").Int()),
			GroundKills: int(entry.Get("astat.gkills_hist").Int()),
			Deaths:      int(entry.Get("astat.deaths_hist").Int()),
			Playtime:    int(entry.Get("astat.ftime_hist").Int()),
			ClanRating:  int(entry.Get("astat.dr_era5_hist").Int()),
		})
		return true
	})
	return out, nil
}

// TopSquadrons: primera página del leaderboard.
func (c *Client) TopSquadrons(ctx context.Context) ([]domain.SquadronStats, error) {
	return c.LeaderboardPage(ctx, 1)
}

// SearchSquadron busca un tag página por página. nil si no aparece.
func (c *Client) SearchSquadron(ctx context.Context, tag string) (*domain.SquadronStats, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for page := 1; page <= maxSearchPages; page++ {
		clans, err := c.LeaderboardPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(clans) == 0 {
			return nil, nil
		}
		for i := range clans {
			if strings.ToLower(clans[i].ShortName) == tag {
				return &clans[i], nil
			}
		}
	}
	return nil, nil
}

func memberName(cell *goquery.Selection) string {
	href, ok := cell.Find("a").First().Attr("href")
	if !ok {
		return strings.TrimSpace(cell.Text())
	}
	// el nick viaja en el query del link al perfil
	if i := strings.Index(href, "nick="); i >= 0 {
		nick := href[i+len("nick="):]
		if dec, err := url.QueryUnescape(nick); err == nil {
			return dec
		}
		return nick
	}
	return strings.TrimSpace(cell.Text())
}

func cleanNumber(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
