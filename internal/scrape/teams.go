package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	appLog "bballcal/internal/log"
	"bballcal/internal/model"
)

// DiscoveredTeam is one team returned by the discovery endpoint.
type DiscoveredTeam struct {
	TeamNo       string
	TeamName     string
	DivisionNo   string
	DivisionTier string
	Color        string
}

type discoveryItem struct {
	TeamNo       string `json:"teamno"`
	TeamName     string `json:"teamname"`
	DivisionNo   string `json:"divisionno"`
	DivisionTier string `json:"divisiontier"`
}

// DiscoverTeams queries a league for all teams registered under the given
// town, grade, and gender in the given season.
func (c *Client) DiscoverTeams(ctx context.Context, league League, townID string, grade int, gender model.Gender, season string) ([]DiscoveredTeam, error) {
	form := url.Values{
		"clientid": {league.ID},
		"yrseason": {season},
		"townno":   {townID},
		"grade":    {strconv.Itoa(grade)},
		"gender":   {string(gender)},
	}

	body, err := c.fetcher.PostAPI(ctx, league, teamDiscoveryURL, form)
	if err != nil {
		return nil, fmt.Errorf("discover teams %s grade=%d gender=%s: %w", league.ID, grade, gender, err)
	}

	var items []discoveryItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("discover teams %s: decode: %w", league.ID, err)
	}

	teams := make([]DiscoveredTeam, 0, len(items))
	for _, item := range items {
		if item.TeamNo == "" {
			continue
		}
		name := strings.TrimSpace(item.TeamName)
		teams = append(teams, DiscoveredTeam{
			TeamNo:       item.TeamNo,
			TeamName:     name,
			DivisionNo:   item.DivisionNo,
			DivisionTier: item.DivisionTier,
			Color:        TeamColor(name),
		})
	}

	appLog.Info("discovered teams",
		"league", league.ID, "grade", grade, "gender", gender, "count", len(teams))
	return teams, nil
}

var colorPattern = regexp.MustCompile(`\((\w+)\)`)

// TeamColor extracts the color token from a league team name like
// "Milton (White) D2". Empty when the name carries no parenthesized token.
func TeamColor(teamName string) string {
	if m := colorPattern.FindStringSubmatch(teamName); m != nil {
		return m[1]
	}
	return ""
}
