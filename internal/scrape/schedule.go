package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"bballcal/internal/collect"
	appLog "bballcal/internal/log"
	"bballcal/internal/model"
)

// TeamRef names one team to fetch a schedule for, with the identity fields
// stamped onto every returned record.
type TeamRef struct {
	TeamNo string
	Grade  int
	Gender model.Gender
	Color  string
}

// FetchSchedule pulls one team's schedule and maps it into raw game records
// for the collector. The endpoint's JSON shape varies between league sites;
// see decodeScheduleItems.
func (c *Client) FetchSchedule(ctx context.Context, league League, team TeamRef, season string) ([]collect.RawGameRecord, error) {
	form := url.Values{
		"clientid": {league.ID},
		"yrseason": {season},
		"teamno":   {team.TeamNo},
	}

	body, err := c.fetcher.PostAPI(ctx, league, teamScheduleURL, form)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule %s team=%s: %w", league.ID, team.TeamNo, err)
	}

	items, err := decodeScheduleItems(body)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule %s team=%s: %w", league.ID, team.TeamNo, err)
	}

	records := make([]collect.RawGameRecord, 0, len(items))
	for _, item := range items {
		date := stringField(item, "gamedate", "date", "gdate")
		if date == "" {
			continue
		}
		gameType := stringField(item, "homeaway", "ha", "type")
		records = append(records, collect.RawGameRecord{
			Grade:      strconv.Itoa(team.Grade),
			Gender:     string(team.Gender),
			Color:      team.Color,
			Date:       date,
			Time:       stringField(item, "starttime", "time", "gametime"),
			Opponent:   stringField(item, "opponent", "opp", "oppname"),
			HomeAway:   gameType,
			NonLeague:  isNonLeague(gameType),
			Venue:      stringField(item, "location", "loc", "facility"),
			Street:     stringField(item, "street"),
			CityStZip:  stringField(item, "citystzip"),
			Directions: stringField(item, "directions"),
		})
	}

	appLog.Info("fetched schedule",
		"league", league.ID, "team", team.TeamNo, "records", len(records))
	return records, nil
}

// decodeScheduleItems tolerates the response shapes the league sites emit:
// a bare list, or an object wrapping the list under "schedule", "games", or
// "data" (sometimes nested one level deeper under "games"). As a last
// resort, the first list-valued field wins.
func decodeScheduleItems(body []byte) ([]map[string]any, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	list := scheduleList(data)
	if list == nil {
		return nil, fmt.Errorf("no schedule list in response")
	}

	items := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if m, ok := entry.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items, nil
}

func scheduleList(data any) []any {
	switch v := data.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range []string{"schedule", "games", "data"} {
			switch inner := v[key].(type) {
			case []any:
				return inner
			case map[string]any:
				if games, ok := inner["games"].([]any); ok {
					return games
				}
			}
		}
		for _, value := range v {
			if list, ok := value.([]any); ok && len(list) > 0 {
				return list
			}
		}
	}
	return nil
}

// stringField returns the first present key's value as a trimmed string.
// Numeric JSON values are formatted; anything else is ignored.
func stringField(item map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := item[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// isNonLeague reports whether a game-type marker denotes a tournament or
// other non-league game.
func isNonLeague(gameType string) bool {
	lower := strings.ToLower(gameType)
	return strings.Contains(lower, "tournament") || strings.Contains(lower, "non-league") ||
		strings.Contains(lower, "nonleague")
}
