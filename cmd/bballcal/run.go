package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"bballcal/internal/assemble"
	"bballcal/internal/collect"
	"bballcal/internal/config"
	"bballcal/internal/ical"
	appLog "bballcal/internal/log"
	"bballcal/internal/merge"
	"bballcal/internal/model"
	"bballcal/internal/practice"
	"bballcal/internal/publish"
	"bballcal/internal/scrape"
	"bballcal/internal/team"
)

// pipeline runs one full scrape -> merge -> expand -> publish cycle. Each
// run starts from the current config snapshot and replaces the output
// directory wholesale; nothing carries over between runs.
type pipeline struct {
	cfg     *config.Config
	client  *scrape.Client
	baseURL string
	now     func() time.Time
}

func newPipeline(cfg *config.Config, client *scrape.Client, baseURL string) *pipeline {
	return &pipeline{cfg: cfg, client: client, baseURL: baseURL, now: time.Now}
}

// leagueGames is the per-league collection result for one run.
type leagueGames struct {
	league scrape.League
	games  []model.GameOccurrence
}

func (p *pipeline) Run(ctx context.Context) (publish.Status, error) {
	cfg := p.cfg
	season := scrape.Season(p.now())

	wanted, err := p.configuredKeys()
	if err != nil {
		return publish.Status{}, err
	}
	wantedSet := make(map[model.TeamKey]bool, len(wanted))
	for _, key := range wanted {
		wantedSet[key] = true
	}

	var warnings []string
	skipped := 0

	// Collect every configured league independently; a dead league site
	// degrades the output, it does not abort the run.
	perLeague := make([]leagueGames, 0, len(cfg.Leagues))
	for _, lc := range cfg.Leagues {
		league := scrape.League{ID: lc.ID, Name: lc.Name, URL: lc.URL, Origin: lc.Origin}
		games, errs := p.collectLeague(ctx, league, season, wantedSet)
		skipped += len(errs)
		perLeague = append(perLeague, leagueGames{league: league, games: games})
	}

	sets := make([][]model.GameOccurrence, len(perLeague))
	for i, lg := range perLeague {
		sets[i] = lg.games
	}
	merged, mergeWarnings := merge.Merge(sets, cfg.LeaguePriority())
	for _, w := range mergeWarnings {
		appLog.Warn("cross-league time disagreement", "detail", w.String())
		warnings = append(warnings, w.String())
	}

	var cals []publish.Calendar
	for _, tc := range cfg.Teams {
		key, ok := wanted[tc.Key()]
		if !ok {
			continue
		}

		result, err := practice.Expand(key, tc.Practices, cfg.Season, merged[key], collect.Eastern())
		if err != nil {
			appLog.Error("practice expansion failed; skipping team", err, "team", key.Short())
			warnings = append(warnings, fmt.Sprintf("%s: %v", key.Short(), err))
			continue
		}
		for _, w := range result.Warnings {
			appLog.Warn("practice modification warning", "team", key.Short(), "detail", w.Message)
			warnings = append(warnings, fmt.Sprintf("%s: %s", key.Short(), w.Message))
		}

		cals = append(cals, p.teamCalendars(key, tc, merged[key], result.Occurrences, perLeague)...)
	}

	status, err := publish.Write(cfg.OutputDir, cfg.Town, p.baseURL, cals, warnings, skipped)
	if err != nil {
		return publish.Status{}, err
	}

	appLog.Info("run complete",
		"teams", status.Teams, "calendars", len(status.Calendars),
		"warnings", len(warnings), "skipped_records", skipped)
	return status, nil
}

// configuredKeys normalizes the configured teams through the alias table so
// that scraped colors and configured colors land on the same key. An
// ambiguous alias table fails the whole run; it would mis-assign games.
func (p *pipeline) configuredKeys() (map[model.TeamKey]model.TeamKey, error) {
	keys := make(map[model.TeamKey]model.TeamKey, len(p.cfg.Teams))
	for _, tc := range p.cfg.Teams {
		key, err := team.Normalize(strconv.Itoa(tc.Grade), string(tc.Gender), tc.Color, p.cfg.Aliases)
		if err != nil {
			return nil, fmt.Errorf("team %d%s %s: %w", tc.Grade, tc.Gender, tc.Color, err)
		}
		keys[tc.Key()] = key
	}
	return keys, nil
}

// collectLeague discovers and fetches every configured team's games in one
// league, returning canonical occurrences plus per-record skip errors.
// wanted holds normalized team keys.
func (p *pipeline) collectLeague(ctx context.Context, league scrape.League, season string, wanted map[model.TeamKey]bool) ([]model.GameOccurrence, []collect.RecordError) {
	townID, err := p.client.TownID(ctx, league, p.cfg.Town)
	if err != nil {
		appLog.Error("town lookup failed; skipping league", err, "league", league.ID)
		return nil, nil
	}

	// One discovery call per distinct grade/gender pair.
	type gradeGender struct {
		grade  int
		gender model.Gender
	}
	pairs := make(map[gradeGender]bool)
	for key := range wanted {
		pairs[gradeGender{key.Grade, key.Gender}] = true
	}

	var records []collect.RawGameRecord
	for pair := range pairs {
		teams, err := p.client.DiscoverTeams(ctx, league, townID, pair.grade, pair.gender, season)
		if err != nil {
			appLog.Error("team discovery failed", err,
				"league", league.ID, "grade", pair.grade, "gender", pair.gender)
			continue
		}

		for _, dt := range teams {
			key, err := team.Normalize(strconv.Itoa(pair.grade), string(pair.gender), dt.Color, p.cfg.Aliases)
			if err != nil {
				appLog.Warn("skipping discovered team with unusable name",
					"league", league.ID, "name", dt.TeamName, "reason", err.Error())
				continue
			}
			if !wanted[key] {
				continue
			}

			recs, err := p.client.FetchSchedule(ctx, league, scrape.TeamRef{
				TeamNo: dt.TeamNo,
				Grade:  pair.grade,
				Gender: pair.gender,
				Color:  key.Color,
			}, season)
			if err != nil {
				appLog.Error("schedule fetch failed", err, "league", league.ID, "team", dt.TeamNo)
				continue
			}
			records = append(records, recs...)
		}
	}

	return collect.Collect(league.ID, league.Name, records, p.cfg.Aliases)
}

// teamCalendars builds the combined calendar (merged games plus practices)
// and one games-only calendar per league the team appeared in.
func (p *pipeline) teamCalendars(key model.TeamKey, tc config.TeamConfig, games []model.GameOccurrence, practices []model.PracticeOccurrence, perLeague []leagueGames) []publish.Calendar {
	town := p.cfg.Town
	slugBase := fmt.Sprintf("%s-%s", slugify(town), key.Slug())
	displayName := key.DisplayName(town)

	combined := assemble.Assemble(games, practices)
	cals := []publish.Calendar{{
		ID:       slugBase,
		Name:     displayName,
		Combined: true,
		Team:     key,
		Events:   len(combined),
		Data: ical.Encode(combined, ical.Meta{
			CalendarID: slugBase,
			Name:       displayName,
			Coach:      tc.Coach,
			Now:        p.now(),
		}),
	}}

	for _, lg := range perLeague {
		var own []model.GameOccurrence
		for _, g := range lg.games {
			if g.Team == key {
				own = append(own, g)
			}
		}
		if len(own) == 0 {
			continue
		}

		id := slugBase + "-" + lg.league.ID
		name := fmt.Sprintf("%s (%s)", displayName, lg.league.Name)
		occurrences := assemble.Assemble(own, nil)
		cals = append(cals, publish.Calendar{
			ID:     id,
			Name:   name,
			League: lg.league.Name,
			Team:   key,
			Events: len(occurrences),
			Data: ical.Encode(occurrences, ical.Meta{
				CalendarID: id,
				Name:       name,
				Coach:      tc.Coach,
				Now:        p.now(),
			}),
		})
	}

	return cals
}

func slugify(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '-' || r == '_':
			out = append(out, '-')
		}
	}
	return string(out)
}
