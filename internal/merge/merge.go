// Package merge combines per-league game occurrence sets into one
// deduplicated, chronologically ordered schedule per team.
package merge

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"bballcal/internal/model"
)

// Warning reports a non-fatal merge anomaly: two leagues publishing the
// same game at different times. Neither record is silently preferred; both
// survive the merge and the disagreement is surfaced for a human to sort
// out.
type Warning struct {
	Team     model.TeamKey
	Opponent string
	Date     model.Date
	Leagues  []string
	Times    []time.Time
}

func (w Warning) String() string {
	times := make([]string, len(w.Times))
	for i, t := range w.Times {
		times[i] = t.Format("15:04")
	}
	return fmt.Sprintf("%s vs %s on %s: leagues %s disagree on start time (%s)",
		w.Team.Short(), w.Opponent, w.Date,
		strings.Join(w.Leagues, "/"), strings.Join(times, " vs "))
}

var (
	gradeGenderSuffix = regexp.MustCompile(`\s+\d+[bg]\b`)
	divisionSuffix    = regexp.MustCompile(`\s+d\d+\b`)
	spaces            = regexp.MustCompile(`\s+`)
)

// NormalizeOpponent folds an opponent name for deduplication. Leagues decorate
// the same town differently ("Braintree 5B D2" vs "Braintree"); grade/gender
// markers and division tiers are stripped so the records collide.
func NormalizeOpponent(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = gradeGenderSuffix.ReplaceAllString(s, "")
	s = divisionSuffix.ReplaceAllString(s, "")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// identity is the deduplication key: two records from different leagues
// describing the same real game collapse to one.
type identity struct {
	team     model.TeamKey
	start    int64 // UnixNano; instants compare across zone representations
	opponent string
}

// locationCompleteness scores how much address information a record carries.
// Comma-joined segments (venue, street, city/state/zip) each count.
func locationCompleteness(loc string) int {
	if strings.TrimSpace(loc) == "" {
		return 0
	}
	return strings.Count(loc, ",") + 1
}

// Merge unions occurrence sets from all leagues, deduplicates by
// (team, start, normalized opponent), and returns per-team schedules sorted
// by start time ascending. The sort is stable: same-instant records keep
// collector order.
//
// On a duplicate, the record with the more complete location wins; equally
// complete records tie-break by league priority order (earlier-listed league
// wins). Merging a set with itself yields the original set.
func Merge(perLeague [][]model.GameOccurrence, leaguePriority []string) (map[model.TeamKey][]model.GameOccurrence, []Warning) {
	priority := make(map[string]int, len(leaguePriority))
	for i, id := range leaguePriority {
		priority[id] = i
	}
	rank := func(leagueID string) int {
		if r, ok := priority[leagueID]; ok {
			return r
		}
		return len(leaguePriority) // unlisted leagues lose ties
	}

	// Process league sets in priority order so that insertion order (and
	// therefore the stable sort below) is deterministic regardless of how
	// the caller arranged the slices.
	ordered := make([][]model.GameOccurrence, len(perLeague))
	copy(ordered, perLeague)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank(leagueOf(ordered[i])) < rank(leagueOf(ordered[j]))
	})

	byTeam := make(map[model.TeamKey][]model.GameOccurrence)
	index := make(map[identity]position)

	for _, set := range ordered {
		for _, game := range set {
			id := identity{
				team:     game.Team,
				start:    game.Start.UnixNano(),
				opponent: NormalizeOpponent(game.Opponent),
			}

			pos, seen := index[id]
			if !seen {
				byTeam[game.Team] = append(byTeam[game.Team], game)
				index[id] = position{team: game.Team, idx: len(byTeam[game.Team]) - 1}
				continue
			}

			existing := &byTeam[pos.team][pos.idx]
			if replaces(game, *existing, rank) {
				// Replace in place so the record keeps its slot and the
				// eventual stable sort stays deterministic.
				*existing = game
			}
		}
	}

	for key := range byTeam {
		games := byTeam[key]
		sort.SliceStable(games, func(i, j int) bool {
			return games[i].Start.Before(games[j].Start)
		})
		byTeam[key] = games
	}

	return byTeam, findTimeDisagreements(byTeam)
}

type position struct {
	team model.TeamKey
	idx  int
}

func leagueOf(set []model.GameOccurrence) string {
	if len(set) == 0 {
		return ""
	}
	return set[0].LeagueID
}

// replaces decides whether candidate should displace incumbent for the same
// identity. More complete location wins; equal completeness falls back to
// league priority, and league games beat non-league duplicates.
func replaces(candidate, incumbent model.GameOccurrence, rank func(string) int) bool {
	if candidate.NonLeague != incumbent.NonLeague {
		return incumbent.NonLeague
	}
	cl, il := locationCompleteness(candidate.Location), locationCompleteness(incumbent.Location)
	if cl != il {
		return cl > il
	}
	return rank(candidate.LeagueID) < rank(incumbent.LeagueID)
}

// dayKey groups merged games by (team, opponent, calendar date) to detect
// cross-league time disagreements. Same-league doubleheaders are legitimate
// and not flagged.
type dayKey struct {
	team     model.TeamKey
	opponent string
	date     model.Date
}

func findTimeDisagreements(byTeam map[model.TeamKey][]model.GameOccurrence) []Warning {
	groups := make(map[dayKey][]model.GameOccurrence)
	var order []dayKey
	teams := sortedTeams(byTeam)

	for _, key := range teams {
		for _, game := range byTeam[key] {
			dk := dayKey{
				team:     key,
				opponent: NormalizeOpponent(game.Opponent),
				date:     model.DateOf(game.Start),
			}
			if _, ok := groups[dk]; !ok {
				order = append(order, dk)
			}
			groups[dk] = append(groups[dk], game)
		}
	}

	var warnings []Warning
	for _, dk := range order {
		games := groups[dk]
		if len(games) < 2 {
			continue
		}

		leagues := make(map[string]bool)
		starts := make(map[int64]bool)
		for _, g := range games {
			leagues[g.LeagueID] = true
			starts[g.Start.UnixNano()] = true
		}
		if len(leagues) < 2 || len(starts) < 2 {
			continue
		}

		w := Warning{Team: dk.team, Opponent: games[0].Opponent, Date: dk.date}
		for _, g := range games {
			w.Leagues = append(w.Leagues, g.LeagueID)
			w.Times = append(w.Times, g.Start)
		}
		warnings = append(warnings, w)
	}
	return warnings
}

// sortedTeams returns team keys in a stable order so that warning output is
// deterministic run to run.
func sortedTeams(byTeam map[model.TeamKey][]model.GameOccurrence) []model.TeamKey {
	keys := make([]model.TeamKey, 0, len(byTeam))
	for k := range byTeam {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Grade != b.Grade {
			return a.Grade < b.Grade
		}
		if a.Gender != b.Gender {
			return a.Gender < b.Gender
		}
		return a.Color < b.Color
	})
	return keys
}
