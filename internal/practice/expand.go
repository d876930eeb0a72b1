// Package practice expands declarative per-team practice specifications
// into concrete dated occurrences, suppressing occurrences that fall in
// blackout windows or collide with a scheduled game.
package practice

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"bballcal/internal/model"
)

// ConflictBuffer is how close (inclusive) a practice window may come to a
// game window for the same team before the practice is suppressed.
const ConflictBuffer = 60 * time.Minute

// DuplicateModificationError reports two or more modifications targeting
// the same date for one team. There is no safe way to pick one, so the
// team's expansion fails; other teams are unaffected.
type DuplicateModificationError struct {
	Team model.TeamKey
	Date model.Date
}

func (e *DuplicateModificationError) Error() string {
	return fmt.Sprintf("team %s: multiple modifications target %s", e.Team.Short(), e.Date)
}

// Warning reports a non-fatal expansion anomaly, currently only a
// modification whose date has no surviving occurrence to act on.
type Warning struct {
	Team    model.TeamKey
	Date    model.Date
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("team %s %s: %s", w.Team.Short(), w.Date, w.Message)
}

// ExpandResult carries the surviving occurrences plus everything withheld,
// so callers and tests can see why a date is missing.
type ExpandResult struct {
	// Occurrences are the emitted practices, sorted by start ascending.
	Occurrences []model.PracticeOccurrence
	// Suppressed retains blacked-out, game-conflicted and cancelled
	// occurrences for diagnostics.
	Suppressed []model.PracticeOccurrence
	// Warnings are non-fatal, e.g. a modification with no target.
	Warnings []Warning
}

// Expand generates the team's practice occurrences for the season.
//
// Processing order matters and is fixed: recurring candidates are generated,
// blackout-suppressed, then game-conflict-suppressed; adhoc entries join as
// unconditional candidates; modifications apply last, against whatever
// survived. A modify action therefore never resurrects a suppressed
// occurrence.
//
// games must contain only this team's merged games; cross-team games never
// suppress a practice.
func Expand(key model.TeamKey, spec model.PracticeSpec, season model.Season, games []model.GameOccurrence, loc *time.Location) (ExpandResult, error) {
	var result ExpandResult

	mods, err := modificationsByDate(key, spec.Modifications)
	if err != nil {
		return ExpandResult{}, err
	}

	var surviving []model.PracticeOccurrence

	for _, rule := range spec.Recurring {
		starts, err := recurringStarts(rule, season, loc)
		if err != nil {
			return ExpandResult{}, fmt.Errorf("team %s: %w", key.Short(), err)
		}
		for _, start := range starts {
			occ := model.PracticeOccurrence{
				Team:       key,
				Start:      start,
				Duration:   time.Duration(rule.DurationMinutes) * time.Minute,
				Location:   rule.Location,
				Notes:      rule.Notes,
				Source:     model.SourceRecurring,
				Suppressed: model.SuppressNone,
			}

			if blacked, _ := season.BlackedOut(model.DateOf(start)); blacked {
				occ.Suppressed = model.SuppressBlackout
				result.Suppressed = append(result.Suppressed, occ)
				continue
			}
			if conflictsWithGame(occ, games) {
				occ.Suppressed = model.SuppressGameConflict
				result.Suppressed = append(result.Suppressed, occ)
				continue
			}
			surviving = append(surviving, occ)
		}
	}

	// Adhoc entries are deliberate overrides: never blackout- or
	// conflict-suppressed.
	for _, adhoc := range spec.Adhoc {
		surviving = append(surviving, model.PracticeOccurrence{
			Team:       key,
			Start:      adhoc.Date.At(adhoc.Time, loc),
			Duration:   time.Duration(adhoc.DurationMinutes) * time.Minute,
			Location:   adhoc.Location,
			Notes:      adhoc.Notes,
			Source:     model.SourceAdhoc,
			Suppressed: model.SuppressNone,
		})
	}

	surviving, modResult := applyModifications(key, surviving, mods, loc)
	result.Suppressed = append(result.Suppressed, modResult.cancelled...)
	result.Warnings = append(result.Warnings, modResult.warnings...)

	sort.SliceStable(surviving, func(i, j int) bool {
		return surviving[i].Start.Before(surviving[j].Start)
	})
	result.Occurrences = surviving
	return result, nil
}

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// recurringStarts lists every instant in [season.Start, season.End] matching
// the rule's weekday, at the rule's wall-clock time in loc. Rule iteration
// is wall-clock based, so a weekly 18:15 practice stays at 18:15 across the
// March daylight-saving transition.
func recurringStarts(rule model.RecurringRule, season model.Season, loc *time.Location) ([]time.Time, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   season.Start.At(rule.Time, loc),
		Until:     season.End.At(rule.Time, loc),
		Byweekday: []rrule.Weekday{rruleWeekdays[time.Weekday(rule.Weekday)]},
	})
	if err != nil {
		return nil, fmt.Errorf("recurring rule %s %s: %w", rule.Weekday, rule.Time, err)
	}
	return r.All(), nil
}

// conflictsWithGame reports whether the practice window comes within
// ConflictBuffer (inclusive) of any game window.
func conflictsWithGame(occ model.PracticeOccurrence, games []model.GameOccurrence) bool {
	windowStart := occ.Start.Add(-ConflictBuffer)
	windowEnd := occ.End().Add(ConflictBuffer)
	for _, g := range games {
		// Inclusive on both edges: a game starting exactly 60 minutes
		// after the practice ends still conflicts.
		if !g.End().Before(windowStart) && !g.Start.After(windowEnd) {
			return true
		}
	}
	return false
}

func modificationsByDate(key model.TeamKey, mods []model.Modification) (map[model.Date]model.Modification, error) {
	byDate := make(map[model.Date]model.Modification, len(mods))
	for _, m := range mods {
		if _, dup := byDate[m.Date]; dup {
			return nil, &DuplicateModificationError{Team: key, Date: m.Date}
		}
		byDate[m.Date] = m
	}
	return byDate, nil
}

type modOutcome struct {
	cancelled []model.PracticeOccurrence
	warnings  []Warning
}

// applyModifications applies per-date cancel/modify actions to the surviving
// occurrences. A modification whose date has no surviving occurrence is a
// no-op warning, not an error.
func applyModifications(key model.TeamKey, surviving []model.PracticeOccurrence, mods map[model.Date]model.Modification, loc *time.Location) ([]model.PracticeOccurrence, modOutcome) {
	var outcome modOutcome
	if len(mods) == 0 {
		return surviving, outcome
	}

	dates := make([]model.Date, 0, len(mods))
	for d := range mods {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, date := range dates {
		mod := mods[date]
		matched := false

		kept := surviving[:0]
		for _, occ := range surviving {
			if model.DateOf(occ.Start) != date {
				kept = append(kept, occ)
				continue
			}
			matched = true

			switch mod.Action {
			case model.ActionCancel:
				occ.Suppressed = model.SuppressCancelled
				outcome.cancelled = append(outcome.cancelled, occ)
			default: // modify
				kept = append(kept, modify(occ, mod, loc))
			}
		}
		surviving = kept

		if !matched {
			outcome.warnings = append(outcome.warnings, Warning{
				Team:    key,
				Date:    date,
				Message: fmt.Sprintf("%s modification has no surviving occurrence to apply to", mod.Action),
			})
		}
	}

	return surviving, outcome
}

func modify(occ model.PracticeOccurrence, mod model.Modification, loc *time.Location) model.PracticeOccurrence {
	if mod.Time != nil {
		occ.Start = model.DateOf(occ.Start).At(*mod.Time, loc)
	}
	if mod.DurationMinutes != nil {
		occ.Duration = time.Duration(*mod.DurationMinutes) * time.Minute
	}
	if mod.Location != nil {
		occ.Location = *mod.Location
	}
	if mod.Notes != nil {
		occ.Notes = *mod.Notes
	}
	return occ
}
