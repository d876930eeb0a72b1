// Package rollover generates a new season window with Massachusetts
// school-calendar blackouts and resets the date-specific practice entries
// that do not carry over between seasons.
package rollover

import (
	"time"

	"bballcal/internal/config"
	"bballcal/internal/model"
)

// NthWeekday returns the nth occurrence of a weekday in the given month,
// e.g. the 3rd Monday of January.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) model.Date {
	first := model.Date{Year: year, Month: month, Day: 1}
	daysUntil := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDays(daysUntil + 7*(n-1))
}

// VacationWeek returns the Monday through Friday of the week containing the
// holiday. MA school vacations run the full week of the holiday.
func VacationWeek(holiday model.Date) (monday, friday model.Date) {
	// time.Weekday counts Sunday as 0; vacation weeks start on Monday.
	offset := (int(holiday.Weekday()) - int(time.Monday) + 7) % 7
	monday = holiday.AddDays(-offset)
	friday = monday.AddDays(4)
	return monday, friday
}

// SeasonFor builds the January through March season for the target year
// with the standard blackouts: New Year's Day, MLK Day, February vacation
// week, and April vacation week. The April week falls outside the season
// window but is generated anyway; it only matters if the season end is
// later extended by hand.
func SeasonFor(year int) model.Season {
	newYears := model.Date{Year: year, Month: time.January, Day: 1}
	mlk := NthWeekday(year, time.January, time.Monday, 3)
	febMon, febFri := VacationWeek(NthWeekday(year, time.February, time.Monday, 3))
	aprMon, aprFri := VacationWeek(NthWeekday(year, time.April, time.Monday, 3))

	return model.Season{
		Start: model.Date{Year: year, Month: time.January, Day: 1},
		End:   model.Date{Year: year, Month: time.March, Day: 31},
		Blackouts: []model.Blackout{
			{Start: newYears, End: newYears, Reason: "New Year's Day"},
			{Start: mlk, End: mlk, Reason: "Martin Luther King Jr. Day"},
			{Start: febMon, End: febFri, Reason: "February Vacation (Presidents Day Week)"},
			{Start: aprMon, End: aprFri, Reason: "April Vacation (Patriots Day Week)"},
		},
	}
}

// Options control what Apply clears.
type Options struct {
	KeepAdhoc         bool
	KeepModifications bool
}

// Change summarizes what Apply did (or would do) per team.
type Change struct {
	Team                 model.TeamKey
	AdhocCleared         int
	ModificationsCleared int
}

// Apply installs the new season into cfg and clears date-specific practice
// entries per opts. Recurring rules are preserved; they usually carry over
// unchanged. The returned changes list covers teams that had anything to
// clear.
func Apply(cfg *config.Config, year int, opts Options) []Change {
	cfg.Season = SeasonFor(year)

	var changes []Change
	for i := range cfg.Teams {
		team := &cfg.Teams[i]
		change := Change{Team: team.Key()}

		if !opts.KeepAdhoc && len(team.Practices.Adhoc) > 0 {
			change.AdhocCleared = len(team.Practices.Adhoc)
			team.Practices.Adhoc = nil
		}
		if !opts.KeepModifications && len(team.Practices.Modifications) > 0 {
			change.ModificationsCleared = len(team.Practices.Modifications)
			team.Practices.Modifications = nil
		}

		if change.AdhocCleared > 0 || change.ModificationsCleared > 0 {
			changes = append(changes, change)
		}
	}
	return changes
}
