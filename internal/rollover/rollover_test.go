package rollover

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bballcal/internal/config"
	"bballcal/internal/model"
)

func d(y int, m time.Month, day int) model.Date {
	return model.Date{Year: y, Month: m, Day: day}
}

func TestNthWeekday(t *testing.T) {
	// Jan 2027 starts on a Friday; Mondays fall on 4, 11, 18, 25.
	assert.Equal(t, d(2027, time.January, 4), NthWeekday(2027, time.January, time.Monday, 1))
	assert.Equal(t, d(2027, time.January, 18), NthWeekday(2027, time.January, time.Monday, 3))

	// Feb 2027 starts on a Monday.
	assert.Equal(t, d(2027, time.February, 1), NthWeekday(2027, time.February, time.Monday, 1))
	assert.Equal(t, d(2027, time.February, 15), NthWeekday(2027, time.February, time.Monday, 3))
}

func TestVacationWeek(t *testing.T) {
	mon, fri := VacationWeek(d(2027, time.February, 15))
	assert.Equal(t, d(2027, time.February, 15), mon)
	assert.Equal(t, d(2027, time.February, 19), fri)

	// Holiday mid-week still snaps to that week's Monday.
	mon, fri = VacationWeek(d(2026, time.February, 18))
	assert.Equal(t, d(2026, time.February, 16), mon)
	assert.Equal(t, d(2026, time.February, 20), fri)
}

func TestSeasonFor2027(t *testing.T) {
	season := SeasonFor(2027)

	assert.Equal(t, d(2027, time.January, 1), season.Start)
	assert.Equal(t, d(2027, time.March, 31), season.End)

	require.Len(t, season.Blackouts, 4)
	assert.Equal(t, d(2027, time.January, 1), season.Blackouts[0].Start)
	assert.Equal(t, d(2027, time.January, 18), season.Blackouts[1].Start)
	assert.Equal(t, d(2027, time.February, 15), season.Blackouts[2].Start)
	assert.Equal(t, d(2027, time.February, 19), season.Blackouts[2].End)
	assert.Equal(t, d(2027, time.April, 19), season.Blackouts[3].Start)
	assert.Equal(t, d(2027, time.April, 23), season.Blackouts[3].End)
}

func TestSeasonFor2026(t *testing.T) {
	season := SeasonFor(2026)

	require.Len(t, season.Blackouts, 4)
	assert.Equal(t, d(2026, time.January, 19), season.Blackouts[1].Start)
	assert.Equal(t, d(2026, time.February, 16), season.Blackouts[2].Start)
	assert.Equal(t, d(2026, time.April, 20), season.Blackouts[3].Start)
}

func rolloverConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Teams = []config.TeamConfig{
		{
			Grade: 5, Gender: model.GenderMale, Color: "White",
			Practices: model.PracticeSpec{
				Recurring: []model.RecurringRule{{Weekday: model.Weekday(time.Tuesday), Time: model.TimeOfDay{Hour: 18, Minute: 15}, DurationMinutes: 90}},
				Adhoc:     []model.AdhocPractice{{Date: d(2026, time.January, 17)}},
				Modifications: []model.Modification{
					{Date: d(2026, time.January, 20), Action: model.ActionCancel},
				},
			},
		},
		{Grade: 8, Gender: model.GenderFemale, Color: "Red"},
	}
	return cfg
}

func TestApplyClearsDateSpecificEntries(t *testing.T) {
	cfg := rolloverConfig()
	changes := Apply(cfg, 2027, Options{})

	assert.Equal(t, d(2027, time.January, 1), cfg.Season.Start)

	require.Len(t, changes, 1)
	assert.Equal(t, 1, changes[0].AdhocCleared)
	assert.Equal(t, 1, changes[0].ModificationsCleared)

	assert.Empty(t, cfg.Teams[0].Practices.Adhoc)
	assert.Empty(t, cfg.Teams[0].Practices.Modifications)
	assert.Len(t, cfg.Teams[0].Practices.Recurring, 1, "recurring rules carry over")
}

func TestApplyKeepFlags(t *testing.T) {
	cfg := rolloverConfig()
	changes := Apply(cfg, 2027, Options{KeepAdhoc: true, KeepModifications: true})

	assert.Empty(t, changes)
	assert.Len(t, cfg.Teams[0].Practices.Adhoc, 1)
	assert.Len(t, cfg.Teams[0].Practices.Modifications, 1)
}
