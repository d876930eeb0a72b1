package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bballcal/internal/collect"
	"bballcal/internal/model"
)

var (
	white5B  = model.TeamKey{Grade: 5, Gender: model.GenderMale, Color: "White"}
	priority = []string{"metrowbb", "ssybl"}
)

func game(league string, start time.Time, opponent, location string) model.GameOccurrence {
	return model.GameOccurrence{
		Team:     white5B,
		LeagueID: league,
		Start:    start,
		Duration: time.Hour,
		Opponent: opponent,
		Location: location,
	}
}

func eastern(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, collect.Eastern())
}

func TestNormalizeOpponent(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Braintree", "braintree"},
		{"Braintree 5B", "braintree"},
		{"Braintree 5b D2", "braintree"},
		{"BRAINTREE 6G", "braintree"},
		{"  East   Bridgewater  ", "east bridgewater"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeOpponent(tt.in), "NormalizeOpponent(%q)", tt.in)
	}
}

func TestMergeDedupePrefersCompleteLocation(t *testing.T) {
	start := eastern(2026, time.January, 10, 14, 0)
	// Same real game reported by both leagues; only one carries a location.
	a := game("metrowbb", start, "Braintree 5B", "")
	b := game("ssybl", start, "Braintree", "Braintree Gym, 1 Main St, Braintree, MA")

	byTeam, warnings := Merge([][]model.GameOccurrence{{a}, {b}}, priority)
	require.Empty(t, warnings)
	require.Len(t, byTeam[white5B], 1)
	assert.Equal(t, "Braintree Gym, 1 Main St, Braintree, MA", byTeam[white5B][0].Location)
	assert.Equal(t, "ssybl", byTeam[white5B][0].LeagueID)
}

func TestMergeTieBreakByLeaguePriority(t *testing.T) {
	start := eastern(2026, time.January, 10, 14, 0)
	a := game("ssybl", start, "Braintree", "Gym A")
	b := game("metrowbb", start, "Braintree 5B", "Gym B")

	// Equally complete locations: first-listed league wins regardless of
	// input slice order.
	byTeam, _ := Merge([][]model.GameOccurrence{{a}, {b}}, priority)
	require.Len(t, byTeam[white5B], 1)
	assert.Equal(t, "metrowbb", byTeam[white5B][0].LeagueID)
}

func TestMergeLeagueGameBeatsNonLeagueDuplicate(t *testing.T) {
	start := eastern(2026, time.January, 17, 9, 0)
	tournament := game("ssybl", start, "Quincy", "Gym A")
	tournament.NonLeague = true
	league := game("ssybl", start, "Quincy 5B", "Gym A")

	byTeam, _ := Merge([][]model.GameOccurrence{{tournament, league}}, priority)
	require.Len(t, byTeam[white5B], 1)
	assert.False(t, byTeam[white5B][0].NonLeague)
}

func TestMergeIdempotent(t *testing.T) {
	games := []model.GameOccurrence{
		game("metrowbb", eastern(2026, time.January, 10, 14, 0), "Braintree", "Gym A"),
		game("metrowbb", eastern(2026, time.January, 17, 9, 0), "Quincy", "Gym B"),
	}

	once, _ := Merge([][]model.GameOccurrence{games}, priority)
	twice, _ := Merge([][]model.GameOccurrence{games, games}, priority)
	assert.Equal(t, once, twice)
	assert.Len(t, twice[white5B], 2)
}

func TestMergeSortedNonDecreasing(t *testing.T) {
	games := []model.GameOccurrence{
		game("metrowbb", eastern(2026, time.February, 1, 10, 0), "Quincy", ""),
		game("metrowbb", eastern(2026, time.January, 10, 14, 0), "Braintree", ""),
		game("metrowbb", eastern(2026, time.January, 24, 9, 0), "Weymouth", ""),
	}
	byTeam, _ := Merge([][]model.GameOccurrence{games}, priority)
	merged := byTeam[white5B]
	require.Len(t, merged, 3)
	for i := 1; i < len(merged); i++ {
		assert.False(t, merged[i].Start.Before(merged[i-1].Start),
			"merged schedule must be non-decreasing by start time")
	}
}

func TestMergeFlagsCrossLeagueTimeDisagreement(t *testing.T) {
	// Same team, same opponent, same date, different times across leagues:
	// flagged, both kept.
	a := game("metrowbb", eastern(2026, time.January, 10, 14, 0), "Braintree", "")
	b := game("ssybl", eastern(2026, time.January, 10, 15, 30), "Braintree 5B", "")

	byTeam, warnings := Merge([][]model.GameOccurrence{{a}, {b}}, priority)
	assert.Len(t, byTeam[white5B], 2)
	require.Len(t, warnings, 1)
	assert.Equal(t, white5B, warnings[0].Team)
	assert.Equal(t, model.Date{Year: 2026, Month: time.January, Day: 10}, warnings[0].Date)
}

func TestMergeSameLeagueDoubleheaderNotFlagged(t *testing.T) {
	a := game("metrowbb", eastern(2026, time.January, 10, 9, 0), "Braintree", "")
	b := game("metrowbb", eastern(2026, time.January, 10, 15, 0), "Braintree", "")

	byTeam, warnings := Merge([][]model.GameOccurrence{{a, b}}, priority)
	assert.Len(t, byTeam[white5B], 2)
	assert.Empty(t, warnings)
}

func TestMergeKeepsTeamsSeparate(t *testing.T) {
	red6G := model.TeamKey{Grade: 6, Gender: model.GenderFemale, Color: "Red"}
	start := eastern(2026, time.January, 10, 14, 0)

	a := game("metrowbb", start, "Braintree", "")
	b := a
	b.Team = red6G

	byTeam, _ := Merge([][]model.GameOccurrence{{a, b}}, priority)
	assert.Len(t, byTeam[white5B], 1)
	assert.Len(t, byTeam[red6G], 1)
}
