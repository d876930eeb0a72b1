package collect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bballcal/internal/model"
	"bballcal/internal/team"
)

func TestParseEasternFormats(t *testing.T) {
	tests := []struct {
		date string
		tm   string
		want string // RFC3339 in Eastern
	}{
		{"1/6/2026", "7:00 PM", "2026-01-06T19:00:00-05:00"},
		{"01-06-2026", "7:00 pm", "2026-01-06T19:00:00-05:00"},
		{"2026-01-06", "19:00", "2026-01-06T19:00:00-05:00"},
		{"1/6/26", "12:00 AM", "2026-01-06T00:00:00-05:00"},
		{"1/6/2026", "12:15 PM", "2026-01-06T12:15:00-05:00"},
		{"1/6/2026 7:00 PM", "", "2026-01-06T19:00:00-05:00"},
		// No time at all defaults to noon.
		{"2/7/2026", "", "2026-02-07T12:00:00-05:00"},
	}
	for _, tt := range tests {
		got, err := ParseEastern(tt.date, tt.tm)
		require.NoError(t, err, "ParseEastern(%q, %q)", tt.date, tt.tm)
		want, err := time.Parse(time.RFC3339, tt.want)
		require.NoError(t, err)
		assert.True(t, got.Equal(want), "ParseEastern(%q, %q) = %v, want %v", tt.date, tt.tm, got, want)
	}
}

func TestParseEasternDaylightSaving(t *testing.T) {
	// DST begins 2026-03-08 in the US. The same wall-clock time must map
	// to different UTC offsets on either side of the transition; getting
	// this wrong shifts every downstream conflict check by an hour.
	before, err := ParseEastern("3/7/2026", "7:00 PM")
	require.NoError(t, err)
	after, err := ParseEastern("3/8/2026", "7:00 PM")
	require.NoError(t, err)

	_, beforeOffset := before.Zone()
	_, afterOffset := after.Zone()
	assert.Equal(t, -5*3600, beforeOffset, "standard time offset")
	assert.Equal(t, -4*3600, afterOffset, "daylight time offset")
}

func TestParseEasternMalformed(t *testing.T) {
	for _, tt := range []struct{ date, tm string }{
		{"", ""},
		{"January sometime", ""},
		{"13/45/2026", ""},
		{"2/30/2026", "7:00 PM"},
	} {
		_, err := ParseEastern(tt.date, tt.tm)
		assert.Error(t, err, "ParseEastern(%q, %q)", tt.date, tt.tm)
	}
}

func TestBuildLocation(t *testing.T) {
	tests := []struct {
		venue, street, city string
		want                string
	}{
		{"Milton High School", "25 Gile Rd", "Milton, MA 02186",
			"Milton High School, 25 Gile Rd, Milton, MA 02186"},
		{"Milton High School - Court 2", "25 Gile Rd", "Milton, MA 02186",
			"Milton High School, 25 Gile Rd, Milton, MA 02186 (Court 2)"},
		{"Cunningham Hall - Back Gym", "", "", "Cunningham Hall (Back Gym)"},
		// "St. Agatha - Parish Center" has no court word; the dash stays.
		{"St. Agatha - Parish Center", "", "", "St. Agatha - Parish Center"},
		{"", "25 Gile Rd", "", "25 Gile Rd"},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildLocation(tt.venue, tt.street, tt.city))
	}
}

func TestCollectSkipsMalformedRecords(t *testing.T) {
	aliases := team.AliasTable{"White": {"wht"}}
	records := []RawGameRecord{
		{Grade: "5", Gender: "M", Color: "wht", Date: "1/6/2026", Time: "7:00 PM", Opponent: "Braintree"},
		{Grade: "5", Gender: "M", Color: "wht", Date: "not a date", Opponent: "Quincy"},
		{Grade: "banana", Gender: "M", Color: "wht", Date: "1/7/2026", Opponent: "Quincy"},
		{Grade: "5", Gender: "M", Color: "wht", Date: "1/13/2026", Time: "6:00 PM", Opponent: "@ Weymouth", HomeAway: "Away"},
	}

	games, errs := Collect("metrowbb", "MetroWest", records, aliases)
	require.Len(t, games, 2, "malformed records are skipped, not fatal")
	require.Len(t, errs, 2)
	assert.Equal(t, 1, errs[0].Index)
	assert.Equal(t, 2, errs[1].Index)

	assert.Equal(t, "Braintree", games[0].Opponent)
	assert.Equal(t, model.TeamKey{Grade: 5, Gender: model.GenderMale, Color: "White"}, games[0].Team)
	assert.Equal(t, DefaultGameDuration, games[0].Duration)

	// "@" prefix stripped from away opponents.
	assert.Equal(t, "Weymouth", games[1].Opponent)
	assert.Equal(t, "Away", games[1].HomeAway)
}

func TestCollectEmptyOpponentBecomesTBD(t *testing.T) {
	games, errs := Collect("ssybl", "SSYBL", []RawGameRecord{
		{Grade: "5", Gender: "M", Date: "1/6/2026", Time: "7:00 PM"},
	}, nil)
	require.Empty(t, errs)
	require.Len(t, games, 1)
	assert.Equal(t, "TBD", games[0].Opponent)
}
