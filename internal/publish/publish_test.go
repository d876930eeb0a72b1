package publish

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bballcal/internal/model"
)

func sampleCalendars() []Calendar {
	white5B := model.TeamKey{Grade: 5, Gender: model.GenderMale, Color: "White"}
	red8G := model.TeamKey{Grade: 8, Gender: model.GenderFemale, Color: "Red"}
	return []Calendar{
		{ID: "milton-5th-boys-white-metrowbb", Name: "Milton 5th Boys White (MetroWest)",
			League: "MetroWest", Team: white5B, Events: 12, Data: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")},
		{ID: "milton-5th-boys-white", Name: "Milton 5th Boys White",
			Combined: true, Team: white5B, Events: 20, Data: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")},
		{ID: "milton-8th-girls-red-ssybl", Name: "Milton 8th Girls Red (South Shore)",
			League: "South Shore", Team: red8G, Events: 9, Data: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")},
	}
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()

	status, err := Write(dir, "Milton", "https://example.github.io/bballcal", sampleCalendars(), []string{"time disagreement"}, 2)
	require.NoError(t, err)

	for _, name := range []string{
		"milton-5th-boys-white-metrowbb.ics",
		"milton-5th-boys-white.ics",
		"milton-8th-girls-red-ssybl.ics",
		"index.html",
		"status.json",
	} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, statErr, name)
	}

	assert.Equal(t, 2, status.Teams)
	assert.Len(t, status.Calendars, 3)
	assert.Equal(t, 2, status.Skipped)
}

func TestStatusJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(dir, "Milton", "https://example.test", sampleCalendars(), nil, 0)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "status.json"))
	require.NoError(t, err)

	var status Status
	require.NoError(t, json.Unmarshal(data, &status))
	assert.Equal(t, "Milton", status.Town)
	assert.Equal(t, 2, status.Teams)
}

func TestIndexGroupsAndOrders(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(dir, "Milton", "https://example.test", sampleCalendars(), nil, 0)
	require.NoError(t, err)

	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	page := string(html)

	assert.Contains(t, page, "5th Grade")
	assert.Contains(t, page, "8th Grade")
	assert.Contains(t, page, "Boys White")
	assert.Contains(t, page, "Girls Red")
	assert.Contains(t, page, "Combined (All Leagues)")
	assert.Contains(t, page, "webcal://example.test/milton-5th-boys-white.ics")

	// Combined calendar listed before the league-specific one.
	combined := strings.Index(page, "milton-5th-boys-white.ics")
	league := strings.Index(page, "milton-5th-boys-white-metrowbb.ics")
	require.Positive(t, combined)
	require.Positive(t, league)
	assert.Less(t, combined, league)
}

func TestOrdinalLabel(t *testing.T) {
	assert.Equal(t, "1st", ordinalLabel(1))
	assert.Equal(t, "2nd", ordinalLabel(2))
	assert.Equal(t, "3rd", ordinalLabel(3))
	assert.Equal(t, "5th", ordinalLabel(5))
	assert.Equal(t, "11th", ordinalLabel(11))
	assert.Equal(t, "12th", ordinalLabel(12))
}
