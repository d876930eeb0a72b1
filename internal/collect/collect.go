// Package collect converts raw per-league game records into canonical
// GameOccurrences. One malformed record never aborts the batch; failures
// are collected and reported alongside the result set.
package collect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	appLog "bballcal/internal/log"
	"bballcal/internal/model"
	"bballcal/internal/team"
)

// DefaultGameDuration is used when a league record carries no end time.
const DefaultGameDuration = time.Hour

// RawGameRecord is the shape handed over by the scraping collaborator.
// Individual fields may be missing or malformed.
type RawGameRecord struct {
	Grade  string `json:"grade"`
	Gender string `json:"gender"`
	Color  string `json:"color"`

	Date string `json:"date"`
	Time string `json:"time"`

	Opponent  string `json:"opponent"`
	HomeAway  string `json:"homeaway"`
	NonLeague bool   `json:"nonleague"`

	Venue      string `json:"venue"`
	Street     string `json:"street"`
	CityStZip  string `json:"citystzip"`
	Directions string `json:"directions"`
}

// RecordError describes a single skipped record.
type RecordError struct {
	LeagueID string
	Index    int
	Err      error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("league %s record %d: %v", e.LeagueID, e.Index, e.Err)
}

var (
	easternOnce sync.Once
	easternLoc  *time.Location
)

// Eastern returns the America/New_York location. League websites publish
// local Eastern times; the correct UTC offset depends on whether the date
// falls inside daylight saving, so the IANA zone must be attached rather
// than a fixed offset.
func Eastern() *time.Location {
	easternOnce.Do(func() {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			appLog.Error("failed to load America/New_York; falling back to fixed EST", err)
			loc = time.FixedZone("EST", -5*60*60)
		}
		easternLoc = loc
	})
	return easternLoc
}

// Collect normalizes records from one league into GameOccurrences. Order of
// the output follows input order; records from different leagues may be
// collected independently and merged later.
func Collect(leagueID, leagueName string, records []RawGameRecord, aliases team.AliasTable) ([]model.GameOccurrence, []RecordError) {
	games := make([]model.GameOccurrence, 0, len(records))
	var errs []RecordError

	for i, rec := range records {
		game, err := collectOne(leagueID, leagueName, rec, aliases)
		if err != nil {
			errs = append(errs, RecordError{LeagueID: leagueID, Index: i, Err: err})
			appLog.Warn("skipping unparseable game record",
				"league", leagueID, "index", i, "reason", err.Error())
			continue
		}
		games = append(games, game)
	}

	return games, errs
}

func collectOne(leagueID, leagueName string, rec RawGameRecord, aliases team.AliasTable) (model.GameOccurrence, error) {
	key, err := team.Normalize(rec.Grade, rec.Gender, rec.Color, aliases)
	if err != nil {
		return model.GameOccurrence{}, err
	}

	start, err := ParseEastern(rec.Date, rec.Time)
	if err != nil {
		return model.GameOccurrence{}, err
	}

	opponent := strings.TrimSpace(rec.Opponent)
	opponent = strings.TrimSpace(strings.TrimPrefix(opponent, "@"))
	if opponent == "" {
		opponent = "TBD"
	}

	return model.GameOccurrence{
		Team:       key,
		LeagueID:   leagueID,
		LeagueName: leagueName,
		Start:      start,
		Duration:   DefaultGameDuration,
		Opponent:   opponent,
		Location:   BuildLocation(rec.Venue, rec.Street, rec.CityStZip),
		Directions: strings.TrimSpace(rec.Directions),
		HomeAway:   strings.TrimSpace(rec.HomeAway),
		NonLeague:  rec.NonLeague,
	}, nil
}

var timePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*([AaPp][Mm])?`)

// ParseEastern parses a league date/time pair into a timezone-aware instant
// in America/New_York. Accepted date forms: "1/6/2026", "01-06-2026",
// "2026-01-06". Missing or unparseable times default to noon, matching the
// league sites' placeholder behavior.
func ParseEastern(dateStr, timeStr string) (time.Time, error) {
	year, month, day, err := parseDateParts(strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, err
	}

	hour, minute := 12, 0
	if m := timePattern.FindStringSubmatch(dateStr + " " + timeStr); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		switch strings.ToUpper(m[3]) {
		case "PM":
			if hour != 12 {
				hour += 12
			}
		case "AM":
			if hour == 12 {
				hour = 0
			}
		}
		if hour > 23 || minute > 59 {
			return time.Time{}, fmt.Errorf("invalid time %q", timeStr)
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, Eastern())
	// time.Date silently normalizes out-of-range components; reject those.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid date %q", dateStr)
	}
	return t, nil
}

func parseDateParts(s string) (year, month, day int, err error) {
	sep := ""
	switch {
	case strings.Contains(s, "/"):
		sep = "/"
	case strings.Contains(s, "-"):
		sep = "-"
	default:
		return 0, 0, 0, fmt.Errorf("unrecognized date %q", s)
	}

	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("unrecognized date %q", s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		// Dates can arrive glued to a time ("1/6/2026 7:00 PM").
		p = strings.TrimSpace(p)
		if i == 2 {
			if idx := strings.IndexByte(p, ' '); idx >= 0 {
				p = p[:idx]
			}
		}
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("unrecognized date %q", s)
		}
		nums[i] = n
	}

	if nums[0] > 31 {
		// ISO order: YYYY-MM-DD.
		year, month, day = nums[0], nums[1], nums[2]
	} else {
		// US order: M/D/YYYY, two-digit years promoted to 20xx.
		year, month, day = nums[2], nums[0], nums[1]
		if year < 100 {
			year += 2000
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("unrecognized date %q", s)
	}
	return year, month, day, nil
}

var courtWords = [...]string{"court", "gym", "field", "rink", "front", "back", "main"}

// BuildLocation assembles a geocoding-friendly location string: venue name,
// then street address, with any trailing court/gym designation moved into
// parentheses so map apps resolve the venue itself.
func BuildLocation(venue, street, cityStZip string) string {
	venue = strings.TrimSpace(venue)
	street = strings.TrimSpace(street)
	cityStZip = strings.TrimSpace(cityStZip)

	court := ""
	if base, suffix, ok := strings.Cut(venue, " - "); ok {
		lower := strings.ToLower(suffix)
		for _, w := range courtWords {
			if strings.Contains(lower, w) {
				venue = strings.TrimSpace(base)
				court = strings.TrimSpace(suffix)
				break
			}
		}
	}

	var parts []string
	if venue != "" {
		parts = append(parts, venue)
	}
	switch {
	case street != "" && cityStZip != "":
		parts = append(parts, street+", "+cityStZip)
	case street != "":
		parts = append(parts, street)
	case cityStZip != "":
		parts = append(parts, cityStZip)
	}

	location := strings.Join(parts, ", ")
	if court != "" {
		location = fmt.Sprintf("%s (%s)", location, court)
	}
	return location
}
