package model

import (
	"fmt"
	"time"
)

// Gender is the gender component of a TeamKey.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// DisplayName returns "Boys" or "Girls" for calendar-facing output.
func (g Gender) DisplayName() string {
	if g == GenderFemale {
		return "Girls"
	}
	return "Boys"
}

// TeamKey canonically identifies one team across leagues. Two leagues that
// publish the same team under different color spellings resolve to the same
// TeamKey after alias resolution. Color may be empty for towns that field a
// single team per grade/gender.
type TeamKey struct {
	Grade  int
	Gender Gender
	Color  string
}

// Short returns a compact identifier like "5B-White", used as an event
// summary prefix when one calendar carries multiple teams.
func (k TeamKey) Short() string {
	if k.Color == "" {
		return fmt.Sprintf("%d%s", k.Grade, k.Gender)
	}
	return fmt.Sprintf("%d%s-%s", k.Grade, k.Gender, k.Color)
}

// DisplayName returns a human-friendly name like "Milton 5th Boys White".
func (k TeamKey) DisplayName(town string) string {
	name := fmt.Sprintf("%s %s %s", town, ordinal(k.Grade), k.Gender.DisplayName())
	if k.Color != "" {
		name += " " + k.Color
	}
	return name
}

// Slug returns a URL/file-safe identifier like "5th-boys-white".
func (k TeamKey) Slug() string {
	s := fmt.Sprintf("%s-%s", ordinal(k.Grade), lowerASCII(k.Gender.DisplayName()))
	if k.Color != "" {
		s += "-" + lowerASCII(k.Color)
	}
	return s
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		if n%100 != 11 {
			suffix = "st"
		}
	case 2:
		if n%100 != 12 {
			suffix = "nd"
		}
	case 3:
		if n%100 != 13 {
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// Coach is display metadata attached to a team's calendar. It is passed
// through to the encoder unchanged.
type Coach struct {
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Email string `yaml:"email,omitempty" json:"email,omitempty"`
	Phone string `yaml:"phone,omitempty" json:"phone,omitempty"`
}

// GameOccurrence is one concrete game, normalized from a raw league record.
// The full set is rebuilt from upstream data on every aggregation run and
// never mutated in place.
type GameOccurrence struct {
	Team       TeamKey
	LeagueID   string
	LeagueName string

	// Start is timezone-aware (league websites publish US Eastern local
	// times; the collector attaches America/New_York).
	Start    time.Time
	Duration time.Duration

	Opponent   string
	Location   string
	Directions string

	// HomeAway is the league's raw home/away marker ("home", "away", "H",
	// "A", ...). Only used for display formatting.
	HomeAway string

	// NonLeague marks tournament / out-of-league contests.
	NonLeague bool
}

// End returns the end of the game's time window.
func (g GameOccurrence) End() time.Time {
	return g.Start.Add(g.Duration)
}

// PracticeSource records whether a practice occurrence came from a
// recurring rule or an adhoc entry.
type PracticeSource string

const (
	SourceRecurring PracticeSource = "recurring"
	SourceAdhoc     PracticeSource = "adhoc"
)

// SuppressReason explains why an expanded practice occurrence was withheld
// from the emitted schedule.
type SuppressReason string

const (
	SuppressNone         SuppressReason = "none"
	SuppressBlackout     SuppressReason = "blackout"
	SuppressGameConflict SuppressReason = "game_conflict"
	SuppressCancelled    SuppressReason = "cancelled"
)

// PracticeOccurrence is one concrete practice generated from a PracticeSpec.
// Suppressed occurrences are retained for diagnostics but excluded from the
// emitted schedule.
type PracticeOccurrence struct {
	Team     TeamKey
	Start    time.Time
	Duration time.Duration
	Location string
	Notes    string

	Source     PracticeSource
	Suppressed SuppressReason
}

// End returns the end of the practice's time window.
func (p PracticeOccurrence) End() time.Time {
	return p.Start.Add(p.Duration)
}

// OccurrenceKind distinguishes assembled calendar entries.
type OccurrenceKind string

const (
	KindGame     OccurrenceKind = "game"
	KindPractice OccurrenceKind = "practice"
)

// Occurrence is one assembled calendar entry, either a game or a practice.
// Exactly one of Game / Practice is set, matching Kind.
type Occurrence struct {
	Kind     OccurrenceKind
	Game     *GameOccurrence
	Practice *PracticeOccurrence
}

// Start returns the entry's start instant.
func (o Occurrence) Start() time.Time {
	if o.Kind == KindGame {
		return o.Game.Start
	}
	return o.Practice.Start
}

// End returns the entry's end instant.
func (o Occurrence) End() time.Time {
	if o.Kind == KindGame {
		return o.Game.End()
	}
	return o.Practice.End()
}
