package model

// RecurringRule generates one practice candidate per matching weekday within
// the season window.
type RecurringRule struct {
	Weekday         Weekday   `yaml:"weekday" json:"weekday"`
	Time            TimeOfDay `yaml:"time" json:"time"`
	DurationMinutes int       `yaml:"duration_minutes" json:"duration_minutes"`
	Location        string    `yaml:"location,omitempty" json:"location,omitempty"`
	Notes           string    `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// AdhocPractice is a single dated practice added unconditionally. Adhoc
// entries bypass blackout and game-conflict suppression; they exist
// precisely to schedule practices the recurring rules would have skipped.
type AdhocPractice struct {
	Date            Date      `yaml:"date" json:"date"`
	Time            TimeOfDay `yaml:"time" json:"time"`
	DurationMinutes int       `yaml:"duration_minutes" json:"duration_minutes"`
	Location        string    `yaml:"location,omitempty" json:"location,omitempty"`
	Notes           string    `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// ModAction selects what a Modification does to the occurrence on its date.
type ModAction string

const (
	ActionCancel ModAction = "cancel"
	ActionModify ModAction = "modify"
)

// Modification targets whichever practice occurrence (recurring-generated or
// adhoc) falls on its date. At most one modification may target a given
// date per team; more than one is a configuration error.
//
// Override fields are pointers so that "not set" and "set to zero" are
// distinguishable for the modify action.
type Modification struct {
	Date   Date      `yaml:"date" json:"date"`
	Action ModAction `yaml:"action" json:"action"`

	Time            *TimeOfDay `yaml:"time,omitempty" json:"time,omitempty"`
	DurationMinutes *int       `yaml:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	Location        *string    `yaml:"location,omitempty" json:"location,omitempty"`
	Notes           *string    `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// PracticeSpec is the declarative per-team practice schedule. It is expanded
// fresh each run against the season window and the team's merged game set.
type PracticeSpec struct {
	Recurring     []RecurringRule `yaml:"recurring,omitempty" json:"recurring,omitempty"`
	Adhoc         []AdhocPractice `yaml:"adhoc,omitempty" json:"adhoc,omitempty"`
	Modifications []Modification  `yaml:"modifications,omitempty" json:"modifications,omitempty"`
}
