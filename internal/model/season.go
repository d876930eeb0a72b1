package model

// Blackout is a date range (both endpoints inclusive) during which recurring
// practices are suppressed. Adhoc practices are deliberate overrides and are
// exempt.
type Blackout struct {
	Start  Date   `yaml:"start" json:"start"`
	End    Date   `yaml:"end" json:"end"`
	Reason string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Contains reports whether d falls within the blackout, endpoints included.
func (b Blackout) Contains(d Date) bool {
	return !d.Before(b.Start) && !d.After(b.End)
}

// Season is the window over which recurring practice rules are expanded.
// Blackout periods need not be sorted or non-overlapping; a date inside any
// one of them counts as blacked out.
type Season struct {
	Start     Date       `yaml:"start" json:"start"`
	End       Date       `yaml:"end" json:"end"`
	Blackouts []Blackout `yaml:"blackouts,omitempty" json:"blackouts,omitempty"`
}

// Contains reports whether d falls within the season window, inclusive.
func (s Season) Contains(d Date) bool {
	return !d.Before(s.Start) && !d.After(s.End)
}

// BlackedOut reports whether d falls within any blackout period, and the
// reason of the first matching period.
func (s Season) BlackedOut(d Date) (bool, string) {
	for _, b := range s.Blackouts {
		if b.Contains(d) {
			return true, b.Reason
		}
	}
	return false, ""
}
