// Package scrape talks to the sportsite2-backed league websites: town-ID
// discovery from the launch page, team discovery per town/grade/gender, and
// per-team schedule fetch. All failures here are per-source; callers log and
// continue with whatever data arrived.
package scrape

import (
	"fmt"
	"net/url"
	"time"
)

const (
	apiBase          = "https://sportsite2.com"
	teamScheduleURL  = apiBase + "/getTeamSchedule.php"
	teamDiscoveryURL = apiBase + "/getTownGenderGradeTeams.php"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// League identifies one schedule source site.
type League struct {
	// ID is the sportsite2 client id, e.g. "metrowbb" or "ssybl".
	ID string
	// Name is the human-facing league name.
	Name string
	// URL is the launch page carrying the town dropdown.
	URL string
	// Origin is sent as Origin/Referer on API calls; derived from URL
	// when empty.
	Origin string
}

// EffectiveOrigin returns the configured origin, or one derived from the
// launch-page URL.
func (l League) EffectiveOrigin() string {
	if l.Origin != "" {
		return l.Origin
	}
	u, err := url.Parse(l.URL)
	if err != nil || u.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host)
}

// Season returns the sportsite2 season string for the given instant. The
// season runs August through March, so August onward belongs to the next
// calendar year's season.
func Season(now time.Time) string {
	year := now.Year()
	if now.Month() >= time.August {
		year++
	}
	return fmt.Sprintf("%d", year)
}
