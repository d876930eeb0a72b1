// Package publish writes the generated calendars and the landing page to the
// output directory. Every run replaces the directory contents wholesale;
// nothing from previous runs is consulted.
package publish

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	appLog "bballcal/internal/log"
	"bballcal/internal/model"
)

// Calendar is one encoded calendar ready to be written.
type Calendar struct {
	// ID is the file name without extension, e.g. "milton-5th-boys-white-metrowbb".
	ID string
	// Name is the display name, e.g. "Milton 5th Boys White (MetroWest)".
	Name string
	// League is empty for combined calendars.
	League string
	// Combined marks the all-leagues calendar for a team.
	Combined bool
	// Team groups the calendar on the landing page.
	Team model.TeamKey
	// Events is the number of events in the calendar.
	Events int
	// Data is the serialized ICS payload.
	Data []byte
}

// CalendarStatus is the per-calendar slice of status.json.
type CalendarStatus struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	League   string `json:"league,omitempty"`
	Combined bool   `json:"combined,omitempty"`
	Events   int    `json:"events"`
}

// Status summarizes one publish run; it is written as status.json and served
// by the web API.
type Status struct {
	Updated   time.Time        `json:"updated"`
	Town      string           `json:"town"`
	Teams     int              `json:"teams"`
	Calendars []CalendarStatus `json:"calendars"`
	Warnings  []string         `json:"warnings,omitempty"`
	Skipped   int              `json:"skipped_records,omitempty"`
}

// Write publishes all calendars plus index.html and status.json under
// outputDir, creating it if needed. warnings and skipped feed the status
// summary only.
func Write(outputDir, town, baseURL string, cals []Calendar, warnings []string, skipped int) (Status, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Status{}, fmt.Errorf("create output dir: %w", err)
	}

	status := Status{
		Updated:  time.Now(),
		Town:     town,
		Warnings: warnings,
		Skipped:  skipped,
	}

	teams := make(map[model.TeamKey]bool)
	for _, cal := range cals {
		path := filepath.Join(outputDir, cal.ID+".ics")
		if err := os.WriteFile(path, cal.Data, 0o644); err != nil {
			return Status{}, fmt.Errorf("write %s: %w", path, err)
		}
		appLog.Info("wrote calendar", "path", path, "events", cal.Events)

		teams[cal.Team] = true
		status.Calendars = append(status.Calendars, CalendarStatus{
			ID:       cal.ID,
			Name:     cal.Name,
			League:   cal.League,
			Combined: cal.Combined,
			Events:   cal.Events,
		})
	}
	status.Teams = len(teams)

	html, err := renderIndex(town, baseURL, cals, status.Updated)
	if err != nil {
		return Status{}, err
	}
	if err := os.WriteFile(filepath.Join(outputDir, "index.html"), html, 0o644); err != nil {
		return Status{}, fmt.Errorf("write index.html: %w", err)
	}

	data, err := json.MarshalIndent(&status, "", "  ")
	if err != nil {
		return Status{}, err
	}
	if err := os.WriteFile(filepath.Join(outputDir, "status.json"), data, 0o644); err != nil {
		return Status{}, fmt.Errorf("write status.json: %w", err)
	}

	return status, nil
}

// Landing-page view model: grades contain teams contain calendars, with the
// combined calendar listed first inside each team.

type indexCalendar struct {
	ID       string
	Label    string
	Events   int
	Combined bool
	URL      string
	Webcal   string
}

type indexTeam struct {
	Label     string
	Calendars []indexCalendar
}

type indexGrade struct {
	Label string
	Teams []indexTeam
}

type indexPage struct {
	Town    string
	Grades  []indexGrade
	Updated string
}

func renderIndex(town, baseURL string, cals []Calendar, updated time.Time) ([]byte, error) {
	byTeam := make(map[model.TeamKey][]Calendar)
	for _, cal := range cals {
		byTeam[cal.Team] = append(byTeam[cal.Team], cal)
	}

	keys := make([]model.TeamKey, 0, len(byTeam))
	for key := range byTeam {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Grade != b.Grade {
			return a.Grade < b.Grade
		}
		if a.Gender != b.Gender {
			return a.Gender < b.Gender
		}
		return a.Color < b.Color
	})

	page := indexPage{Town: town, Updated: updated.Format("2006-01-02 15:04 MST")}
	var current *indexGrade
	for _, key := range keys {
		gradeLabel := fmt.Sprintf("%s Grade", ordinalLabel(key.Grade))
		if current == nil || current.Label != gradeLabel {
			page.Grades = append(page.Grades, indexGrade{Label: gradeLabel})
			current = &page.Grades[len(page.Grades)-1]
		}

		group := byTeam[key]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Combined != group[j].Combined {
				return group[i].Combined
			}
			return group[i].League < group[j].League
		})

		team := indexTeam{Label: key.Gender.DisplayName() + " " + key.Color}
		for _, cal := range group {
			label := cal.League
			if cal.Combined {
				label = "Combined (All Leagues)"
			}
			icsURL := strings.TrimSuffix(baseURL, "/") + "/" + cal.ID + ".ics"
			team.Calendars = append(team.Calendars, indexCalendar{
				ID:       cal.ID,
				Label:    label,
				Events:   cal.Events,
				Combined: cal.Combined,
				URL:      icsURL,
				Webcal:   "webcal://" + strings.TrimPrefix(strings.TrimPrefix(icsURL, "https://"), "http://"),
			})
		}
		current.Teams = append(current.Teams, team)
	}

	var buf strings.Builder
	if err := indexTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return []byte(buf.String()), nil
}

func ordinalLabel(n int) string {
	switch n % 10 {
	case 1:
		if n%100 != 11 {
			return fmt.Sprintf("%dst", n)
		}
	case 2:
		if n%100 != 12 {
			return fmt.Sprintf("%dnd", n)
		}
	case 3:
		if n%100 != 13 {
			return fmt.Sprintf("%drd", n)
		}
	}
	return fmt.Sprintf("%dth", n)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Town}} Basketball Calendars</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
       max-width: 900px; margin: 0 auto; padding: 20px; background: #f5f5f5; color: #333; }
h1 { text-align: center; color: #1a1a2e; }
.subtitle { text-align: center; color: #666; margin-bottom: 30px; }
.grade { background: #1a1a2e; color: white; padding: 12px 20px; border-radius: 10px; margin-top: 20px; }
.team { background: white; border-radius: 10px; padding: 14px 18px; margin: 10px 0; box-shadow: 0 2px 8px rgba(0,0,0,0.1); }
.team h3 { margin: 0 0 8px 0; color: #1a1a2e; }
.cal { display: flex; justify-content: space-between; align-items: center; padding: 6px 0; border-bottom: 1px solid #eee; }
.cal:last-child { border-bottom: none; }
.cal.combined .label { font-weight: 700; }
.events { color: #666; font-size: 13px; }
.btn { display: inline-block; padding: 6px 12px; border-radius: 6px; text-decoration: none;
       font-size: 13px; margin-left: 6px; }
.btn-dl { background: #e63946; color: white; }
.btn-sub { background: #1a1a2e; color: white; }
.footer { text-align: center; margin-top: 30px; color: #666; font-size: 13px; }
</style>
</head>
<body>
<h1>{{.Town}} Basketball</h1>
<p class="subtitle">Subscribe to automatically sync game and practice schedules to your calendar</p>
{{range .Grades}}
<div class="grade">{{.Label}}</div>
{{range .Teams}}
<div class="team">
<h3>{{.Label}}</h3>
{{range .Calendars}}
<div class="cal{{if .Combined}} combined{{end}}">
  <span class="label">{{.Label}}</span>
  <span>
    <span class="events">{{.Events}} events</span>
    <a class="btn btn-dl" href="{{.ID}}.ics" download>Download</a>
    <a class="btn btn-sub" href="{{.Webcal}}">Subscribe</a>
  </span>
</div>
{{end}}
</div>
{{end}}
{{end}}
<p class="footer">Last updated: {{.Updated}}</p>
</body>
</html>
`))
