// Package ical encodes an assembled occurrence sequence into an iCalendar
// document suitable for calendar-subscription clients. Encoding is a pure
// function of its inputs; all merging and suppression happens upstream.
package ical

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"bballcal/internal/model"
)

const prodIDFormat = "-//Basketball Schedule//%s//EN"

// Meta is the display metadata attached to one generated calendar.
type Meta struct {
	// CalendarID is the file/URL identifier, also used in UIDs.
	CalendarID string
	// Name becomes X-WR-CALNAME.
	Name string
	// Coach info, if configured, is appended to event descriptions.
	Coach model.Coach
	// Timezone is the X-WR-TIMEZONE hint for subscription clients.
	Timezone string
	// Now is the DTSTAMP instant; zero means time.Now.
	Now time.Time
}

// Encode renders occurrences into an ICS document. The sequence is written
// in the order given; callers pass assembler output, which is already
// chronological.
func Encode(occurrences []model.Occurrence, meta Meta) []byte {
	if meta.Timezone == "" {
		meta.Timezone = "America/New_York"
	}
	if meta.Now.IsZero() {
		meta.Now = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(fmt.Sprintf(prodIDFormat, meta.CalendarID))
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(meta.Name)
	cal.SetXWRTimezone(meta.Timezone)

	for _, occ := range occurrences {
		switch occ.Kind {
		case model.KindGame:
			addGameEvent(cal, occ.Game, meta)
		case model.KindPractice:
			addPracticeEvent(cal, occ.Practice, meta)
		}
	}

	return []byte(cal.Serialize())
}

func addGameEvent(cal *ics.Calendar, g *model.GameOccurrence, meta Meta) {
	ev := cal.AddEvent(gameUID(g, meta.CalendarID))
	ev.SetDtStampTime(meta.Now)
	ev.SetStartAt(g.Start)
	ev.SetEndAt(g.End())

	prefix := ""
	if short := g.Team.Short(); short != "" {
		prefix = "[" + short + "] "
	}
	if isAway(g.HomeAway) {
		ev.SetSummary(fmt.Sprintf("%s@ %s", prefix, g.Opponent))
	} else {
		ev.SetSummary(fmt.Sprintf("%svs %s", prefix, g.Opponent))
	}

	if g.Location != "" {
		ev.SetLocation(g.Location)
	}

	desc := []string{
		"Opponent: " + g.Opponent,
	}
	if g.LeagueName != "" {
		desc = append(desc, "League: "+g.LeagueName)
	}
	if g.NonLeague {
		desc = append(desc, "Non-league / tournament game")
	}
	if g.Location != "" {
		desc = append(desc, "Location: "+g.Location)
	}
	if g.Directions != "" {
		desc = append(desc, "", "Directions: "+g.Directions)
	}
	desc = appendCoach(desc, meta.Coach)
	ev.SetDescription(strings.Join(desc, "\n"))

	// Reminders at one hour and thirty minutes out.
	addDisplayAlarm(ev, "-PT1H", fmt.Sprintf("Basketball game vs %s in 1 hour", g.Opponent))
	addDisplayAlarm(ev, "-PT30M", fmt.Sprintf("Basketball game vs %s in 30 minutes", g.Opponent))
}

func addPracticeEvent(cal *ics.Calendar, p *model.PracticeOccurrence, meta Meta) {
	ev := cal.AddEvent(practiceUID(p, meta.CalendarID))
	ev.SetDtStampTime(meta.Now)
	ev.SetStartAt(p.Start)
	ev.SetEndAt(p.End())

	prefix := ""
	if short := p.Team.Short(); short != "" {
		prefix = "[" + short + "] "
	}
	ev.SetSummary(prefix + "Practice")

	if p.Location != "" {
		ev.SetLocation(p.Location)
	}

	var desc []string
	if p.Notes != "" {
		desc = append(desc, p.Notes)
	}
	if p.Source == model.SourceAdhoc {
		desc = append(desc, "Added practice (not part of the weekly schedule)")
	}
	desc = appendCoach(desc, meta.Coach)
	if len(desc) > 0 {
		ev.SetDescription(strings.Join(desc, "\n"))
	}

	addDisplayAlarm(ev, "-PT1H", "Basketball practice in 1 hour")
}

func appendCoach(desc []string, coach model.Coach) []string {
	if coach.Name == "" {
		return desc
	}
	line := "Coach: " + coach.Name
	if coach.Email != "" {
		line += " <" + coach.Email + ">"
	}
	if coach.Phone != "" {
		line += " " + coach.Phone
	}
	return append(desc, "", line)
}

func addDisplayAlarm(ev *ics.VEvent, trigger, description string) {
	alarm := ev.AddAlarm()
	alarm.SetAction(ics.ActionDisplay)
	alarm.SetTrigger(trigger)
	alarm.SetProperty(ics.ComponentPropertyDescription, description)
}

func isAway(homeAway string) bool {
	switch strings.ToLower(strings.TrimSpace(homeAway)) {
	case "away", "a", "@":
		return true
	}
	return false
}

// gameUID derives a stable per-game UID so subscription clients update
// events in place instead of duplicating them on every refresh.
func gameUID(g *model.GameOccurrence, calendarID string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s-%s-%d-%s",
		g.Start.UTC().Format(time.RFC3339), g.Opponent, g.Team.Grade, g.LeagueID)))
	return hex.EncodeToString(sum[:]) + "@" + calendarID
}

func practiceUID(p *model.PracticeOccurrence, calendarID string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("practice-%s-%s-%s",
		p.Start.UTC().Format(time.RFC3339), p.Team.Short(), p.Location)))
	return hex.EncodeToString(sum[:]) + "@" + calendarID
}
