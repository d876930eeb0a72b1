package scrape

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	appLog "bballcal/internal/log"
)

// knownTownIDs are last-resort fallbacks for when the launch page cannot be
// fetched or parsed at all. Parsed values always win.
var knownTownIDs = map[string]map[string]string{
	"ssybl": {
		"milton": "3553",
	},
	"metrowbb": {
		"milton": "3488",
	},
}

// ParseTowns extracts the town-name to town-ID mapping from a league launch
// page. It prefers options inside the town <select> (the sites use
// inputTown or popupTown ids); when neither select is present it falls back
// to scanning every option on the page, keeping only values that plausibly
// name a town.
func ParseTowns(html []byte) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse launch page: %w", err)
	}

	towns := make(map[string]string)

	scope := doc.Find("select#inputTown, select#popupTown")
	if scope.Length() > 0 {
		scope.Find("option").Each(func(_ int, opt *goquery.Selection) {
			addTownOption(towns, opt, false)
		})
	}

	if len(towns) == 0 {
		doc.Find("option").Each(func(_ int, opt *goquery.Selection) {
			addTownOption(towns, opt, true)
		})
	}

	return towns, nil
}

func addTownOption(towns map[string]string, opt *goquery.Selection, strict bool) {
	id, ok := opt.Attr("value")
	if !ok || !isDigits(id) {
		return
	}
	name := strings.TrimSpace(opt.Text())
	if name == "" || strings.HasPrefix(strings.ToLower(name), "choose") {
		return
	}
	if strict {
		// Outside the town select, require something town-shaped: a
		// capitalized name and a 4+ digit id.
		if len(name) <= 2 || len(id) < 4 || !unicode.IsUpper(rune(name[0])) {
			return
		}
	} else if len(name) <= 1 {
		return
	}

	// Prefer 4-digit ids when the same name appears twice.
	if existing, dup := towns[name]; dup && len(existing) == 4 && len(id) != 4 {
		return
	}
	towns[name] = id
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// LookupTown finds the ID for townName in a parsed town table, trying an
// exact case-insensitive match before a partial one.
func LookupTown(towns map[string]string, townName string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(townName))
	for name, id := range towns {
		if strings.ToLower(name) == want {
			return id, true
		}
	}
	for name, id := range towns {
		if strings.Contains(strings.ToLower(name), want) {
			appLog.Info("town partial match", "wanted", townName, "matched", name, "id", id)
			return id, true
		}
	}
	return "", false
}

// fallbackTownID returns the hardcoded town ID, if one is known.
func fallbackTownID(leagueID, townName string) (string, bool) {
	id, ok := knownTownIDs[leagueID][strings.ToLower(strings.TrimSpace(townName))]
	return id, ok
}
