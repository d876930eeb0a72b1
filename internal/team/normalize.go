// Package team normalizes heterogeneous per-league team identifiers into
// canonical TeamKeys via alias resolution.
package team

import (
	"fmt"
	"strconv"
	"strings"

	"bballcal/internal/model"
)

// AliasTable maps a canonical team color to the raw variant strings the
// leagues publish for it. Lookup is case-insensitive and
// whitespace-normalized. Variants must be disjoint across canonicals.
type AliasTable map[string][]string

// MalformedInputError reports a raw identity field that could not be parsed.
// Callers skip the offending record and continue the batch.
type MalformedInputError struct {
	Field string
	Value string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s value %q", e.Field, e.Value)
}

// AmbiguityError reports an alias table in which a raw variant maps to more
// than one canonical color. Resolution would be arbitrary, so the table is
// rejected instead.
type AmbiguityError struct {
	Variant    string
	Canonicals []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("alias variant %q maps to multiple canonicals: %s",
		e.Variant, strings.Join(e.Canonicals, ", "))
}

// fold normalizes a raw string for alias comparison: trimmed, case-folded,
// inner whitespace collapsed.
func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Validate checks that no folded variant appears under two canonical colors
// and that no variant collides with a different canonical color's own name.
func (t AliasTable) Validate() error {
	owner := make(map[string]string) // folded variant -> canonical

	// Canonical names claim their own folded form first.
	for canonical := range t {
		owner[fold(canonical)] = canonical
	}

	for canonical, variants := range t {
		for _, v := range variants {
			f := fold(v)
			if f == "" {
				continue
			}
			if prev, ok := owner[f]; ok && prev != canonical {
				return &AmbiguityError{Variant: v, Canonicals: []string{prev, canonical}}
			}
			owner[f] = canonical
		}
	}
	return nil
}

// resolveColor maps a raw color string to its canonical form. An unaliased
// string stands as its own canonical; not every team needs an alias entry.
func (t AliasTable) resolveColor(raw string) string {
	f := fold(raw)
	if f == "" {
		return ""
	}

	for canonical := range t {
		if fold(canonical) == f {
			return canonical
		}
	}
	for canonical, variants := range t {
		for _, v := range variants {
			if fold(v) == f {
				return canonical
			}
		}
	}

	return titleCase(f)
}

// titleCase capitalizes the first letter of each word for display, so that
// an unaliased raw color like "white" still yields "White".
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var gradePattern = [...]string{"grade", "gr", "g"}

// ParseGrade parses grade identifiers like "5", "5th", "5th Grade".
func ParseGrade(raw string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, suffix := range gradePattern {
		s = strings.TrimSuffix(s, suffix)
	}
	s = strings.TrimSpace(s)
	for _, suffix := range [...]string{"st", "nd", "rd", "th"} {
		s = strings.TrimSuffix(s, suffix)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 12 {
		return 0, &MalformedInputError{Field: "grade", Value: raw}
	}
	return n, nil
}

// ParseGender parses "M"/"Boys"/"B" and "F"/"Girls"/"G", case-insensitive.
func ParseGender(raw string) (model.Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m", "b", "boy", "boys", "male":
		return model.GenderMale, nil
	case "f", "g", "girl", "girls", "female":
		return model.GenderFemale, nil
	}
	return "", &MalformedInputError{Field: "gender", Value: raw}
}

// Normalize maps a raw (grade, gender, color) triple into a canonical
// TeamKey. Pure and deterministic for a given alias table snapshot.
func Normalize(rawGrade, rawGender, rawColor string, aliases AliasTable) (model.TeamKey, error) {
	grade, err := ParseGrade(rawGrade)
	if err != nil {
		return model.TeamKey{}, err
	}
	gender, err := ParseGender(rawGender)
	if err != nil {
		return model.TeamKey{}, err
	}
	return model.TeamKey{
		Grade:  grade,
		Gender: gender,
		Color:  aliases.resolveColor(rawColor),
	}, nil
}
