// Package assemble merges a team's games and practices into one ordered
// occurrence sequence for the calendar encoder. All suppression has already
// happened upstream; this package only orders.
package assemble

import (
	"sort"

	"bballcal/internal/model"
)

// Assemble interleaves two already-sorted lists into one chronological
// sequence. On an exact start-time tie, games precede practices: games are
// the authoritative externally-sourced data.
func Assemble(games []model.GameOccurrence, practices []model.PracticeOccurrence) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(games)+len(practices))

	gi, pi := 0, 0
	for gi < len(games) && pi < len(practices) {
		// <= keeps the game first on a tie.
		if !games[gi].Start.After(practices[pi].Start) {
			out = append(out, gameOccurrence(&games[gi]))
			gi++
		} else {
			out = append(out, practiceOccurrence(&practices[pi]))
			pi++
		}
	}
	for ; gi < len(games); gi++ {
		out = append(out, gameOccurrence(&games[gi]))
	}
	for ; pi < len(practices); pi++ {
		out = append(out, practiceOccurrence(&practices[pi]))
	}

	return out
}

// AssembleGroup flattens several per-team assembled sequences into one
// combined chronological view, e.g. for a coach running two teams or a
// family calendar. Entries keep their per-team relative order; ties still
// put games before practices.
func AssembleGroup(perTeam ...[]model.Occurrence) []model.Occurrence {
	var out []model.Occurrence
	for _, seq := range perTeam {
		out = append(out, seq...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Start().Equal(b.Start()) {
			return a.Start().Before(b.Start())
		}
		return a.Kind == model.KindGame && b.Kind == model.KindPractice
	})
	return out
}

func gameOccurrence(g *model.GameOccurrence) model.Occurrence {
	return model.Occurrence{Kind: model.KindGame, Game: g}
}

func practiceOccurrence(p *model.PracticeOccurrence) model.Occurrence {
	return model.Occurrence{Kind: model.KindPractice, Practice: p}
}
