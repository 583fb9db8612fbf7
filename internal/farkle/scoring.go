package farkle

import (
	"fmt"
	"sort"

	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
)

var (
	// ErrSelectionEmpty indicates a keep request naming no dice.
	ErrSelectionEmpty = apperrors.New(apperrors.CodeSelectionEmpty, "selection must name at least one die")
	// ErrSelectionNotScoring indicates a selection with dice outside every
	// scoring combination.
	ErrSelectionNotScoring = apperrors.New(apperrors.CodeSelectionNotScoring, "selection does not form a scoring combination")
)

// Combination is one scoring option for a roll: the pattern matched, the
// die values it consumes, and its point value.
type Combination struct {
	Pattern Pattern
	// Face is the face for singles and groups, zero for whole-roll patterns.
	Face   int
	Values []int
	Score  int
}

// FindCombinations returns every scoring combination available in values.
//
// Whole-roll patterns are checked first and are exclusive: a straight (one
// of each face) or three pairs (three distinct faces twice each) consumes
// every die and is the only combination offered for that roll. Otherwise
// each face appearing three or more times forms a group worth the
// three-of-a-kind base times the group multiplier, and loose 1s and 5s
// outside any group score singly.
//
// # Ordering
//
// Groups are listed by ascending face, then single 1s, then single 5s.
// The result is deterministic for a given multiset of values.
func FindCombinations(values []int, rules Rules) []Combination {
	if len(values) == 0 {
		return nil
	}
	counts := faceCounts(values)

	if isStraight(values, counts) {
		return []Combination{{
			Pattern: PatternStraight,
			Values:  sortedCopy(values),
			Score:   rules.Scores[PatternStraight],
		}}
	}
	if isThreePairs(values, counts) {
		return []Combination{{
			Pattern: PatternThreePairs,
			Values:  sortedCopy(values),
			Score:   rules.Scores[PatternThreePairs],
		}}
	}

	var combos []Combination
	for face := 1; face <= faces; face++ {
		if counts[face] >= 3 {
			combos = append(combos, Combination{
				Pattern: threePattern(face),
				Face:    face,
				Values:  repeatValue(face, counts[face]),
				Score:   rules.groupScore(face, counts[face]),
			})
		}
	}
	for _, single := range []struct {
		face    int
		pattern Pattern
	}{{1, PatternSingle1}, {5, PatternSingle5}} {
		if counts[single.face] >= 1 && counts[single.face] < 3 {
			for i := 0; i < counts[single.face]; i++ {
				combos = append(combos, Combination{
					Pattern: single.pattern,
					Face:    single.face,
					Values:  []int{single.face},
					Score:   rules.Scores[single.pattern],
				})
			}
		}
	}
	return combos
}

// HasScoringDice reports whether at least one combination exists in
// values. A roll without scoring dice is a bust.
func HasScoringDice(values []int, rules Rules) bool {
	return len(FindCombinations(values, rules)) > 0
}

// ScoreSelection prices the dice a player wants to set aside out of the
// available values.
//
// The selection must be drawn from the available dice and every selected
// die must land in a scoring combination when the selection is decomposed
// on its own: groups form from three or more of a face, smaller lots of
// 1s and 5s score singly, and anything else rejects the whole selection.
// When the available roll is a straight or three pairs, that pattern is
// exhaustive and only a selection of the entire roll is legal.
//
// # Errors
//
// Returns ErrSelectionEmpty, ErrSelectionUnavailable, or
// ErrSelectionNotScoring. The selection is validated before any caller
// mutation should occur; a returned error means nothing was consumed.
func ScoreSelection(available, selection []int, rules Rules) (int, error) {
	if len(selection) == 0 {
		return 0, ErrSelectionEmpty
	}

	have := faceCounts(available)
	want := faceCounts(selection)
	for face := 1; face <= faces; face++ {
		if want[face] > have[face] {
			return 0, apperrors.WithMetadata(apperrors.CodeSelectionUnavailable,
				fmt.Sprintf("dice %s are not available", formatValues(selection)),
				map[string]string{"Dice": formatValues(selection)})
		}
	}

	offerings := FindCombinations(available, rules)
	if len(offerings) == 1 && (offerings[0].Pattern == PatternStraight || offerings[0].Pattern == PatternThreePairs) {
		if len(selection) != len(available) {
			return 0, apperrors.WithMetadata(apperrors.CodeSelectionNotScoring,
				fmt.Sprintf("%s consumes the whole roll", offerings[0].Pattern),
				map[string]string{"Dice": formatValues(selection)})
		}
		return offerings[0].Score, nil
	}

	total := 0
	consumed := 0
	for _, combo := range FindCombinations(selection, rules) {
		total += combo.Score
		consumed += len(combo.Values)
	}
	if consumed != len(selection) {
		return 0, apperrors.WithMetadata(apperrors.CodeSelectionNotScoring,
			fmt.Sprintf("selection %s does not form a scoring combination", formatValues(selection)),
			map[string]string{"Dice": formatValues(selection)})
	}
	return total, nil
}

// faceCounts tallies values per face. Index 0 is unused.
func faceCounts(values []int) [faces + 1]int {
	var counts [faces + 1]int
	for _, v := range values {
		if v >= 1 && v <= faces {
			counts[v]++
		}
	}
	return counts
}

// isStraight reports one of each face across the whole roll.
func isStraight(values []int, counts [faces + 1]int) bool {
	if len(values) != faces {
		return false
	}
	for face := 1; face <= faces; face++ {
		if counts[face] != 1 {
			return false
		}
	}
	return true
}

// isThreePairs reports three distinct faces appearing exactly twice.
func isThreePairs(values []int, counts [faces + 1]int) bool {
	if len(values) != 6 {
		return false
	}
	pairs := 0
	for face := 1; face <= faces; face++ {
		if counts[face] == 2 {
			pairs++
		}
	}
	return pairs == 3
}

func sortedCopy(values []int) []int {
	out := make([]int, len(values))
	copy(out, values)
	sort.Ints(out)
	return out
}

func repeatValue(value, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = value
	}
	return out
}
