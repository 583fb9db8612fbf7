package farkle

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
)

// Pattern identifies a scoring rule in the rule table.
type Pattern string

const (
	// PatternSingle1 scores a loose 1 outside any group.
	PatternSingle1 Pattern = "single_1"
	// PatternSingle5 scores a loose 5 outside any group.
	PatternSingle5 Pattern = "single_5"
	// PatternThree1 through PatternThree6 score three of a kind per face.
	PatternThree1 Pattern = "three_1"
	PatternThree2 Pattern = "three_2"
	PatternThree3 Pattern = "three_3"
	PatternThree4 Pattern = "three_4"
	PatternThree5 Pattern = "three_5"
	PatternThree6 Pattern = "three_6"
	// PatternStraight scores one of each face, consuming the whole roll.
	PatternStraight Pattern = "straight"
	// PatternThreePairs scores three distinct pairs, consuming the whole roll.
	PatternThreePairs Pattern = "three_pairs"
)

// faces is the number of faces on every die.
const faces = 6

// requiredPatterns lists every pattern a rule table must price.
var requiredPatterns = []Pattern{
	PatternSingle1,
	PatternSingle5,
	PatternThree1,
	PatternThree2,
	PatternThree3,
	PatternThree4,
	PatternThree5,
	PatternThree6,
	PatternStraight,
	PatternThreePairs,
}

var (
	// ErrMissingPattern indicates a rule table without a required pattern.
	ErrMissingPattern = apperrors.New(apperrors.CodeRulesMissingPattern, "scoring pattern is missing from rule table")
	// ErrNegativeScore indicates a pattern priced below zero.
	ErrNegativeScore = apperrors.New(apperrors.CodeRulesNegativeScore, "scoring pattern value cannot be negative")
	// ErrInvalidMultiplier indicates a group multiplier below 2.
	ErrInvalidMultiplier = apperrors.New(apperrors.CodeRulesInvalidMultiplier, "group multiplier must be at least 2")
	// ErrInvalidDiceCount indicates a dice count below the playable minimum.
	ErrInvalidDiceCount = apperrors.New(apperrors.CodeRulesInvalidDiceCount, "dice count must be at least 3")
	// ErrInvalidMaxScore indicates a non-positive winning score.
	ErrInvalidMaxScore = apperrors.New(apperrors.CodeRulesInvalidMaxScore, "winning score must be positive")
)

// Rules is the rule table a match plays under. It is treated as immutable
// after Validate: the engine only reads it, and loaders hand out fresh
// copies.
type Rules struct {
	// Name labels the table for snapshots and archived matches.
	Name string
	// MaxScore is the banked total required to win.
	MaxScore int
	// DiceCount is the number of dice in the set.
	DiceCount int
	// Scores prices each scoring pattern.
	Scores map[Pattern]int
	// Multipliers maps group sizes 4, 5, and 6 to the factor applied to
	// the matching three-of-a-kind base value. The factor replaces the
	// base, it does not stack: three 2s at 200 and a factor of 2 make
	// four 2s worth 400.
	Multipliers map[int]int
}

// DefaultRules returns the classic table: singles at 100 and 50, triples
// at face value times 100 (1000 for 1s), straight 1500, three pairs 1000,
// six dice, winning score 5000.
func DefaultRules() Rules {
	return Rules{
		Name:      "classic",
		MaxScore:  5000,
		DiceCount: 6,
		Scores: map[Pattern]int{
			PatternSingle1:    100,
			PatternSingle5:    50,
			PatternThree1:     1000,
			PatternThree2:     200,
			PatternThree3:     300,
			PatternThree4:     400,
			PatternThree5:     500,
			PatternThree6:     600,
			PatternStraight:   1500,
			PatternThreePairs: 1000,
		},
		Multipliers: map[int]int{
			4: 2,
			5: 3,
			6: 4,
		},
	}
}

// Validate checks the table is complete and every value is in domain.
func (r Rules) Validate() error {
	if r.MaxScore <= 0 {
		return ErrInvalidMaxScore
	}
	if r.DiceCount < 3 {
		return apperrors.WithMetadata(apperrors.CodeRulesInvalidDiceCount,
			fmt.Sprintf("dice count %d must be at least 3", r.DiceCount),
			map[string]string{"Count": strconv.Itoa(r.DiceCount)})
	}
	for _, pattern := range requiredPatterns {
		score, ok := r.Scores[pattern]
		if !ok {
			return apperrors.WithMetadata(apperrors.CodeRulesMissingPattern,
				fmt.Sprintf("scoring pattern %s is missing", pattern),
				map[string]string{"Pattern": string(pattern)})
		}
		if score < 0 {
			return apperrors.WithMetadata(apperrors.CodeRulesNegativeScore,
				fmt.Sprintf("scoring pattern %s cannot be negative", pattern),
				map[string]string{"Pattern": string(pattern)})
		}
	}
	for _, size := range []int{4, 5, 6} {
		mult, ok := r.Multipliers[size]
		if !ok || mult < 2 {
			return apperrors.WithMetadata(apperrors.CodeRulesInvalidMultiplier,
				fmt.Sprintf("multiplier for %d of a kind must be at least 2", size),
				map[string]string{"Multiplier": strconv.Itoa(mult)})
		}
	}
	return nil
}

// threePattern returns the three-of-a-kind pattern for a face.
func threePattern(face int) Pattern {
	return Pattern("three_" + strconv.Itoa(face))
}

// groupScore prices a same-face group of the given size. Sizes beyond the
// multiplier table reuse the largest configured factor.
func (r Rules) groupScore(face, size int) int {
	base := r.Scores[threePattern(face)]
	if size <= 3 {
		return base
	}
	if mult, ok := r.Multipliers[size]; ok {
		return base * mult
	}
	return base * r.Multipliers[6]
}
