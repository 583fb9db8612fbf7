package farkle

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
)

var (
	// ErrDieKept indicates a roll attempted on a die already set aside.
	ErrDieKept = apperrors.New(apperrors.CodeDieKept, "kept die cannot be rolled")
	// ErrSelectionUnavailable indicates a selection naming dice that are not
	// on the table.
	ErrSelectionUnavailable = apperrors.New(apperrors.CodeSelectionUnavailable, "selected dice are not available")
)

// Die is a single die with a face value and a kept flag. A kept die is set
// aside for scoring and is never re-rolled within the turn.
type Die struct {
	Value int
	Kept  bool
}

// Roll assigns the die a fresh value from the roller. A kept die cannot be
// rolled.
func (d *Die) Roll(roller Roller) error {
	if d.Kept {
		return ErrDieKept
	}
	d.Value = roller.Roll(faces)
	return nil
}

// DiceSet is the ordered, fixed-size set of dice a match plays with.
type DiceSet struct {
	dice []Die
}

// NewDiceSet creates a set of count dice, all available. Values read 1
// until the first roll.
func NewDiceSet(count int) *DiceSet {
	dice := make([]Die, count)
	for i := range dice {
		dice[i].Value = 1
	}
	return &DiceSet{dice: dice}
}

// RollAvailable rolls every die that is not kept and returns the new
// available values in die order. Kept dice are untouched.
func (s *DiceSet) RollAvailable(roller Roller) ([]int, error) {
	rolled := make([]int, 0, len(s.dice))
	for i := range s.dice {
		if s.dice[i].Kept {
			continue
		}
		if err := s.dice[i].Roll(roller); err != nil {
			return nil, fmt.Errorf("roll die %d: %w", i, err)
		}
		rolled = append(rolled, s.dice[i].Value)
	}
	return rolled, nil
}

// Reset returns every die to the available state for a new turn. Values
// are stale until the next roll.
func (s *DiceSet) Reset() {
	for i := range s.dice {
		s.dice[i].Kept = false
	}
}

// MarkKept sets aside available dice matching the requested values. The
// request is validated before any die changes: when it asks for more of a
// face than the table offers, the set is left untouched.
func (s *DiceSet) MarkKept(values []int) error {
	need := map[int]int{}
	for _, v := range values {
		need[v]++
	}
	have := map[int]int{}
	for _, d := range s.dice {
		if !d.Kept {
			have[d.Value]++
		}
	}
	for face, count := range need {
		if have[face] < count {
			return apperrors.WithMetadata(apperrors.CodeSelectionUnavailable,
				fmt.Sprintf("dice %s are not available", formatValues(values)),
				map[string]string{"Dice": formatValues(values)})
		}
	}

	for i := range s.dice {
		if s.dice[i].Kept {
			continue
		}
		if need[s.dice[i].Value] > 0 {
			need[s.dice[i].Value]--
			s.dice[i].Kept = true
		}
	}
	return nil
}

// IsFullClear reports whether every die is kept.
func (s *DiceSet) IsFullClear() bool {
	for _, d := range s.dice {
		if !d.Kept {
			return false
		}
	}
	return true
}

// AvailableValues returns the values of dice not yet kept, in die order.
func (s *DiceSet) AvailableValues() []int {
	values := make([]int, 0, len(s.dice))
	for _, d := range s.dice {
		if !d.Kept {
			values = append(values, d.Value)
		}
	}
	return values
}

// KeptValues returns the values of dice set aside this turn, in die order.
func (s *DiceSet) KeptValues() []int {
	values := make([]int, 0, len(s.dice))
	for _, d := range s.dice {
		if d.Kept {
			values = append(values, d.Value)
		}
	}
	return values
}

// Dice returns a copy of the dice for observation.
func (s *DiceSet) Dice() []Die {
	out := make([]Die, len(s.dice))
	copy(out, s.dice)
	return out
}

// Size returns the number of dice in the set.
func (s *DiceSet) Size() int {
	return len(s.dice)
}

// formatValues renders die values for error metadata, e.g. "2 3 3".
func formatValues(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
