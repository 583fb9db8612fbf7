package farkle

// DieView is a read-only copy of one die.
type DieView struct {
	Value int
	Kept  bool
}

// PlayerView is a read-only copy of one player's scores.
type PlayerView struct {
	Name       string
	TurnScore  int
	TotalScore int
}

// Snapshot is a read-only view of the whole game for presentation.
// Mutating a snapshot never affects engine state.
type Snapshot struct {
	Phase    Phase
	RuleSet  string
	MaxScore int
	Players  []PlayerView
	// Current indexes the acting player in Players, -1 before anyone joins.
	Current   int
	Dice      []DieView
	Available []int
	Offerings []Combination
	Actions   []Action
	Winner    string
}

// Snapshot captures the current game state.
func (g *Game) Snapshot() Snapshot {
	players := make([]PlayerView, len(g.players))
	for i, p := range g.players {
		players[i] = PlayerView{
			Name:       p.Name(),
			TurnScore:  p.TurnScore(),
			TotalScore: p.TotalScore(),
		}
	}

	dice := g.dice.Dice()
	views := make([]DieView, len(dice))
	for i, d := range dice {
		views[i] = DieView{Value: d.Value, Kept: d.Kept}
	}

	current := g.current
	if len(g.players) == 0 {
		current = -1
	}

	return Snapshot{
		Phase:     g.phase,
		RuleSet:   g.rules.Name,
		MaxScore:  g.rules.MaxScore,
		Players:   players,
		Current:   current,
		Dice:      views,
		Available: g.dice.AvailableValues(),
		Offerings: g.Offerings(),
		Actions:   g.AvailableActions(),
		Winner:    g.winner,
	}
}
