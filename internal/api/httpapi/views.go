package httpapi

import (
	"time"

	"github.com/louisbranch/farkle-engine/internal/farkle"
	"github.com/louisbranch/farkle-engine/internal/farkle/service"
	"github.com/louisbranch/farkle-engine/internal/storage"
)

type dieView struct {
	Value int  `json:"value"`
	Kept  bool `json:"kept"`
}

type playerView struct {
	Name       string `json:"name"`
	TurnScore  int    `json:"turn_score"`
	TotalScore int    `json:"total_score"`
}

type combinationView struct {
	Pattern string `json:"pattern"`
	Values  []int  `json:"values"`
	Score   int    `json:"score"`
}

type snapshotView struct {
	Phase     string            `json:"phase"`
	RuleSet   string            `json:"rule_set"`
	MaxScore  int               `json:"max_score"`
	Players   []playerView      `json:"players"`
	Current   int               `json:"current"`
	Dice      []dieView         `json:"dice"`
	Available []int             `json:"available"`
	Offerings []combinationView `json:"offerings"`
	Actions   []string          `json:"actions"`
	Winner    string            `json:"winner,omitempty"`
}

type matchView struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Snapshot  snapshotView `json:"snapshot"`
}

type rollOutcomeView struct {
	Player     string `json:"player"`
	Rolled     []int  `json:"rolled"`
	Busted     bool   `json:"busted"`
	TurnEnded  bool   `json:"turn_ended"`
	NextPlayer string `json:"next_player,omitempty"`
}

type keepOutcomeView struct {
	Player     string `json:"player"`
	Points     int    `json:"points"`
	TurnScore  int    `json:"turn_score"`
	FullClear  bool   `json:"full_clear"`
	Rolled     []int  `json:"rolled,omitempty"`
	Busted     bool   `json:"busted"`
	TurnEnded  bool   `json:"turn_ended"`
	NextPlayer string `json:"next_player,omitempty"`
}

type bankOutcomeView struct {
	Player     string `json:"player"`
	Banked     int    `json:"banked"`
	Total      int    `json:"total"`
	Won        bool   `json:"won"`
	NextPlayer string `json:"next_player,omitempty"`
}

type rollView struct {
	MatchID  string          `json:"match_id"`
	Outcome  rollOutcomeView `json:"outcome"`
	Snapshot snapshotView    `json:"snapshot"`
}

type keepView struct {
	MatchID  string          `json:"match_id"`
	Outcome  keepOutcomeView `json:"outcome"`
	Snapshot snapshotView    `json:"snapshot"`
}

type bankView struct {
	MatchID  string          `json:"match_id"`
	Outcome  bankOutcomeView `json:"outcome"`
	Snapshot snapshotView    `json:"snapshot"`
}

type leaderboardEntryView struct {
	MatchID    string    `json:"match_id"`
	Winner     string    `json:"winner"`
	Score      int       `json:"score"`
	RuleSet    string    `json:"rule_set"`
	FinishedAt time.Time `json:"finished_at"`
}

type leaderboardView struct {
	Entries []leaderboardEntryView `json:"entries"`
}

type playerResultView struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type archivedMatchView struct {
	ID           string             `json:"id"`
	RuleSet      string             `json:"rule_set"`
	Winner       string             `json:"winner"`
	WinningScore int                `json:"winning_score"`
	Turns        int                `json:"turns"`
	Players      []playerResultView `json:"players"`
	CreatedAt    time.Time          `json:"created_at"`
	FinishedAt   time.Time          `json:"finished_at"`
}

func snapshotToView(snap farkle.Snapshot) snapshotView {
	players := make([]playerView, len(snap.Players))
	for i, p := range snap.Players {
		players[i] = playerView{Name: p.Name, TurnScore: p.TurnScore, TotalScore: p.TotalScore}
	}
	dice := make([]dieView, len(snap.Dice))
	for i, d := range snap.Dice {
		dice[i] = dieView{Value: d.Value, Kept: d.Kept}
	}
	offerings := make([]combinationView, len(snap.Offerings))
	for i, combo := range snap.Offerings {
		offerings[i] = combinationView{Pattern: string(combo.Pattern), Values: combo.Values, Score: combo.Score}
	}
	actions := make([]string, len(snap.Actions))
	for i, action := range snap.Actions {
		actions[i] = string(action)
	}
	return snapshotView{
		Phase:     string(snap.Phase),
		RuleSet:   snap.RuleSet,
		MaxScore:  snap.MaxScore,
		Players:   players,
		Current:   snap.Current,
		Dice:      dice,
		Available: snap.Available,
		Offerings: offerings,
		Actions:   actions,
		Winner:    snap.Winner,
	}
}

func matchToView(state service.MatchState) matchView {
	return matchView{ID: state.ID, CreatedAt: state.CreatedAt, Snapshot: snapshotToView(state.Snapshot)}
}

func rollToView(result service.TurnResult) rollView {
	return rollView{
		MatchID: result.MatchID,
		Outcome: rollOutcomeView{
			Player:     result.Outcome.Player,
			Rolled:     result.Outcome.Rolled,
			Busted:     result.Outcome.Busted,
			TurnEnded:  result.Outcome.TurnEnded,
			NextPlayer: result.Outcome.NextPlayer,
		},
		Snapshot: snapshotToView(result.Snapshot),
	}
}

func keepToView(result service.KeepResult) keepView {
	return keepView{
		MatchID: result.MatchID,
		Outcome: keepOutcomeView{
			Player:     result.Outcome.Player,
			Points:     result.Outcome.Points,
			TurnScore:  result.Outcome.TurnScore,
			FullClear:  result.Outcome.FullClear,
			Rolled:     result.Outcome.Rolled,
			Busted:     result.Outcome.Busted,
			TurnEnded:  result.Outcome.TurnEnded,
			NextPlayer: result.Outcome.NextPlayer,
		},
		Snapshot: snapshotToView(result.Snapshot),
	}
}

func bankToView(result service.BankResult) bankView {
	return bankView{
		MatchID: result.MatchID,
		Outcome: bankOutcomeView{
			Player:     result.Outcome.Player,
			Banked:     result.Outcome.Banked,
			Total:      result.Outcome.Total,
			Won:        result.Outcome.Won,
			NextPlayer: result.Outcome.NextPlayer,
		},
		Snapshot: snapshotToView(result.Snapshot),
	}
}

func leaderboardToView(entries []storage.LeaderboardEntry) leaderboardView {
	views := make([]leaderboardEntryView, len(entries))
	for i, entry := range entries {
		views[i] = leaderboardEntryView{
			MatchID:    entry.MatchID,
			Winner:     entry.Winner,
			Score:      entry.Score,
			RuleSet:    entry.RuleSet,
			FinishedAt: entry.FinishedAt,
		}
	}
	return leaderboardView{Entries: views}
}

func archivedMatchToView(match storage.FinishedMatch) archivedMatchView {
	players := make([]playerResultView, len(match.Players))
	for i, player := range match.Players {
		players[i] = playerResultView{Name: player.Name, Score: player.Score}
	}
	return archivedMatchView{
		ID:           match.ID,
		RuleSet:      match.RuleSet,
		Winner:       match.Winner,
		WinningScore: match.WinningScore,
		Turns:        match.Turns,
		Players:      players,
		CreatedAt:    match.CreatedAt,
		FinishedAt:   match.FinishedAt,
	}
}
