// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Move errors: the game state is legal but the player action is not.
	CodeSelectionEmpty       Code = "SELECTION_EMPTY"
	CodeSelectionUnavailable Code = "SELECTION_UNAVAILABLE"
	CodeSelectionNotScoring  Code = "SELECTION_NOT_SCORING"
	CodeBankNothingAccrued   Code = "BANK_NOTHING_ACCRUED"
	CodeRollNoDiceAvailable  Code = "ROLL_NO_DICE_AVAILABLE"
	CodeRerollWithoutKeep    Code = "REROLL_WITHOUT_KEEP"

	// State errors: the action is aimed against the state machine topology.
	CodeGameOver           Code = "GAME_OVER"
	CodeTurnAlreadyStarted Code = "TURN_ALREADY_STARTED"
	CodeTurnNotStarted     Code = "TURN_NOT_STARTED"
	CodeNoPlayers          Code = "NO_PLAYERS"
	CodePlayersLocked      Code = "PLAYERS_LOCKED"

	// Rule errors: malformed or out-of-domain configuration and input.
	CodeRulesMissingPattern    Code = "RULES_MISSING_PATTERN"
	CodeRulesNegativeScore     Code = "RULES_NEGATIVE_SCORE"
	CodeRulesInvalidMultiplier Code = "RULES_INVALID_MULTIPLIER"
	CodeRulesInvalidDiceCount  Code = "RULES_INVALID_DICE_COUNT"
	CodeRulesInvalidMaxScore   Code = "RULES_INVALID_MAX_SCORE"
	CodePointsNegative         Code = "POINTS_NEGATIVE"
	CodePlayerNameEmpty        Code = "PLAYER_NAME_EMPTY"
	CodePlayerNameTaken        Code = "PLAYER_NAME_TAKEN"
	CodeDieKept                Code = "DIE_KEPT"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Transport errors
	CodeInvalidRequest Code = "INVALID_REQUEST"
)

// Kind groups codes into the engine's error taxonomy. A move error is
// recoverable and rejected before any mutation; a rule error signals a
// caller bug in configuration or input; a state error signals an action
// the state machine topology does not allow.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidMove
	KindGameRule
	KindGameState
	KindNotFound
)

// Kind returns the taxonomy kind for the code.
func (c Code) Kind() Kind {
	switch c {
	case CodeSelectionEmpty,
		CodeSelectionUnavailable,
		CodeSelectionNotScoring,
		CodeBankNothingAccrued,
		CodeRollNoDiceAvailable,
		CodeRerollWithoutKeep:
		return KindInvalidMove

	case CodeGameOver,
		CodeTurnAlreadyStarted,
		CodeTurnNotStarted,
		CodeNoPlayers,
		CodePlayersLocked:
		return KindGameState

	case CodeRulesMissingPattern,
		CodeRulesNegativeScore,
		CodeRulesInvalidMultiplier,
		CodeRulesInvalidDiceCount,
		CodeRulesInvalidMaxScore,
		CodePointsNegative,
		CodePlayerNameEmpty,
		CodePlayerNameTaken,
		CodeDieKept,
		CodeInvalidRequest:
		return KindGameRule

	case CodeNotFound:
		return KindNotFound

	default:
		return KindUnknown
	}
}

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c.Kind() {
	case KindInvalidMove:
		return http.StatusUnprocessableEntity
	case KindGameRule:
		return http.StatusBadRequest
	case KindGameState:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
