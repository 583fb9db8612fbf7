package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeSelectionEmpty       = "SELECTION_EMPTY"
	CodeSelectionUnavailable = "SELECTION_UNAVAILABLE"
	CodeSelectionNotScoring  = "SELECTION_NOT_SCORING"
	CodeBankNothingAccrued   = "BANK_NOTHING_ACCRUED"
	CodeRollNoDiceAvailable  = "ROLL_NO_DICE_AVAILABLE"
	CodeRerollWithoutKeep    = "REROLL_WITHOUT_KEEP"
	CodeGameOver             = "GAME_OVER"
	CodeTurnAlreadyStarted   = "TURN_ALREADY_STARTED"
	CodeTurnNotStarted       = "TURN_NOT_STARTED"
	CodeNoPlayers            = "NO_PLAYERS"
	CodePlayersLocked        = "PLAYERS_LOCKED"
	CodeRulesMissingPattern  = "RULES_MISSING_PATTERN"
	CodeRulesNegativeScore   = "RULES_NEGATIVE_SCORE"
	CodeRulesInvalidMult     = "RULES_INVALID_MULTIPLIER"
	CodeRulesInvalidDice     = "RULES_INVALID_DICE_COUNT"
	CodeRulesInvalidMaxScore = "RULES_INVALID_MAX_SCORE"
	CodePointsNegative       = "POINTS_NEGATIVE"
	CodePlayerNameEmpty      = "PLAYER_NAME_EMPTY"
	CodePlayerNameTaken      = "PLAYER_NAME_TAKEN"
	CodeDieKept              = "DIE_KEPT"
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnknown              = "UNKNOWN"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Move errors
		CodeSelectionEmpty:       "Select at least one die",
		CodeSelectionUnavailable: "Dice {{.Dice}} are not available to keep",
		CodeSelectionNotScoring:  "Selection {{.Dice}} does not form a scoring combination",
		CodeBankNothingAccrued:   "Nothing to bank yet this turn",
		CodeRollNoDiceAvailable:  "No dice are available to roll",
		CodeRerollWithoutKeep:    "Keep a scoring selection before re-rolling",

		// State errors
		CodeGameOver:           "The game is over; {{.Winner}} has won",
		CodeTurnAlreadyStarted: "A turn is already in progress",
		CodeTurnNotStarted:     "Start the turn before acting",
		CodeNoPlayers:          "At least one player is required",
		CodePlayersLocked:      "Players cannot join after the first turn",

		// Rule errors
		CodeRulesMissingPattern:  "Scoring rule {{.Pattern}} is missing",
		CodeRulesNegativeScore:   "Scoring rule {{.Pattern}} cannot be negative",
		CodeRulesInvalidMult:     "Multiplier {{.Multiplier}} must be at least 2",
		CodeRulesInvalidDice:     "Dice count {{.Count}} must be at least 3",
		CodeRulesInvalidMaxScore: "Winning score must be positive",
		CodePointsNegative:       "Points cannot be negative",
		CodePlayerNameEmpty:      "Player name cannot be empty",
		CodePlayerNameTaken:      "Player {{.Name}} already joined",
		CodeDieKept:              "A kept die cannot be rolled",

		// Storage errors
		CodeNotFound: "The requested resource was not found",

		// Transport errors
		CodeInvalidRequest: "The request could not be understood",
		CodeUnknown:        "Something went wrong",
	},
}
