package i18n

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		// Move errors
		CodeSelectionEmpty:       "Selecione pelo menos um dado",
		CodeSelectionUnavailable: "Os dados {{.Dice}} não estão disponíveis",
		CodeSelectionNotScoring:  "A seleção {{.Dice}} não forma uma combinação que pontua",
		CodeBankNothingAccrued:   "Nada para guardar nesta rodada",
		CodeRollNoDiceAvailable:  "Nenhum dado disponível para rolar",
		CodeRerollWithoutKeep:    "Reserve uma combinação antes de rolar novamente",

		// State errors
		CodeGameOver:           "O jogo terminou; {{.Winner}} venceu",
		CodeTurnAlreadyStarted: "Já existe uma rodada em andamento",
		CodeTurnNotStarted:     "Inicie a rodada antes de agir",
		CodeNoPlayers:          "É necessário pelo menos um jogador",
		CodePlayersLocked:      "Jogadores não podem entrar após a primeira rodada",

		// Rule errors
		CodeRulesMissingPattern:  "A regra de pontuação {{.Pattern}} está ausente",
		CodeRulesNegativeScore:   "A regra de pontuação {{.Pattern}} não pode ser negativa",
		CodeRulesInvalidMult:     "O multiplicador {{.Multiplier}} deve ser pelo menos 2",
		CodeRulesInvalidDice:     "A quantidade de dados {{.Count}} deve ser pelo menos 3",
		CodeRulesInvalidMaxScore: "A pontuação para vencer deve ser positiva",
		CodePointsNegative:       "Pontos não podem ser negativos",
		CodePlayerNameEmpty:      "O nome do jogador não pode ser vazio",
		CodePlayerNameTaken:      "O jogador {{.Name}} já entrou",
		CodeDieKept:              "Um dado reservado não pode ser rolado",

		// Storage errors
		CodeNotFound: "O recurso solicitado não foi encontrado",

		// Transport errors
		CodeInvalidRequest: "Não foi possível entender a requisição",
		CodeUnknown:        "Algo deu errado",
	},
}
