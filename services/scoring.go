package services

import "github.com/sjgames/scoreboard/models"

// BatchTeamCount — сколько команд участвует в одном батч-начислении.
// Ограничение слоя правил: само хранилище числового лимита не имеет.
const BatchTeamCount = 3

// ValidateVersus проверяет заявку на результат матча до обращения к
// хранилищу: обе команды выбраны, не совпадают, исход объявлен и
// принадлежит паре. Существование команд проверяет хранилище.
func ValidateVersus(teamAID, teamBID string, outcome models.Outcome) error {
	if teamAID == "" || teamBID == "" {
		return ErrTeamSlotEmpty
	}
	if teamAID == teamBID {
		return ErrSameTeam
	}
	if outcome.IsZero() {
		return ErrOutcomeRequired
	}
	if winnerID, ok := outcome.Winner(); ok && winnerID != teamAID && winnerID != teamBID {
		return ErrOutcomeNotInMatch
	}
	return nil
}

// ValidateBatch проверяет батч-заявку: ровно BatchTeamCount пар с
// уникальными командами. Значения очков задаёт оператор, ограничений нет.
func ValidateBatch(assignments []models.PointAssignment) error {
	if len(assignments) != BatchTeamCount {
		return ErrBatchSize
	}
	seen := make(map[string]bool, len(assignments))
	for _, pa := range assignments {
		if pa.TeamID == "" {
			return ErrTeamSlotEmpty
		}
		if seen[pa.TeamID] {
			return ErrDuplicateTeam
		}
		seen[pa.TeamID] = true
	}
	return nil
}
