package models

// NoOpponent — значение teamBId для записей, созданных батч-начислением:
// у них нет второй команды.
const NoOpponent = "none"

// MatchResult — запись журнала начислений. После создания не изменяется;
// журнал только дополняется. Для батч-режима создаётся по одной записи на
// команду с общим timestamp.
type MatchResult struct {
	ID            string  `json:"id"`
	GameID        string  `json:"gameId"`
	TeamAID       string  `json:"teamAId"`
	TeamBID       string  `json:"teamBId"`
	Outcome       Outcome `json:"winnerId"`
	PointsAwarded int     `json:"pointsAwarded"`
	Timestamp     int64   `json:"timestamp"` // миллисекунды epoch
}

// PointAssignment — пара (команда, очки) в батч-начислении.
type PointAssignment struct {
	TeamID string `json:"teamId"`
	Points int    `json:"points"`
}
