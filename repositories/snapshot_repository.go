package repositories

import (
	"context"
	"errors"
)

// Ключи снапшота. Набор фиксирован: четыре независимых значения,
// совместимых с исходным локальным хранилищем табло.
const (
	KeyTeams        = "sj_games_teams"
	KeyMatches      = "sj_games_matches"
	KeyGeneralTimer = "sj_games_general_timer"
	KeyGameTimer    = "sj_games_game_timer"
)

var ErrSnapshotKeyNotFound = errors.New("snapshot key not found")

// SnapshotRepository — key-value хранилище состояния табло.
// Схем версионирования и миграций нет: отсутствующее или битое значение
// читатель заменяет дефолтом.
type SnapshotRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
