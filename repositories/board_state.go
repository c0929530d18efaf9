package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sjgames/scoreboard/models"
)

// BoardState — сериализуемое состояние табло: ростер, журнал матчей и два
// абсолютных дедлайна (миллисекунды epoch, в хранилище — строка с числом).
type BoardState struct {
	Teams      []*models.Team       `json:"teams"`
	Matches    []models.MatchResult `json:"matches"`
	GeneralEnd int64                `json:"generalEndTime"`
	GameEnd    int64                `json:"gameEndTime"`
}

// LoadBoardState читает все четыре ключа. Ключи независимы: отсутствие или
// нечитаемость любого из них подменяется соответствующим полем defaults,
// остальные загружаются как есть. Ошибкой считается только недоступность
// самого хранилища — и даже её вызывающий код глотает.
func LoadBoardState(ctx context.Context, repo SnapshotRepository, defaults BoardState) BoardState {
	state := defaults

	if raw, err := repo.Get(ctx, KeyTeams); err == nil {
		var teams []*models.Team
		if jsonErr := json.Unmarshal([]byte(raw), &teams); jsonErr == nil && len(teams) > 0 {
			state.Teams = teams
		}
	}

	if raw, err := repo.Get(ctx, KeyMatches); err == nil {
		var matches []models.MatchResult
		if jsonErr := json.Unmarshal([]byte(raw), &matches); jsonErr == nil {
			state.Matches = matches
		}
	}

	if raw, err := repo.Get(ctx, KeyGeneralTimer); err == nil {
		if ms, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			state.GeneralEnd = ms
		}
	}

	if raw, err := repo.Get(ctx, KeyGameTimer); err == nil {
		if ms, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			state.GameEnd = ms
		}
	}

	return state
}

// SaveBoardState пишет все четыре ключа. Возвращает первую ошибку записи:
// вызывающий код логирует её и продолжает работу — состояние остаётся
// в памяти до конца сессии.
func SaveBoardState(ctx context.Context, repo SnapshotRepository, state BoardState) error {
	teams, err := json.Marshal(state.Teams)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	matches, err := json.Marshal(state.Matches)
	if err != nil {
		return fmt.Errorf("failed to encode match history: %w", err)
	}

	if err := repo.Set(ctx, KeyTeams, string(teams)); err != nil {
		return err
	}
	if err := repo.Set(ctx, KeyMatches, string(matches)); err != nil {
		return err
	}
	if err := repo.Set(ctx, KeyGeneralTimer, strconv.FormatInt(state.GeneralEnd, 10)); err != nil {
		return err
	}
	return repo.Set(ctx, KeyGameTimer, strconv.FormatInt(state.GameEnd, 10))
}
