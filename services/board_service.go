package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sjgames/scoreboard/live"
	"github.com/sjgames/scoreboard/models"
	"github.com/sjgames/scoreboard/repositories"
)

// BatchDraft — несохранённый черновик батч-начисления: выбранные командами
// очки живут на сервере, чтобы вотчер мог закоммитить их при истечении
// игрового таймера.
type BatchDraft struct {
	GameID  string                   `json:"gameId"`
	Entries []models.PointAssignment `json:"entries"`
}

// ClockFrame — снимок обоих таймеров для отдачи клиентам.
type ClockFrame struct {
	GeneralEndTime   int64  `json:"generalEndTime"`
	GameEndTime      int64  `json:"gameEndTime"`
	GeneralRemaining string `json:"generalRemaining"`
	GameRemaining    string `json:"gameRemaining"`
}

// BoardService — единственный владелец состояния табло: ростер, журнал
// начислений, дедлайны и черновик батча. Все мутации синхронны, проходят
// под одним мьютексом и завершаются best-effort записью снапшота плюс
// рассылкой обновления в комнату табло.
type BoardService struct {
	mu     sync.Mutex
	logger *slog.Logger
	repo   repositories.SnapshotRepository
	hub    *live.Hub
	clock  clockwork.Clock
	scores models.ScoreTable

	games     []models.Game
	gameIndex map[string]models.Game

	teams     []*models.Team
	teamIndex map[string]*models.Team
	matches   []models.MatchResult

	generalEnd time.Time
	gameEnd    time.Time
	// gameClockGen растёт при каждом изменении игрового дедлайна; вотчер
	// по нему сбрасывает флаг "уже сработало".
	gameClockGen uint64

	draft *BatchDraft
}

func NewBoardService(
	logger *slog.Logger,
	repo repositories.SnapshotRepository,
	hub *live.Hub,
	clock clockwork.Clock,
	scores models.ScoreTable,
) *BoardService {
	games := models.DefaultGames()
	gameIndex := make(map[string]models.Game, len(games))
	for _, g := range games {
		gameIndex[g.ID] = g
	}
	return &BoardService{
		logger:    logger,
		repo:      repo,
		hub:       hub,
		clock:     clock,
		scores:    scores,
		games:     games,
		gameIndex: gameIndex,
		teamIndex: make(map[string]*models.Team),
	}
}

// Load восстанавливает состояние из снапшота. Отсутствующие или битые
// ключи подменяются дефолтами; ошибок наружу нет — худший случай это
// чистое табло.
func (s *BoardService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	defaults := repositories.BoardState{
		Teams:      models.DefaultRoster(),
		Matches:    []models.MatchResult{},
		GeneralEnd: now.Add(models.DefaultGeneralCountdown).UnixMilli(),
		GameEnd:    now.Add(models.DefaultGameCountdown).UnixMilli(),
	}
	state := repositories.LoadBoardState(ctx, s.repo, defaults)

	s.teams = state.Teams
	s.teamIndex = make(map[string]*models.Team, len(s.teams))
	for _, t := range s.teams {
		s.teamIndex[t.ID] = t
	}
	s.matches = state.Matches
	s.generalEnd = time.UnixMilli(state.GeneralEnd)
	s.gameEnd = time.UnixMilli(state.GameEnd)

	s.logger.Info("board state loaded",
		slog.Int("teams", len(s.teams)),
		slog.Int("matches", len(s.matches)))
}

// --- Запросы ---

func (s *BoardService) Games() []models.Game {
	out := make([]models.Game, len(s.games))
	copy(out, s.games)
	return out
}

func (s *BoardService) Teams() []models.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teamsLocked()
}

func (s *BoardService) teamsLocked() []models.Team {
	out := make([]models.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, *t)
	}
	return out
}

// Standings возвращает команды по убыванию очков; при равенстве сохраняется
// исходный порядок ростера (стабильная сортировка).
func (s *BoardService) Standings() []models.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.standingsLocked()
}

func (s *BoardService) standingsLocked() []models.Team {
	out := s.teamsLocked()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}

func (s *BoardService) History() []models.MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MatchResult, len(s.matches))
	copy(out, s.matches)
	return out
}

// --- Мутации журнала ---

// RecordMatch применяет результат матча двух команд: ровно одна запись в
// журнале; при победе очки получает только победитель, при ничьей — обе
// команды по таблице начислений.
func (s *BoardService) RecordMatch(ctx context.Context, gameID, teamAID, teamBID string, outcome models.Outcome) (models.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.gameIndex[gameID]
	if !ok {
		return models.MatchResult{}, ErrGameNotFound
	}
	if game.Mode != models.GameModeVersus {
		return models.MatchResult{}, ErrGameModeMismatch
	}
	if err := ValidateVersus(teamAID, teamBID, outcome); err != nil {
		return models.MatchResult{}, err
	}
	teamA, ok := s.teamIndex[teamAID]
	if !ok {
		return models.MatchResult{}, ErrTeamNotFound
	}
	teamB, ok := s.teamIndex[teamBID]
	if !ok {
		return models.MatchResult{}, ErrTeamNotFound
	}

	award := s.scores.Award(outcome)
	entry := models.MatchResult{
		ID:            uuid.NewString(),
		GameID:        gameID,
		TeamAID:       teamAID,
		TeamBID:       teamBID,
		Outcome:       outcome,
		PointsAwarded: award,
		Timestamp:     s.clock.Now().UnixMilli(),
	}

	if outcome.IsDraw() {
		teamA.Points += award
		teamB.Points += award
	} else if winnerID, ok := outcome.Winner(); ok {
		s.teamIndex[winnerID].Points += award
	}
	s.matches = append(s.matches, entry)

	s.flushLocked(ctx)
	s.broadcastStandingsLocked()
	return entry, nil
}

// RecordBatch применяет батч-начисление: по одной записи журнала на команду
// с общим timestamp. Всё или ничего — любая невалидная пара отклоняет весь
// батч без изменения состояния. Лимит в три команды — правило этого входа;
// само хранилище числового лимита не имеет.
func (s *BoardService) RecordBatch(ctx context.Context, gameID string, assignments []models.PointAssignment) ([]models.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ValidateBatch(assignments); err != nil {
		return nil, err
	}
	return s.recordBatchLocked(ctx, gameID, assignments)
}

// recordBatchLocked — запись батча любого размера. Проверяет только
// контракт хранилища: игра существует и батч-режимная, команды существуют,
// без дублей и пустых слотов.
func (s *BoardService) recordBatchLocked(ctx context.Context, gameID string, assignments []models.PointAssignment) ([]models.MatchResult, error) {
	game, ok := s.gameIndex[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	if game.Mode != models.GameModeBatch {
		return nil, ErrGameModeMismatch
	}
	seen := make(map[string]bool, len(assignments))
	for _, pa := range assignments {
		if pa.TeamID == "" {
			return nil, ErrTeamSlotEmpty
		}
		if seen[pa.TeamID] {
			return nil, ErrDuplicateTeam
		}
		seen[pa.TeamID] = true
		if _, ok := s.teamIndex[pa.TeamID]; !ok {
			return nil, ErrTeamNotFound
		}
	}

	timestamp := s.clock.Now().UnixMilli()
	entries := make([]models.MatchResult, 0, len(assignments))
	for _, pa := range assignments {
		entries = append(entries, models.MatchResult{
			ID:            uuid.NewString(),
			GameID:        gameID,
			TeamAID:       pa.TeamID,
			TeamBID:       models.NoOpponent,
			Outcome:       models.Win(pa.TeamID),
			PointsAwarded: pa.Points,
			Timestamp:     timestamp,
		})
		s.teamIndex[pa.TeamID].Points += pa.Points
	}
	s.matches = append(s.matches, entries...)

	s.flushLocked(ctx)
	s.broadcastStandingsLocked()
	return entries, nil
}

// --- Черновик батча ---

// SetDraft заменяет черновик батч-начисления. До трёх команд, все
// существующие и уникальные; игра обязана быть батч-режимной.
func (s *BoardService) SetDraft(gameID string, entries []models.PointAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.gameIndex[gameID]
	if !ok {
		return ErrGameNotFound
	}
	if game.Mode != models.GameModeBatch {
		return ErrGameModeMismatch
	}
	if len(entries) > BatchTeamCount {
		return ErrDraftTooManyTeams
	}
	seen := make(map[string]bool, len(entries))
	for _, pa := range entries {
		if _, ok := s.teamIndex[pa.TeamID]; !ok {
			return ErrTeamNotFound
		}
		if seen[pa.TeamID] {
			return ErrDuplicateTeam
		}
		seen[pa.TeamID] = true
	}

	draft := BatchDraft{GameID: gameID, Entries: make([]models.PointAssignment, len(entries))}
	copy(draft.Entries, entries)
	s.draft = &draft
	return nil
}

func (s *BoardService) Draft() (BatchDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return BatchDraft{}, false
	}
	out := BatchDraft{GameID: s.draft.GameID, Entries: make([]models.PointAssignment, len(s.draft.Entries))}
	copy(out.Entries, s.draft.Entries)
	return out, true
}

func (s *BoardService) ClearDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

// CommitDraft коммитит черновик как обычный батч. Черновик очищается
// только при успехе: при ошибке валидации оператор может поправить данные.
func (s *BoardService) CommitDraft(ctx context.Context) ([]models.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return nil, ErrDraftEmpty
	}
	if len(s.draft.Entries) != BatchTeamCount {
		return nil, ErrDraftNotReady
	}
	entries, err := s.recordBatchLocked(ctx, s.draft.GameID, s.draft.Entries)
	if err != nil {
		return nil, err
	}
	s.draft = nil
	return entries, nil
}

// AutoCommitDraft — вариант для вотчера: отсутствие полного черновика не
// ошибка, просто нечего сохранять.
func (s *BoardService) AutoCommitDraft(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil || len(s.draft.Entries) != BatchTeamCount {
		return false, nil
	}
	if _, err := s.recordBatchLocked(ctx, s.draft.GameID, s.draft.Entries); err != nil {
		return false, err
	}
	s.draft = nil
	return true, nil
}

// --- Таймеры ---

func (s *BoardService) Deadline(kind models.ClockKind) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadlineLocked(kind)
}

func (s *BoardService) deadlineLocked(kind models.ClockKind) time.Time {
	if kind == models.ClockGeneral {
		return s.generalEnd
	}
	return s.gameEnd
}

// SetDeadline ставит абсолютный дедлайн. Валидации нет намеренно: дедлайн
// в прошлом — легальный сигнал сброса.
func (s *BoardService) SetDeadline(ctx context.Context, kind models.ClockKind, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDeadlineLocked(ctx, kind, deadline)
}

func (s *BoardService) setDeadlineLocked(ctx context.Context, kind models.ClockKind, deadline time.Time) {
	if kind == models.ClockGeneral {
		s.generalEnd = deadline
	} else {
		s.gameEnd = deadline
		s.gameClockGen++
	}
	s.flushLocked(ctx)
	s.hubBroadcast(live.MessageClockTick, s.clockFrameLocked())
}

// ExtendDeadline сдвигает текущий дедлайн на delta (может быть
// отрицательной) и возвращает новое значение.
func (s *BoardService) ExtendDeadline(ctx context.Context, kind models.ClockKind, delta time.Duration) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.deadlineLocked(kind).Add(delta)
	s.setDeadlineLocked(ctx, kind, next)
	return next
}

// ResetDeadline обнуляет оставшееся время (дедлайн = сейчас).
func (s *BoardService) ResetDeadline(ctx context.Context, kind models.ClockKind) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	s.setDeadlineLocked(ctx, kind, now)
	return now
}

func (s *BoardService) GameClockGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameClockGen
}

func (s *BoardService) ClockFrame() ClockFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clockFrameLocked()
}

func (s *BoardService) clockFrameLocked() ClockFrame {
	now := s.clock.Now()
	return ClockFrame{
		GeneralEndTime:   s.generalEnd.UnixMilli(),
		GameEndTime:      s.gameEnd.UnixMilli(),
		GeneralRemaining: FormatClock(Remaining(s.generalEnd, now)),
		GameRemaining:    FormatClock(Remaining(s.gameEnd, now)),
	}
}

// BroadcastClocks рассылает текущее состояние таймеров; дергается вотчером
// раз в секунду.
func (s *BoardService) BroadcastClocks() {
	s.hubBroadcast(live.MessageClockTick, s.ClockFrame())
}

// --- Снапшоты ---

func (s *BoardService) stateLocked() repositories.BoardState {
	teams := make([]*models.Team, len(s.teams))
	copy(teams, s.teams)
	matches := make([]models.MatchResult, len(s.matches))
	copy(matches, s.matches)
	return repositories.BoardState{
		Teams:      teams,
		Matches:    matches,
		GeneralEnd: s.generalEnd.UnixMilli(),
		GameEnd:    s.gameEnd.UnixMilli(),
	}
}

// flushLocked — синхронная best-effort запись снапшота после каждой
// мутации. Ошибка записи логируется и глотается: состояние остаётся в
// памяти до конца сессии.
func (s *BoardService) flushLocked(ctx context.Context) {
	if err := repositories.SaveBoardState(ctx, s.repo, s.stateLocked()); err != nil {
		s.logger.Warn("failed to persist board snapshot", slog.Any("error", err))
	}
}

// ExportSnapshot сериализует полное состояние для зеркалирования во
// внешнее хранилище. Маршалинг идёт под мьютексом: stateLocked копирует
// только слайсы, сами *Team разделяются с мутациями.
func (s *BoardService) ExportSnapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.stateLocked())
}

func (s *BoardService) broadcastStandingsLocked() {
	s.hubBroadcast(live.MessageStandingsUpdated, s.standingsLocked())
}

func (s *BoardService) hubBroadcast(messageType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(live.RoomScoreboard, live.Message{Type: messageType, Payload: payload})
}
