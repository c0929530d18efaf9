package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjgames/scoreboard/models"
	"github.com/sjgames/scoreboard/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBoard(t *testing.T) (*BoardService, *clockwork.FakeClock, repositories.SnapshotRepository) {
	t.Helper()
	clk := clockwork.NewFakeClock()
	repo := repositories.NewMemorySnapshotRepository()
	board := NewBoardService(testLogger(), repo, nil, clk, models.DefaultScoreTable())
	board.Load(context.Background())
	return board, clk, repo
}

func teamPoints(t *testing.T, board *BoardService, teamID string) int {
	t.Helper()
	for _, team := range board.Teams() {
		if team.ID == teamID {
			return team.Points
		}
	}
	t.Fatalf("team %s not in roster", teamID)
	return 0
}

func TestRecordMatchWin(t *testing.T) {
	board, _, _ := newTestBoard(t)
	ctx := context.Background()

	entry, err := board.RecordMatch(ctx, "2", "team-1", "team-2", models.Win("team-1"))
	require.NoError(t, err)

	assert.Equal(t, 3, entry.PointsAwarded)
	assert.Equal(t, 3, teamPoints(t, board, "team-1"))
	assert.Equal(t, 0, teamPoints(t, board, "team-2"))

	history := board.History()
	require.Len(t, history, 1)
	winnerID, ok := history[0].Outcome.Winner()
	require.True(t, ok)
	assert.Equal(t, "team-1", winnerID)
}

func TestRecordMatchDraw(t *testing.T) {
	board, _, _ := newTestBoard(t)
	ctx := context.Background()

	entry, err := board.RecordMatch(ctx, "3", "team-1", "team-2", models.Draw())
	require.NoError(t, err)

	assert.Equal(t, 1, entry.PointsAwarded)
	assert.Equal(t, 1, teamPoints(t, board, "team-1"))
	assert.Equal(t, 1, teamPoints(t, board, "team-2"))
	assert.True(t, entry.Outcome.IsDraw())
	require.Len(t, board.History(), 1)
}

func TestRecordMatchRejectsInvalidSubmissions(t *testing.T) {
	board, _, _ := newTestBoard(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		gameID  string
		teamA   string
		teamB   string
		outcome models.Outcome
		wantErr error
	}{
		{name: "self match", gameID: "2", teamA: "team-1", teamB: "team-1", outcome: models.Win("team-1"), wantErr: ErrSameTeam},
		{name: "unknown game", gameID: "99", teamA: "team-1", teamB: "team-2", outcome: models.Win("team-1"), wantErr: ErrGameNotFound},
		{name: "batch game refuses versus", gameID: "1", teamA: "team-1", teamB: "team-2", outcome: models.Win("team-1"), wantErr: ErrGameModeMismatch},
		{name: "unknown team", gameID: "2", teamA: "team-1", teamB: "team-99", outcome: models.Win("team-1"), wantErr: ErrTeamNotFound},
		{name: "no outcome", gameID: "2", teamA: "team-1", teamB: "team-2", outcome: models.Outcome{}, wantErr: ErrOutcomeRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := board.RecordMatch(ctx, tt.gameID, tt.teamA, tt.teamB, tt.outcome)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Ни одна отклонённая заявка не изменила состояние.
	assert.Empty(t, board.History())
	for _, team := range board.Teams() {
		assert.Zero(t, team.Points)
	}
}

func TestRecordBatchAppliesIndependentPoints(t *testing.T) {
	board, _, _ := newTestBoard(t)
	ctx := context.Background()

	entries, err := board.RecordBatch(ctx, "1", []models.PointAssignment{
		{TeamID: "team-1", Points: 5},
		{TeamID: "team-2", Points: 0},
		{TeamID: "team-3", Points: 2},
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 5, teamPoints(t, board, "team-1"))
	assert.Equal(t, 0, teamPoints(t, board, "team-2"))
	assert.Equal(t, 2, teamPoints(t, board, "team-3"))

	// Одна запись журнала на команду, общий timestamp.
	history := board.History()
	require.Len(t, history, 3)
	for _, entry := range history {
		assert.Equal(t, history[0].Timestamp, entry.Timestamp)
		assert.Equal(t, models.NoOpponent, entry.TeamBID)
	}
}

func TestRecordBatchAllOrNothing(t *testing.T) {
	board, _, _ := newTestBoard(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		assignments []models.PointAssignment
		wantErr     error
	}{
		{
			name: "two teams",
			assignments: []models.PointAssignment{
				{TeamID: "team-1", Points: 1}, {TeamID: "team-2", Points: 2},
			},
			wantErr: ErrBatchSize,
		},
		{
			name: "four teams",
			assignments: []models.PointAssignment{
				{TeamID: "team-1"}, {TeamID: "team-2"}, {TeamID: "team-3"}, {TeamID: "team-4"},
			},
			wantErr: ErrBatchSize,
		},
		{
			name: "unknown team rejects whole batch",
			assignments: []models.PointAssignment{
				{TeamID: "team-1", Points: 4}, {TeamID: "team-2", Points: 4}, {TeamID: "team-99", Points: 4},
			},
			wantErr: ErrTeamNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := board.RecordBatch(ctx, "1", tt.assignments)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, board.History())
			for _, team := range board.Teams() {
				assert.Zero(t, team.Points)
			}
		})
	}
}

// Экспорт снапшота (зеркало в R2) идёт из отдельной горутины параллельно
// мутациям; корректность синхронизации проверяет детектор гонок.
func TestExportSnapshotConcurrentWithMutations(t *testing.T) {
	board, _, _ := newTestBoard(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, err := board.ExportSnapshot(); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	for i := 0; i < 200; i++ {
		_, err := board.RecordMatch(ctx, "2", "team-1", "team-2", models.Win("team-1"))
		require.NoError(t, err)
	}
	wg.Wait()

	data, err := board.ExportSnapshot()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"team-1"`)
}

// Численный лимит батча живёт во входных точках (ValidateBatch и правила
// черновика), а не в самом хранилище.
func TestBatchSizeLimitIsNotStoreLevel(t *testing.T) {
	board, _, _ := newTestBoard(t)
	ctx := context.Background()

	board.mu.Lock()
	entries, err := board.recordBatchLocked(ctx, "1", []models.PointAssignment{
		{TeamID: "team-1", Points: 1},
		{TeamID: "team-2", Points: 2},
		{TeamID: "team-3", Points: 3},
		{TeamID: "team-4", Points: 4},
	})
	board.mu.Unlock()

	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.Equal(t, 4, teamPoints(t, board, "team-4"))

	// Публичный вход по-прежнему требует ровно три команды.
	_, err = board.RecordBatch(ctx, "1", []models.PointAssignment{
		{TeamID: "team-5", Points: 1}, {TeamID: "team-6", Points: 2},
	})
	require.ErrorIs(t, err, ErrBatchSize)
}

func TestStandingsStableOnTies(t *testing.T) {
	board, _, _ := newTestBoard(t)
	ctx := context.Background()

	// team-3 получает очки, team-1 и team-2 остаются на нуле.
	_, err := board.RecordBatch(ctx, "1", []models.PointAssignment{
		{TeamID: "team-3", Points: 5},
		{TeamID: "team-1", Points: 0},
		{TeamID: "team-2", Points: 0},
	})
	require.NoError(t, err)

	standings := board.Standings()
	require.Len(t, standings, 15)
	assert.Equal(t, "team-3", standings[0].ID)
	// Равные очки — исходный порядок ростера.
	assert.Equal(t, "team-1", standings[1].ID)
	assert.Equal(t, "team-2", standings[2].ID)
}

func TestStandingsIsPermutationOfRoster(t *testing.T) {
	board, _, _ := newTestBoard(t)
	ctx := context.Background()

	_, err := board.RecordMatch(ctx, "2", "team-5", "team-9", models.Win("team-9"))
	require.NoError(t, err)

	standings := board.Standings()
	seen := make(map[string]bool, len(standings))
	for _, team := range standings {
		seen[team.ID] = true
	}
	assert.Len(t, seen, 15)
	assert.Equal(t, "team-9", standings[0].ID)
}

func TestDraftLifecycle(t *testing.T) {
	board, _, _ := newTestBoard(t)
	ctx := context.Background()

	_, ok := board.Draft()
	assert.False(t, ok)

	// Частичный выбор допустим, коммит — нет.
	require.NoError(t, board.SetDraft("1", []models.PointAssignment{{TeamID: "team-1", Points: 2}}))
	_, err := board.CommitDraft(ctx)
	require.ErrorIs(t, err, ErrDraftNotReady)

	require.NoError(t, board.SetDraft("1", []models.PointAssignment{
		{TeamID: "team-1", Points: 2},
		{TeamID: "team-2", Points: 1},
		{TeamID: "team-3", Points: 0},
	}))

	entries, err := board.CommitDraft(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, 2, teamPoints(t, board, "team-1"))

	// Черновик очищен, повторный коммит невозможен.
	_, ok = board.Draft()
	assert.False(t, ok)
	_, err = board.CommitDraft(ctx)
	require.ErrorIs(t, err, ErrDraftEmpty)
}

func TestSetDraftValidation(t *testing.T) {
	board, _, _ := newTestBoard(t)

	assert.ErrorIs(t, board.SetDraft("2", nil), ErrGameModeMismatch)
	assert.ErrorIs(t, board.SetDraft("99", nil), ErrGameNotFound)
	assert.ErrorIs(t, board.SetDraft("1", []models.PointAssignment{
		{TeamID: "team-1"}, {TeamID: "team-2"}, {TeamID: "team-3"}, {TeamID: "team-4"},
	}), ErrDraftTooManyTeams)
	assert.ErrorIs(t, board.SetDraft("1", []models.PointAssignment{
		{TeamID: "team-1"}, {TeamID: "team-1"},
	}), ErrDuplicateTeam)
	assert.ErrorIs(t, board.SetDraft("1", []models.PointAssignment{
		{TeamID: "team-99"},
	}), ErrTeamNotFound)
}

func TestDeadlineOperations(t *testing.T) {
	board, clk, _ := newTestBoard(t)
	ctx := context.Background()

	start := clk.Now()
	assert.Equal(t, start.Add(models.DefaultGameCountdown).UnixMilli(), board.Deadline(models.ClockGame).UnixMilli())
	assert.Equal(t, start.Add(models.DefaultGeneralCountdown).UnixMilli(), board.Deadline(models.ClockGeneral).UnixMilli())

	next := board.ExtendDeadline(ctx, models.ClockGeneral, 5*time.Minute)
	assert.Equal(t, start.Add(models.DefaultGeneralCountdown+5*time.Minute).UnixMilli(), next.UnixMilli())

	// Дедлайн в прошлом легален: остаток отображается нулём.
	board.SetDeadline(ctx, models.ClockGame, start.Add(-time.Hour))
	frame := board.ClockFrame()
	assert.Equal(t, "00:00:00", frame.GameRemaining)

	reset := board.ResetDeadline(ctx, models.ClockGame)
	assert.Equal(t, clk.Now().UnixMilli(), reset.UnixMilli())
}

func TestGameClockGenerationBumpsOnlyForGameClock(t *testing.T) {
	board, clk, _ := newTestBoard(t)
	ctx := context.Background()

	gen := board.GameClockGeneration()
	board.SetDeadline(ctx, models.ClockGeneral, clk.Now().Add(time.Hour))
	assert.Equal(t, gen, board.GameClockGeneration())

	board.SetDeadline(ctx, models.ClockGame, clk.Now().Add(time.Hour))
	assert.Equal(t, gen+1, board.GameClockGeneration())

	board.ExtendDeadline(ctx, models.ClockGame, time.Minute)
	assert.Equal(t, gen+2, board.GameClockGeneration())
}

func TestStateSurvivesReload(t *testing.T) {
	board, clk, repo := newTestBoard(t)
	ctx := context.Background()

	_, err := board.RecordMatch(ctx, "2", "team-1", "team-2", models.Win("team-2"))
	require.NoError(t, err)
	board.SetDeadline(ctx, models.ClockGame, clk.Now().Add(42*time.Minute))

	// Второй сервис поверх того же снапшота видит то же состояние.
	reloaded := NewBoardService(testLogger(), repo, nil, clk, models.DefaultScoreTable())
	reloaded.Load(ctx)

	assert.Equal(t, 3, teamPoints(t, reloaded, "team-2"))
	require.Len(t, reloaded.History(), 1)
	assert.Equal(t, board.Deadline(models.ClockGame).UnixMilli(), reloaded.Deadline(models.ClockGame).UnixMilli())
	assert.Equal(t, board.History()[0].ID, reloaded.History()[0].ID)
}
