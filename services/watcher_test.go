package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjgames/scoreboard/models"
)

func fullDraft(t *testing.T, board *BoardService) {
	t.Helper()
	require.NoError(t, board.SetDraft("1", []models.PointAssignment{
		{TeamID: "team-1", Points: 3},
		{TeamID: "team-2", Points: 2},
		{TeamID: "team-3", Points: 1},
	}))
}

func TestWatcherCommitsDraftExactlyOncePerCrossing(t *testing.T) {
	board, clk, _ := newTestBoard(t)
	ctx := context.Background()

	fullDraft(t, board)
	board.SetDeadline(ctx, models.ClockGame, clk.Now().Add(3*time.Second))
	watcher := NewClockWatcher(board, clk, testLogger())

	// До пересечения нуля ничего не коммитится.
	clk.Advance(time.Second)
	watcher.Tick(ctx)
	clk.Advance(time.Second)
	watcher.Tick(ctx)
	assert.Empty(t, board.History())

	// Тик, на котором остаток переходит из >0 в <=0, коммитит черновик.
	clk.Advance(2 * time.Second)
	watcher.Tick(ctx)
	require.Len(t, board.History(), 3)
	assert.Equal(t, 3, teamPoints(t, board, "team-1"))

	// Десять тиков после истечения — повторных коммитов нет.
	fullDraft(t, board)
	for i := 0; i < 10; i++ {
		clk.Advance(time.Second)
		watcher.Tick(ctx)
	}
	assert.Len(t, board.History(), 3)
}

func TestWatcherRearmsWhenDeadlineChanges(t *testing.T) {
	board, clk, _ := newTestBoard(t)
	ctx := context.Background()

	fullDraft(t, board)
	board.SetDeadline(ctx, models.ClockGame, clk.Now().Add(2*time.Second))
	watcher := NewClockWatcher(board, clk, testLogger())

	clk.Advance(time.Second)
	watcher.Tick(ctx)
	clk.Advance(2 * time.Second)
	watcher.Tick(ctx)
	require.Len(t, board.History(), 3)

	// Новый дедлайн сбрасывает флаг: следующее пересечение снова коммитит.
	fullDraft(t, board)
	board.SetDeadline(ctx, models.ClockGame, clk.Now().Add(2*time.Second))
	clk.Advance(time.Second)
	watcher.Tick(ctx)
	assert.Len(t, board.History(), 3)
	clk.Advance(2 * time.Second)
	watcher.Tick(ctx)
	assert.Len(t, board.History(), 6)
}

func TestWatcherIgnoresExpiryWithoutFullDraft(t *testing.T) {
	board, clk, _ := newTestBoard(t)
	ctx := context.Background()

	// Два выбранных из трёх — авто-коммита быть не должно.
	require.NoError(t, board.SetDraft("1", []models.PointAssignment{
		{TeamID: "team-1", Points: 3},
		{TeamID: "team-2", Points: 2},
	}))
	board.SetDeadline(ctx, models.ClockGame, clk.Now().Add(time.Second))
	watcher := NewClockWatcher(board, clk, testLogger())

	clk.Advance(2 * time.Second)
	watcher.Tick(ctx)
	assert.Empty(t, board.History())

	// Черновик уцелел и доступен для ручного исправления.
	draft, ok := board.Draft()
	require.True(t, ok)
	assert.Len(t, draft.Entries, 2)
}

func TestWatcherDoesNotFireForAlreadyExpiredDeadline(t *testing.T) {
	board, clk, _ := newTestBoard(t)
	ctx := context.Background()

	fullDraft(t, board)
	board.SetDeadline(ctx, models.ClockGame, clk.Now().Add(-time.Minute))

	// Вотчер стартует после истечения: перехода через ноль в этой сессии
	// не было, коммитить нечего.
	watcher := NewClockWatcher(board, clk, testLogger())
	for i := 0; i < 5; i++ {
		clk.Advance(time.Second)
		watcher.Tick(ctx)
	}
	assert.Empty(t, board.History())
}
