package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sjgames/scoreboard/models"
)

// ClockWatcher раз в секунду пересчитывает остаток игрового таймера и на
// тике, где остаток переходит из >0 в <=0, ровно один раз коммитит
// полный черновик батча — чтобы введённые судьёй, но не сохранённые очки
// не пропали. Флаг срабатывания сбрасывается только сменой самого
// дедлайна (по счётчику поколений), поэтому после истечения повторных
// коммитов не бывает.
type ClockWatcher struct {
	board  *BoardService
	clock  clockwork.Clock
	logger *slog.Logger

	lastRemaining time.Duration
	fired         bool
	generation    uint64
}

func NewClockWatcher(board *BoardService, clock clockwork.Clock, logger *slog.Logger) *ClockWatcher {
	return &ClockWatcher{
		board:  board,
		clock:  clock,
		logger: logger,
		// Уже истекший на старте дедлайн не должен ничего коммитить:
		// перехода через ноль не было в нашей сессии.
		lastRemaining: Remaining(board.Deadline(models.ClockGame), clock.Now()),
		generation:    board.GameClockGeneration(),
	}
}

// Run тикает каждую секунду до отмены контекста.
func (w *ClockWatcher) Run(ctx context.Context) error {
	ticker := w.clock.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			w.Tick(ctx)
		}
	}
}

// Tick — один шаг опроса. Вынесен отдельно, чтобы тесты могли гонять
// переходы с фейковым временем без горутины.
func (w *ClockWatcher) Tick(ctx context.Context) {
	if gen := w.board.GameClockGeneration(); gen != w.generation {
		w.generation = gen
		w.fired = false
	}

	remaining := Remaining(w.board.Deadline(models.ClockGame), w.clock.Now())
	crossed := w.lastRemaining > 0 && remaining <= 0
	w.lastRemaining = remaining

	if crossed && !w.fired {
		w.fired = true
		committed, err := w.board.AutoCommitDraft(ctx)
		switch {
		case err != nil:
			w.logger.Error("auto-commit of batch draft failed", slog.Any("error", err))
		case committed:
			w.logger.Info("game clock expired, pending batch draft committed")
		}
	}

	w.board.BroadcastClocks()
}
