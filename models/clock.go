package models

import (
	"fmt"
	"time"
)

// ClockKind различает два независимых таймера события.
type ClockKind string

const (
	// ClockGeneral — общий таймер события, им управляет только master admin.
	ClockGeneral ClockKind = "general"
	// ClockGame — таймер текущей игры, доступен судьям.
	ClockGame ClockKind = "game"
)

// Дефолтные обратные отсчёты при первом запуске (нет снапшота).
const (
	DefaultGeneralCountdown = 4 * time.Hour
	DefaultGameCountdown    = 2 * time.Hour
)

func ParseClockKind(raw string) (ClockKind, error) {
	switch ClockKind(raw) {
	case ClockGeneral:
		return ClockGeneral, nil
	case ClockGame:
		return ClockGame, nil
	}
	return "", fmt.Errorf("unknown clock kind %q", raw)
}
