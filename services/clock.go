package services

import (
	"fmt"
	"time"
)

// Remaining возвращает оставшееся до дедлайна время, прижатое к нулю:
// для любого now >= deadline результат 0.
func Remaining(deadline, now time.Time) time.Duration {
	if d := deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// FormatClock форматирует длительность как HH:MM:SS. Часы не
// заворачиваются по 24 (25 часов -> "25:00:00"). Отрицательные значения
// отображаются нулём.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
