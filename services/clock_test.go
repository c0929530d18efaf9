package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "zero", d: 0, want: "00:00:00"},
		{name: "negative clamps to zero", d: -5 * time.Millisecond, want: "00:00:00"},
		{name: "two hours", d: 7200000 * time.Millisecond, want: "02:00:00"},
		{name: "mixed", d: 1*time.Hour + 2*time.Minute + 3*time.Second, want: "01:02:03"},
		{name: "sub-second truncates", d: 900 * time.Millisecond, want: "00:00:00"},
		{name: "hours unbounded past 24", d: 25 * time.Hour, want: "25:00:00"},
		{name: "hundred hours", d: 100*time.Hour + 59*time.Minute + 59*time.Second, want: "100:59:59"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatClock(tt.d))
		})
	}
}

func TestRemaining(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	tests := []struct {
		name     string
		deadline time.Time
		now      time.Time
		want     time.Duration
	}{
		{name: "future deadline", deadline: base.Add(90 * time.Second), now: base, want: 90 * time.Second},
		{name: "now equals deadline", deadline: base, now: base, want: 0},
		{name: "deadline in the past", deadline: base, now: base.Add(time.Hour), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Remaining(tt.deadline, tt.now))
		})
	}
}
