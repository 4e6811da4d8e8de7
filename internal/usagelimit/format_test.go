package usagelimit

import (
	"testing"
	"time"

	"github.com/samber/lo"
)

func TestFormatResetTime(t *testing.T) {
	now := testNow
	at := func(d time.Duration) *time.Time { return lo.ToPtr(now.Add(d)) }

	tests := []struct {
		name  string
		reset *time.Time
		want  string
	}{
		{"nil", nil, ""},
		{"past", at(-time.Minute), ""},
		{"now", at(0), ""},
		{"seconds round up", at(10 * time.Second), "1m"},
		{"minutes", at(42 * time.Minute), "42m"},
		{"just under an hour", at(59*time.Minute + time.Second), "1h"},
		{"whole hours", at(3 * time.Hour), "3h"},
		{"hours and minutes", at(95 * time.Minute), "1h 35m"},
		{"days", at(50*time.Hour + 5*time.Minute), "50h 5m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatResetTime(tt.reset, now); got != tt.want {
				t.Errorf("FormatResetTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsLimitReached(t *testing.T) {
	if IsLimitReached(Data{}) {
		t.Error("empty data should not be at the limit")
	}
	if IsLimitReached(Data{FiveHour: lo.ToPtr(99), SevenDay: lo.ToPtr(50)}) {
		t.Error("99% is not the limit")
	}
	if !IsLimitReached(Data{FiveHour: lo.ToPtr(100)}) {
		t.Error("five-hour window at 100% should be the limit")
	}
	if !IsLimitReached(Data{SevenDay: lo.ToPtr(100)}) {
		t.Error("seven-day window at 100% should be the limit")
	}
}
