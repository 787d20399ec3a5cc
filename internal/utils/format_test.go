package utils

import "testing"

func TestFormatWatchTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0m"},
		{59, "0m"},
		{60, "1m"},
		{2700, "45m"},
		{3600, "1h 0m"},
		{8100, "2h 15m"},
		{-30, "0m"},
	}
	for _, tt := range tests {
		if got := FormatWatchTime(tt.seconds); got != tt.want {
			t.Errorf("FormatWatchTime(%v) = %s, 期望 %s", tt.seconds, got, tt.want)
		}
	}
}
