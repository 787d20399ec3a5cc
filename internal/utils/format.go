package utils

import "fmt"

// FormatWatchTime 把秒数格式化成人类可读的时长，如 "2h 15m"、"45m"、"0m"
func FormatWatchTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := int(seconds) / 60
	hours := minutes / 60
	minutes = minutes % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
