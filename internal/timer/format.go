package timer

import "fmt"

// FormatCountdown 将剩余秒数转换为 MM:SS 显示格式
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds%60)
}
