package assistant

import (
	"fmt"
	"time"
)

// 相对时间措辞的天数阈值
const (
	weekThreshold  = 7
	monthThreshold = 30
)

// DayBounds 返回 now 所在时区日的起止（[start, end)）
// 时区始终由调用方显式传入，避免进程级全局状态
func DayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// TomorrowBounds 返回明日的起止（[start, end)）
func TomorrowBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	start, end := DayBounds(now, loc)
	return end, start.AddDate(0, 0, 2)
}

// WeekBounds 返回从今日起 7 天的起止
func WeekBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	start, _ := DayBounds(now, loc)
	return start, start.AddDate(0, 0, 7)
}

// FormatEventTime 格式化事件时间：全天事件显示 "all day"，否则本地 "09:00 AM" 形式
func FormatEventTime(t EventTime, loc *time.Location) string {
	if t.Kind == EventAllDay {
		return "all day"
	}
	return t.Value.In(loc).Format("03:04 PM")
}

// FormatEventDay 格式化事件日期，如 "Monday, Jan 2"
func FormatEventDay(t EventTime, loc *time.Location) string {
	return t.Value.In(loc).Format("Monday, Jan 2")
}

// TimeAgo 输出相对时间措辞，阈值固定为 7 天 / 30 天
func TimeAgo(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)

	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < weekThreshold:
		return fmt.Sprintf("%d days ago", days)
	case days < monthThreshold:
		weeks := days / weekThreshold
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		months := days / monthThreshold
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	}
}

// moodMode 返回出现次数最多的心情；并列时取先出现者
func moodMode(moods []string) string {
	if len(moods) == 0 {
		return ""
	}

	counts := make(map[string]int, len(moods))
	best := moods[0]
	for _, mood := range moods {
		counts[mood]++
		if counts[mood] > counts[best] {
			best = mood
		}
	}
	return best
}

// truncate 截断长文本用于摘要展示
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

// plural 根据数量选择单复数词尾
func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
