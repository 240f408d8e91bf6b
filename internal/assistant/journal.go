package assistant

import (
	"fmt"
	"strings"
)

// 日记摘要的固定窗口：最近 3 篇内容 + 最近 7 次心情的众数
const (
	journalSummaryEntries = 3
	moodSampleSize        = 7
)

func (a *Assistant) handleJournal(snapshot Snapshot) string {
	if len(snapshot.Journal) == 0 && len(snapshot.Moods) == 0 {
		return "You haven't written any journal entries in the last 30 days. Want to start today?"
	}

	var b strings.Builder

	if len(snapshot.Journal) > 0 {
		count := len(snapshot.Journal)
		if count > journalSummaryEntries {
			count = journalSummaryEntries
		}
		fmt.Fprintf(&b, "Your last %d journal %s:\n", count, plural(count, "entry", "entries"))
		for _, entry := range snapshot.Journal[:count] {
			fmt.Fprintf(&b, "- _%s_: %s\n", entry.Date, truncate(entry.Content, 80))
		}
	}

	if mood := recentMoodMode(snapshot); mood != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Your mood lately has mostly been **%s**.", mood)
	}

	return strings.TrimRight(b.String(), "\n")
}

// recentMoodMode 取最近 7 次心情的众数；Moods 已按日期倒序
func recentMoodMode(snapshot Snapshot) string {
	sample := make([]string, 0, moodSampleSize)
	for _, mood := range snapshot.Moods {
		if len(sample) >= moodSampleSize {
			break
		}
		if strings.TrimSpace(mood.Mood) != "" {
			sample = append(sample, mood.Mood)
		}
	}
	return moodMode(sample)
}
