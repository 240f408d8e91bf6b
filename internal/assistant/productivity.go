package assistant

import (
	"fmt"
	"strings"
)

// 总体效率评语的固定阈值
const (
	greatThreshold = 80.0
	goodThreshold  = 60.0
)

func (a *Assistant) handleProductivity(snapshot Snapshot) string {
	total := len(snapshot.Tasks)
	if total == 0 {
		return "There's nothing on your task list from the last 30 days, so nothing to measure. Add a few tasks and check back!"
	}

	now := a.now()

	done := 0
	overdue := 0
	for _, task := range snapshot.Tasks {
		if task.Done {
			done++
			continue
		}
		if task.DueDate != nil && task.DueDate.Before(now) {
			overdue++
		}
	}

	rate := float64(done) / float64(total) * 100

	var verdict string
	switch {
	case rate > greatThreshold:
		verdict = "You're doing great — keep the momentum going!"
	case rate > goodThreshold:
		verdict = "Good progress overall."
	default:
		verdict = "It might be worth reviewing your task list and trimming it down."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Over the last 30 days you've completed %d of %d tasks (%.0f%%).\n", done, total, rate)
	if overdue > 0 {
		fmt.Fprintf(&b, "%d %s overdue.\n", overdue, plural(overdue, "task is", "tasks are"))
	}
	b.WriteString(verdict)
	return b.String()
}
