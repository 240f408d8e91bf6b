package assistant

import (
	"fmt"
	"strings"

	"github.com/flohub/flohub/internal/service"
)

// 坚持度分桶阈值：<50% 吃力，>80% 顺利
const (
	strugglingThreshold = 50.0
	succeedingThreshold = 80.0
)

// consistencyWindowDays 为统计窗口长度（含当日共 30 天）
const consistencyWindowDays = 30

func (a *Assistant) handleHabit(snapshot Snapshot) string {
	if len(snapshot.Habits) == 0 {
		return "You're not tracking any habits yet. Add one and I'll keep score for you!"
	}

	end, _ := DayBounds(a.now(), snapshot.Location)
	start := end.AddDate(0, 0, -(consistencyWindowDays - 1))

	var struggling, succeeding, middling []service.HabitConsistency
	for _, habit := range snapshot.Habits {
		result := service.Consistency(habit, snapshot.Completions, start, end)
		switch {
		case result.Percent < strugglingThreshold:
			struggling = append(struggling, result)
		case result.Percent > succeedingThreshold:
			succeeding = append(succeeding, result)
		default:
			middling = append(middling, result)
		}
	}

	var b strings.Builder
	b.WriteString("Here's your habit report for the last 30 days:\n")

	if len(succeeding) > 0 {
		b.WriteString("\nGoing strong:\n")
		for _, result := range succeeding {
			fmt.Fprintf(&b, "- **%s** — %.0f%% consistency", result.Habit.Name, result.Percent)
			if result.CurrentStreak > 1 {
				fmt.Fprintf(&b, " (streak: %d days)", result.CurrentStreak)
			}
			b.WriteString("\n")
		}
	}

	if len(middling) > 0 {
		b.WriteString("\nHolding steady:\n")
		for _, result := range middling {
			fmt.Fprintf(&b, "- **%s** — %.0f%% consistency\n", result.Habit.Name, result.Percent)
		}
	}

	if len(struggling) > 0 {
		b.WriteString("\nCould use some love:\n")
		for _, result := range struggling {
			fmt.Fprintf(&b, "- **%s** — %.0f%% consistency (%d of %d)\n",
				result.Habit.Name, result.Percent, result.CompletedCount, result.ExpectedCount)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
