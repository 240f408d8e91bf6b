package assistant

import (
	"fmt"
	"strings"
)

func (a *Assistant) handleMeeting(snapshot Snapshot) string {
	if len(snapshot.Meetings) == 0 {
		return "I couldn't find any meeting notes from the last 30 days."
	}

	// Meetings 已按创建时间倒序，取最新一条
	latest := snapshot.Meetings[0]

	title := latest.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled meeting"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your most recent meeting note is **%s** _(%s)_.\n", title, TimeAgo(latest.CreatedAt, a.now()))

	if strings.TrimSpace(latest.Content) != "" {
		fmt.Fprintf(&b, "%s\n", truncate(latest.Content, 160))
	}

	if len(latest.Actions) > 0 {
		fmt.Fprintf(&b, "\nAction items:\n")
		for _, action := range latest.Actions {
			fmt.Fprintf(&b, "- %s", action.Description)
			if action.AssignedTo != "" {
				fmt.Fprintf(&b, " (assigned to %s)", action.AssignedTo)
			}
			if action.Status != "" {
				fmt.Fprintf(&b, " — %s", action.Status)
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
