package assistant

import (
	"fmt"
	"log"
	"strings"

	"github.com/flohub/flohub/internal/service"
)

// 任务写入失败时的用户可见回复（第二层错误语义：记录并转为一句模板文案）
const taskCreateFailedResponse = "I couldn't save that task right now. Please try again in a moment."

// maxTaskListSize 限制查询回复中列出的未完成任务数
const maxTaskListSize = 10

func (a *Assistant) handleTask(userID uint, query string, intent Intent, snapshot Snapshot) string {
	if intent.Action == ActionCreate {
		return a.createTask(userID, intent)
	}

	now := a.now()

	var open []string
	for _, task := range snapshot.Tasks {
		if task.Done {
			continue
		}
		line := fmt.Sprintf("- %s _(added %s)_", task.Text, TimeAgo(task.CreatedAt, now))
		if task.DueDate != nil {
			if task.DueDate.Before(now) {
				line += " ⚠️ overdue"
			} else {
				line += fmt.Sprintf(" — due %s", task.DueDate.In(snapshot.Location).Format("Jan 2"))
			}
		}
		open = append(open, line)
		if len(open) >= maxTaskListSize {
			break
		}
	}

	if len(open) == 0 {
		return "You're all caught up — no open tasks!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d open %s:\n", len(open), plural(len(open), "task", "tasks"))
	b.WriteString(strings.Join(open, "\n"))
	return b.String()
}

func (a *Assistant) createTask(userID uint, intent Intent) string {
	text := strings.TrimSpace(intent.Entities.TaskText)
	if text == "" {
		return "What should the task say? Try something like \"add task buy milk\"."
	}

	if a.tasks == nil {
		return taskCreateFailedResponse
	}

	task, err := a.tasks.Create(userID, service.TaskInput{Text: text, Source: "assistant"})
	if err != nil {
		log.Printf("assistant: create task failed: %v", err)
		return taskCreateFailedResponse
	}

	return fmt.Sprintf("Got it! I've added **%s** to your tasks.", task.Text)
}
