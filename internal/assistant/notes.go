package assistant

import (
	"fmt"
	"log"
	"strings"

	"github.com/flohub/flohub/internal/service"
)

const noteCreateFailedResponse = "I couldn't save that note right now. Please try again in a moment."

// maxNoteListSize 限制查询回复中列出的笔记数
const maxNoteListSize = 5

func (a *Assistant) handleNote(userID uint, query string, intent Intent, snapshot Snapshot) string {
	if intent.Action == ActionCreate {
		return a.createNote(userID, intent)
	}

	if len(snapshot.Notes) == 0 {
		return "You don't have any notes from the last 30 days."
	}

	now := a.now()

	var b strings.Builder
	count := len(snapshot.Notes)
	if count > maxNoteListSize {
		count = maxNoteListSize
	}
	fmt.Fprintf(&b, "Here %s your %d most recent %s:\n",
		plural(count, "is", "are"), count, plural(count, "note", "notes"))

	for _, note := range snapshot.Notes[:count] {
		title := note.Title
		if strings.TrimSpace(title) == "" {
			title = truncate(note.Content, 40)
		}
		fmt.Fprintf(&b, "- **%s** _(%s)_", title, TimeAgo(note.CreatedAt, now))
		if len(note.Tags) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(note.Tags, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Assistant) createNote(userID uint, intent Intent) string {
	text := strings.TrimSpace(intent.Entities.NoteText)
	if text == "" {
		return "What should the note say? Try something like \"add note call the plumber\"."
	}

	if a.notes == nil {
		return noteCreateFailedResponse
	}

	note, err := a.notes.Create(userID, service.NoteInput{Title: truncate(text, 60), Content: text})
	if err != nil {
		log.Printf("assistant: create note failed: %v", err)
		return noteCreateFailedResponse
	}

	return fmt.Sprintf("Noted! I've saved **%s** for you.", note.Title)
}
