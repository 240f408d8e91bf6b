package assistant

import (
	"fmt"
	"strings"
)

// maxSearchResultsPerGroup 限制每个类别展示的命中数
const maxSearchResultsPerGroup = 3

// minSearchKeywordLength 过滤过短的检索词
const minSearchKeywordLength = 2

func (a *Assistant) handleSearch(intent Intent, snapshot Snapshot) string {
	phrase := strings.TrimSpace(intent.Entities.SearchPhrase)
	keywords := searchKeywords(phrase)
	if len(keywords) == 0 {
		return "What would you like me to look for? Try \"find notes about the launch\"."
	}

	loc := snapshot.Location

	var tasks, notes, events, habits []string

	for _, task := range snapshot.Tasks {
		if len(tasks) >= maxSearchResultsPerGroup {
			break
		}
		if containsAny(task.Text, keywords) {
			status := "open"
			if task.Done {
				status = "done"
			}
			tasks = append(tasks, fmt.Sprintf("- %s (%s)", task.Text, status))
		}
	}

	for _, note := range snapshot.Notes {
		if len(notes) >= maxSearchResultsPerGroup {
			break
		}
		if containsAny(note.Title, keywords) || containsAny(note.Content, keywords) {
			title := note.Title
			if strings.TrimSpace(title) == "" {
				title = truncate(note.Content, 40)
			}
			notes = append(notes, fmt.Sprintf("- **%s**", title))
		}
	}

	for _, event := range snapshot.Events {
		if len(events) >= maxSearchResultsPerGroup {
			break
		}
		if containsAny(event.Summary, keywords) || containsAny(event.Description, keywords) || containsAny(event.Location, keywords) {
			events = append(events, fmt.Sprintf("- **%s** on %s", event.Summary, FormatEventDay(event.Start, loc)))
		}
	}

	for _, habit := range snapshot.Habits {
		if len(habits) >= maxSearchResultsPerGroup {
			break
		}
		if containsAny(habit.Name, keywords) {
			habits = append(habits, fmt.Sprintf("- %s (%s)", habit.Name, habit.Frequency))
		}
	}

	if len(tasks)+len(notes)+len(events)+len(habits) == 0 {
		return fmt.Sprintf("I couldn't find anything matching \"%s\".", phrase)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here's what I found for \"%s\":\n", phrase)
	appendGroup(&b, "Tasks", tasks)
	appendGroup(&b, "Notes", notes)
	appendGroup(&b, "Events", events)
	appendGroup(&b, "Habits", habits)
	return strings.TrimRight(b.String(), "\n")
}

func appendGroup(b *strings.Builder, label string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", label)
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
}

// searchKeywords 将检索短语切成长度大于 2 的关键词
func searchKeywords(phrase string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(phrase)) {
		word = strings.Trim(word, "?.,!\"'")
		if len(word) > minSearchKeywordLength {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

func containsAny(haystack string, keywords []string) bool {
	lowered := strings.ToLower(haystack)
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
