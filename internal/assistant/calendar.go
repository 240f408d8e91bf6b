package assistant

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// 固定回复：当日/次日无事件（措辞对外稳定，测试依赖）
const (
	noEventsTodayResponse    = "You don't have any events scheduled for today."
	noEventsTomorrowResponse = "You don't have any events scheduled for tomorrow."
)

// contextSynonyms 用于无时间指代查询的关键词扩展
// 例如问 "when do I see mum" 时同时匹配 mom/mother
var contextSynonyms = map[string][]string{
	"mum":     {"mum", "mom", "mother"},
	"mom":     {"mum", "mom", "mother"},
	"dad":     {"dad", "father"},
	"airport": {"airport", "flight", "plane", "terminal"},
	"flight":  {"airport", "flight", "plane"},
	"doctor":  {"doctor", "dr", "clinic", "surgery"},
	"dentist": {"dentist", "dental"},
	"gym":     {"gym", "workout", "training", "fitness"},
	"work":    {"work", "office"},
	"school":  {"school", "class", "lecture"},
}

func (a *Assistant) handleCalendar(query string, intent Intent, snapshot Snapshot) string {
	now := a.now()
	loc := snapshot.Location

	switch intent.Entities.TimeRef {
	case "today":
		start, end := DayBounds(now, loc)
		events := eventsBetween(snapshot.Events, start, end)
		if len(events) == 0 {
			return noEventsTodayResponse
		}
		return renderEventList(events, "today", loc)
	case "tomorrow":
		start, end := TomorrowBounds(now, loc)
		events := eventsBetween(snapshot.Events, start, end)
		if len(events) == 0 {
			return noEventsTomorrowResponse
		}
		return renderEventList(events, "tomorrow", loc)
	case "week":
		start, end := WeekBounds(now, loc)
		events := eventsBetween(snapshot.Events, start, end)
		if len(events) == 0 {
			return "Your week is looking clear — no events in the next 7 days."
		}
		return renderEventWeek(events, loc)
	default:
		return a.handleUnscopedCalendar(query, snapshot)
	}
}

// handleUnscopedCalendar 处理不带时间指代的日历查询：
// 依上下文关键词（及同义词扩展）在摘要/描述/地点上做子串过滤，按最近的未来场次排序
func (a *Assistant) handleUnscopedCalendar(query string, snapshot Snapshot) string {
	now := a.now()
	loc := snapshot.Location

	keywords := expandContextKeywords(query)
	if len(keywords) == 0 {
		start, end := WeekBounds(now, loc)
		events := eventsBetween(snapshot.Events, start, end)
		if len(events) == 0 {
			return "I couldn't find any upcoming events on your calendar."
		}
		return renderEventWeek(events, loc)
	}

	var matched []Event
	for _, event := range snapshot.Events {
		if !event.Start.Value.After(now) {
			continue
		}
		if eventMatchesAny(event, keywords) {
			matched = append(matched, event)
		}
	}

	if len(matched) == 0 {
		return "I couldn't find any upcoming events matching that. Try asking about \"today\" or \"tomorrow\"."
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Start.Value.Before(matched[j].Start.Value)
	})

	if len(matched) == 1 {
		event := matched[0]
		return fmt.Sprintf("Your next matching event is **%s** on %s at %s.",
			event.Summary, FormatEventDay(event.Start, loc), FormatEventTime(event.Start, loc))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d upcoming events that match:\n", len(matched))
	for _, event := range matched {
		fmt.Fprintf(&b, "- **%s** on %s at %s\n",
			event.Summary, FormatEventDay(event.Start, loc), FormatEventTime(event.Start, loc))
	}
	return strings.TrimRight(b.String(), "\n")
}

// eventsBetween 返回开始时间落在 [start, end) 内的事件，按开始时间升序
func eventsBetween(events []Event, start, end time.Time) []Event {
	var matched []Event
	for _, event := range events {
		if event.Start.Value.Before(start) || !event.Start.Value.Before(end) {
			continue
		}
		matched = append(matched, event)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Start.Value.Before(matched[j].Start.Value)
	})
	return matched
}

// renderEventList 渲染某一天的事件，单复数措辞不同
func renderEventList(events []Event, day string, loc *time.Location) string {
	if len(events) == 1 {
		event := events[0]
		return fmt.Sprintf("You have 1 event %s: **%s** at %s.",
			day, event.Summary, FormatEventTime(event.Start, loc))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d events %s:\n", len(events), day)
	for _, event := range events {
		fmt.Fprintf(&b, "- **%s** at %s", event.Summary, FormatEventTime(event.Start, loc))
		if event.Location != "" {
			fmt.Fprintf(&b, " (%s)", event.Location)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderEventWeek 渲染未来一周的事件，带日期前缀
func renderEventWeek(events []Event, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's your week — %d %s coming up:\n", len(events), plural(len(events), "event", "events"))
	for _, event := range events {
		fmt.Fprintf(&b, "- **%s** on %s at %s\n",
			event.Summary, FormatEventDay(event.Start, loc), FormatEventTime(event.Start, loc))
	}
	return strings.TrimRight(b.String(), "\n")
}

// expandContextKeywords 取查询中的长词并做同义词扩展，剔除日历本身的套话
func expandContextKeywords(query string) []string {
	stopwords := map[string]bool{
		"when": true, "what": true, "whats": true, "what's": true, "next": true,
		"calendar": true, "event": true, "events": true, "schedule": true,
		"scheduled": true, "appointment": true, "agenda": true, "have": true,
		"the": true, "for": true, "you": true, "are": true, "and": true,
		"any": true, "upcoming": true,
	}

	seen := make(map[string]bool)
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, "?.,!\"'")
		if len(word) <= 2 || stopwords[word] {
			continue
		}

		expanded := contextSynonyms[word]
		if expanded == nil {
			expanded = []string{word}
		}
		for _, keyword := range expanded {
			if !seen[keyword] {
				seen[keyword] = true
				keywords = append(keywords, keyword)
			}
		}
	}
	return keywords
}

// eventMatchesAny 在摘要/描述/地点上做大小写不敏感的子串匹配
func eventMatchesAny(event Event, keywords []string) bool {
	haystack := strings.ToLower(event.Summary + " " + event.Description + " " + event.Location)
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}
