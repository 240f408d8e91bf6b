package assistant

import (
	"regexp"
	"strings"
)

// IntentType 是查询被归入的类别
type IntentType string

const (
	IntentCalendar     IntentType = "calendar"
	IntentTask         IntentType = "task"
	IntentNote         IntentType = "note"
	IntentJournal      IntentType = "journal"
	IntentMeeting      IntentType = "meeting"
	IntentHabit        IntentType = "habit"
	IntentProductivity IntentType = "productivity"
	IntentSearch       IntentType = "search"
	IntentCreate       IntentType = "create"
	IntentGeneral      IntentType = "general"
)

// 动作标签：查询为主，task/note 命中创建关键词时切换为 create
const (
	ActionQuery  = "query"
	ActionCreate = "create"
)

// Entities 保存从查询中提取出的实体
type Entities struct {
	TimeRef      string
	TaskText     string
	NoteText     string
	SearchPhrase string
}

// Intent 是分类器的输出：类别 + 动作 + 实体 + 固定置信度
type Intent struct {
	Type       IntentType
	Action     string
	Entities   Entities
	Confidence float64
}

// intentRule 将谓词和构造函数捆绑为一条有序规则
type intentRule struct {
	match func(q string) bool
	build func(q string) Intent
}

// intentRules 按固定优先级排列：calendar > task > note > journal > meeting >
// habit > productivity > search > create，末位兜底 general。
// 命中多个类别关键词的查询总是落入更靠前的类别；类别间关键词存在交叠
// （如 note/journal），这是沿袭的产品行为，不按得分消歧。
var intentRules = []intentRule{
	{matchKeywords("calendar", "event", "schedule", "appointment", "agenda"), buildCalendarIntent},
	{matchKeywords("task", "todo", "to-do", "to do"), buildTaskIntent},
	{matchKeywords("note"), buildNoteIntent},
	{matchKeywords("journal", "diary", "mood"), buildJournalIntent},
	{matchKeywords("meeting"), buildMeetingIntent},
	{matchKeywords("habit", "streak", "consistency"), buildHabitIntent},
	{matchKeywords("productive", "productivity", "how am i doing", "progress"), buildProductivityIntent},
	{matchKeywords("find", "search", "look for", "where is", "show me"), buildSearchIntent},
	{matchKeywords("add", "create", "new", "make"), buildCreateIntent},
}

// Classify 将自由文本查询映射为意图，顺序扫描规则，首个命中者胜出
func Classify(query string) Intent {
	q := strings.ToLower(strings.TrimSpace(query))

	for _, rule := range intentRules {
		if rule.match(q) {
			return rule.build(q)
		}
	}

	return Intent{Type: IntentGeneral, Action: ActionQuery, Confidence: 0.3}
}

func matchKeywords(keywords ...string) func(string) bool {
	return func(q string) bool {
		for _, keyword := range keywords {
			if strings.Contains(q, keyword) {
				return true
			}
		}
		return false
	}
}

func buildCalendarIntent(q string) Intent {
	return Intent{
		Type:       IntentCalendar,
		Action:     ActionQuery,
		Entities:   Entities{TimeRef: extractTimeRef(q)},
		Confidence: 0.9,
	}
}

func buildTaskIntent(q string) Intent {
	intent := Intent{Type: IntentTask, Action: ActionQuery, Confidence: 0.85}
	if hasCreateKeyword(q) {
		intent.Action = ActionCreate
		intent.Entities.TaskText = extractTaskText(q)
		intent.Confidence = 0.9
	}
	return intent
}

func buildNoteIntent(q string) Intent {
	intent := Intent{Type: IntentNote, Action: ActionQuery, Confidence: 0.85}
	if hasCreateKeyword(q) {
		intent.Action = ActionCreate
		intent.Entities.NoteText = extractNoteText(q)
		intent.Confidence = 0.9
	}
	return intent
}

func buildJournalIntent(q string) Intent {
	return Intent{Type: IntentJournal, Action: ActionQuery, Confidence: 0.85}
}

func buildMeetingIntent(q string) Intent {
	return Intent{Type: IntentMeeting, Action: ActionQuery, Confidence: 0.85}
}

func buildHabitIntent(q string) Intent {
	return Intent{Type: IntentHabit, Action: ActionQuery, Confidence: 0.85}
}

func buildProductivityIntent(q string) Intent {
	return Intent{Type: IntentProductivity, Action: ActionQuery, Confidence: 0.8}
}

func buildSearchIntent(q string) Intent {
	return Intent{
		Type:       IntentSearch,
		Action:     ActionQuery,
		Entities:   Entities{SearchPhrase: extractSearchPhrase(q)},
		Confidence: 0.75,
	}
}

func buildCreateIntent(q string) Intent {
	return Intent{Type: IntentCreate, Action: ActionCreate, Confidence: 0.6}
}

func hasCreateKeyword(q string) bool {
	for _, keyword := range []string{"add", "create", "new", "make"} {
		if strings.Contains(q, keyword) {
			return true
		}
	}
	return false
}

// extractTimeRef 提取时间指代；未命中时返回空串表示无界查询
func extractTimeRef(q string) string {
	switch {
	case strings.Contains(q, "today"):
		return "today"
	case strings.Contains(q, "tomorrow"):
		return "tomorrow"
	case strings.Contains(q, "this week"):
		return "week"
	default:
		return ""
	}
}

// 任务文本提取按序尝试，首个命中者胜出
var taskTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:add|create|make)\s+(?:a\s+)?(?:new\s+)?task\s+(?:to\s+|for\s+|called\s+|named\s+)?(.+)`),
	regexp.MustCompile(`new\s+task[:,]?\s+(.+)`),
	regexp.MustCompile(`remind\s+me\s+to\s+(.+)`),
}

var noteTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:add|create|make)\s+(?:a\s+)?(?:new\s+)?note\s+(?:about\s+|that\s+|saying\s+|for\s+)?(.+)`),
	regexp.MustCompile(`new\s+note[:,]?\s+(.+)`),
	regexp.MustCompile(`note\s+down\s+(.+)`),
}

var searchPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`search\s+for\s+(.+)`),
	regexp.MustCompile(`(?:find|search|look for|where is|show me)\s+(.+)`),
}

// 兜底剥离的引导词，正则都未命中时逐个剥掉
var leadingStopPhrases = []string{
	"add", "create", "make", "new", "a", "an", "the", "task", "note", "to", "for", "please",
}

func extractTaskText(q string) string {
	return extractByPatterns(q, taskTextPatterns)
}

func extractNoteText(q string) string {
	return extractByPatterns(q, noteTextPatterns)
}

func extractSearchPhrase(q string) string {
	phrase := extractByPatterns(q, searchPhrasePatterns)
	return strings.TrimSuffix(phrase, "?")
}

func extractByPatterns(q string, patterns []*regexp.Regexp) string {
	cleaned := strings.TrimSuffix(strings.TrimSpace(q), "?")

	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(cleaned); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	return stripLeadingStopPhrases(cleaned)
}

func stripLeadingStopPhrases(q string) string {
	words := strings.Fields(q)
	for len(words) > 0 {
		stripped := false
		for _, stop := range leadingStopPhrases {
			if words[0] == stop {
				words = words[1:]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return strings.Join(words, " ")
}
