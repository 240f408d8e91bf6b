package assistant

import (
	"context"
	"log"
	"time"

	"github.com/flohub/flohub/internal/db"
	"github.com/flohub/flohub/internal/secure"
	"github.com/flohub/flohub/internal/service"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// contextWindow 限定快照只取最近 30 天的数据；习惯与设置不受窗口约束
const contextWindow = 30 * 24 * time.Hour

// EventTimeKind 区分事件时间的两种表示
type EventTimeKind int

const (
	// EventInstant 表示具体时刻
	EventInstant EventTimeKind = iota
	// EventAllDay 表示全天事件，Value 仅日期部分有意义
	EventAllDay
)

// EventTime 是事件时间的带标签变体，入库时的 Date/DateTime 二象性在装载时一次性消解
type EventTime struct {
	Kind  EventTimeKind
	Value time.Time
}

// Event 为快照中的日历事件视图
type Event struct {
	Summary     string
	Description string
	Location    string
	Start       EventTime
	End         EventTime
}

// NoteItem 为快照中的笔记视图，Title/Content 已在装载边界完成信封解码
type NoteItem struct {
	ID        uint
	Title     string
	Content   string
	Tags      []string
	EventID   string
	IsAdhoc   bool
	Actions   []ActionItem
	CreatedAt time.Time
}

// ActionItem 为会议行动项视图
type ActionItem struct {
	Description string
	AssignedTo  string
	Status      string
}

// JournalItem 为快照中的日记视图，Content 已解码
type JournalItem struct {
	Date      string
	Content   string
	CreatedAt time.Time
}

// Snapshot 是单次请求的内存上下文：一次装载、只读使用、不跨请求共享
type Snapshot struct {
	Tasks       []db.Task
	Notes       []NoteItem
	Meetings    []NoteItem
	Habits      []db.Habit
	Completions []db.HabitCompletion
	Journal     []JournalItem
	Moods       []db.JournalMood
	Events      []Event
	Settings    service.UserSettings
	Location    *time.Location
}

// Loader 负责装载某个用户的上下文快照
// 各类数据并发读取，单类失败降级为空集合并记录告警，永不向调用方抛错
type Loader struct {
	db       *gorm.DB
	tasks    *service.TaskService
	notes    *service.NoteService
	habits   *service.HabitService
	journal  *service.JournalService
	calendar *service.CalendarService
	settings *service.UserSettingService
	codec    *secure.Codec
	now      func() time.Time
}

// NewLoader 构造 Loader；gdb 为 nil 时 Load 直接返回空快照
func NewLoader(gdb *gorm.DB, codec *secure.Codec) *Loader {
	loader := &Loader{
		db:    gdb,
		codec: codec,
		now:   time.Now,
	}
	if gdb != nil {
		loader.tasks = service.NewTaskService(gdb)
		loader.notes = service.NewNoteService(gdb)
		loader.habits = service.NewHabitService(gdb)
		loader.journal = service.NewJournalService(gdb)
		loader.calendar = service.NewCalendarService(gdb)
		loader.settings = service.NewUserSettingService(gdb)
	}
	return loader
}

// WithClock 替换时间源，测试用
func (l *Loader) WithClock(now func() time.Time) *Loader {
	if now != nil {
		l.now = now
	}
	return l
}

// WithDefaultTimezone 设置用户未配置时区时的回退值
func (l *Loader) WithDefaultTimezone(tz string) *Loader {
	if l.settings != nil {
		l.settings.WithDefaultTimezone(tz)
	}
	return l
}

// Load 装载用户上下文快照
// 各数据源独立失败：出错时记录告警并以空集合代替，不影响其余数据源
func (l *Loader) Load(ctx context.Context, userID uint) Snapshot {
	snapshot := Snapshot{Location: time.UTC}
	snapshot.Settings = service.UserSettings{FloCatStyle: service.FloCatStyleDefault, Timezone: "UTC"}

	if l.db == nil {
		return snapshot
	}

	now := l.now()
	since := now.Add(-contextWindow)

	var g errgroup.Group

	g.Go(func() error {
		tasks, err := l.tasks.List(userID, service.TaskFilter{CreatedAfter: since})
		if err != nil {
			log.Printf("assistant: load tasks failed: %v", err)
			return nil
		}
		snapshot.Tasks = tasks
		return nil
	})

	g.Go(func() error {
		notes, err := l.notes.List(userID, service.NoteFilter{CreatedAfter: since})
		if err != nil {
			log.Printf("assistant: load notes failed: %v", err)
			return nil
		}
		snapshot.Notes = l.decodeNotes(notes)
		return nil
	})

	g.Go(func() error {
		meetings, err := l.notes.ListMeetings(userID, service.NoteFilter{CreatedAfter: since})
		if err != nil {
			log.Printf("assistant: load meetings failed: %v", err)
			return nil
		}
		snapshot.Meetings = l.decodeNotes(meetings)
		return nil
	})

	g.Go(func() error {
		habits, err := l.habits.List(userID)
		if err != nil {
			log.Printf("assistant: load habits failed: %v", err)
			return nil
		}
		snapshot.Habits = habits
		return nil
	})

	g.Go(func() error {
		completions, err := l.habits.ListUserCompletions(userID, since, now)
		if err != nil {
			log.Printf("assistant: load habit completions failed: %v", err)
			return nil
		}
		snapshot.Completions = completions
		return nil
	})

	g.Go(func() error {
		entries, err := l.journal.ListEntries(userID, since, 0)
		if err != nil {
			log.Printf("assistant: load journal entries failed: %v", err)
			return nil
		}
		items := make([]JournalItem, 0, len(entries))
		for _, entry := range entries {
			items = append(items, JournalItem{
				Date:      entry.Date,
				Content:   l.decodeField(entry.Content),
				CreatedAt: entry.CreatedAt,
			})
		}
		snapshot.Journal = items
		return nil
	})

	g.Go(func() error {
		moods, err := l.journal.ListMoods(userID, since, 0)
		if err != nil {
			log.Printf("assistant: load journal moods failed: %v", err)
			return nil
		}
		snapshot.Moods = moods
		return nil
	})

	g.Go(func() error {
		events, err := l.calendar.List(userID)
		if err != nil {
			log.Printf("assistant: load calendar events failed: %v", err)
			return nil
		}
		snapshot.Events = ingestEvents(events)
		return nil
	})

	g.Go(func() error {
		settings, err := l.settings.GetSettings(userID)
		if err != nil {
			log.Printf("assistant: load settings failed: %v", err)
			return nil
		}
		snapshot.Settings = settings
		return nil
	})

	// 每个 goroutine 都自行吞掉错误，Wait 恒为 nil
	_ = g.Wait()

	if loc, err := time.LoadLocation(snapshot.Settings.Timezone); err == nil {
		snapshot.Location = loc
	} else if snapshot.Settings.Timezone != "" {
		log.Printf("assistant: unknown timezone %q, falling back to UTC", snapshot.Settings.Timezone)
	}

	return snapshot
}

func (l *Loader) decodeNotes(notes []db.Note) []NoteItem {
	items := make([]NoteItem, 0, len(notes))
	for _, note := range notes {
		item := NoteItem{
			ID:        note.ID,
			Title:     l.decodeField(note.Title),
			Content:   l.decodeField(note.Content),
			EventID:   note.EventID,
			IsAdhoc:   note.IsAdhoc,
			CreatedAt: note.CreatedAt,
		}
		for _, tag := range note.Tags {
			item.Tags = append(item.Tags, tag.Name)
		}
		for _, action := range note.Actions {
			item.Actions = append(item.Actions, ActionItem{
				Description: action.Description,
				AssignedTo:  action.AssignedTo,
				Status:      action.Status,
			})
		}
		items = append(items, item)
	}
	return items
}

// decodeField 解码加密信封字段，失败时回退原始值而非中断
func (l *Loader) decodeField(raw string) string {
	if l.codec == nil {
		return raw
	}
	plain, err := l.codec.Decode(raw)
	if err != nil {
		log.Printf("assistant: envelope decode failed, using raw value: %v", err)
		return raw
	}
	return plain
}

// ingestEvents 在装载边界将 AllDay/时刻二象性消解为带标签变体
func ingestEvents(events []db.CalendarEvent) []Event {
	out := make([]Event, 0, len(events))
	for _, event := range events {
		kind := EventInstant
		if event.AllDay {
			kind = EventAllDay
		}
		out = append(out, Event{
			Summary:     event.Summary,
			Description: event.Description,
			Location:    event.Location,
			Start:       EventTime{Kind: kind, Value: event.Start},
			End:         EventTime{Kind: kind, Value: event.End},
		})
	}
	return out
}
