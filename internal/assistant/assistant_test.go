package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/flohub/flohub/internal/db"
	"github.com/flohub/flohub/internal/secure"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAssistantTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.User{}, &db.Task{}, &db.Note{}, &db.NoteAction{}, &db.Tag{},
		&db.Habit{}, &db.HabitCompletion{}, &db.JournalEntry{}, &db.JournalMood{},
		&db.CalendarEvent{}, &db.UserSetting{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestProcessQueryCalendarTodayEmpty(t *testing.T) {
	gdb, cleanup := setupAssistantTestDB(t)
	defer cleanup()

	a := New(gdb, nil)

	got := a.ProcessQuery(context.Background(), 1, "What's on my calendar today?")
	if got != noEventsTodayResponse {
		t.Fatalf("got %q, want fixed empty-calendar response", got)
	}
}

func TestProcessQueryCalendarTodayStandup(t *testing.T) {
	gdb, cleanup := setupAssistantTestDB(t)
	defer cleanup()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	if err := gdb.Create(&db.CalendarEvent{
		UserID:  1,
		Summary: "Standup",
		Start:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		End:     time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC),
	}).Error; err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}

	a := New(gdb, nil).WithClock(fixedClock(now))

	got := a.ProcessQuery(context.Background(), 1, "What's on my calendar today?")
	if !strings.Contains(got, "Standup") {
		t.Fatalf("response missing event summary: %q", got)
	}
	if !strings.Contains(got, "09:00 AM") {
		t.Fatalf("response missing event time: %q", got)
	}
}

func TestProcessQueryAddTaskPersists(t *testing.T) {
	gdb, cleanup := setupAssistantTestDB(t)
	defer cleanup()

	a := New(gdb, nil)

	got := a.ProcessQuery(context.Background(), 1, "add task buy milk")
	if !strings.Contains(got, "buy milk") {
		t.Fatalf("confirmation missing task text: %q", got)
	}

	var task db.Task
	if err := gdb.Where("user_id = ?", 1).First(&task).Error; err != nil {
		t.Fatalf("task was not persisted: %v", err)
	}
	if task.Text != "buy milk" {
		t.Fatalf("persisted text = %q, want %q", task.Text, "buy milk")
	}
	if task.Done {
		t.Fatal("new task must not be done")
	}
	if task.Source != "assistant" {
		t.Fatalf("task source = %q, want assistant", task.Source)
	}
}

func TestLoaderIsolatesFailedSource(t *testing.T) {
	gdb, cleanup := setupAssistantTestDB(t)
	defer cleanup()

	if err := gdb.Create(&db.Task{UserID: 1, Text: "write report"}).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	// 人为破坏 habits 表让该数据源查询失败，其余数据源不受影响
	if err := gdb.Migrator().DropTable(&db.Habit{}); err != nil {
		t.Fatalf("failed to drop habits table: %v", err)
	}

	loader := NewLoader(gdb, nil)
	snapshot := loader.Load(context.Background(), 1)

	if len(snapshot.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(snapshot.Tasks))
	}
	if len(snapshot.Habits) != 0 {
		t.Fatalf("expected empty habits, got %d", len(snapshot.Habits))
	}
}

func TestLoaderMoodsSurviveJournalEntriesFailure(t *testing.T) {
	gdb, cleanup := setupAssistantTestDB(t)
	defer cleanup()

	if err := gdb.Create(&db.JournalMood{UserID: 1, Date: "2026-03-10", Mood: "happy"}).Error; err != nil {
		t.Fatalf("failed to seed mood: %v", err)
	}

	// 日记表损坏不得连带丢失心情数据
	if err := gdb.Migrator().DropTable(&db.JournalEntry{}); err != nil {
		t.Fatalf("failed to drop journal entries table: %v", err)
	}

	loader := NewLoader(gdb, nil)
	snapshot := loader.Load(context.Background(), 1)

	if len(snapshot.Journal) != 0 {
		t.Fatalf("expected empty journal, got %d", len(snapshot.Journal))
	}
	if len(snapshot.Moods) != 1 {
		t.Fatalf("expected 1 mood, got %d", len(snapshot.Moods))
	}
}

func TestLoaderNilDBReturnsEmptySnapshot(t *testing.T) {
	loader := NewLoader(nil, nil)
	snapshot := loader.Load(context.Background(), 1)

	if len(snapshot.Tasks) != 0 || len(snapshot.Events) != 0 {
		t.Fatal("expected fully empty snapshot")
	}
	if snapshot.Location != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", snapshot.Location)
	}
}

func TestLoaderEnvelopeFallback(t *testing.T) {
	gdb, cleanup := setupAssistantTestDB(t)
	defer cleanup()

	// 结构上是信封但密文损坏，解码失败必须回退原始值而不是中断
	broken := `{"isEncrypted":true,"salt":"AAAA","iv":"AAAA","data":"AAAA"}`
	if err := gdb.Create(&db.Note{UserID: 1, Title: broken, Content: "body"}).Error; err != nil {
		t.Fatalf("failed to seed note: %v", err)
	}

	loader := NewLoader(gdb, secure.NewCodec("some-secret"))
	snapshot := loader.Load(context.Background(), 1)

	if len(snapshot.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(snapshot.Notes))
	}
	if snapshot.Notes[0].Title != broken {
		t.Fatalf("expected raw fallback, got %q", snapshot.Notes[0].Title)
	}
}

func TestLoaderDecodesEncryptedNote(t *testing.T) {
	gdb, cleanup := setupAssistantTestDB(t)
	defer cleanup()

	codec := secure.NewCodec("some-secret")
	envelope, err := codec.Encrypt("Secret plan")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if err := gdb.Create(&db.Note{UserID: 1, Title: envelope, Content: "body"}).Error; err != nil {
		t.Fatalf("failed to seed note: %v", err)
	}

	loader := NewLoader(gdb, codec)
	snapshot := loader.Load(context.Background(), 1)

	if len(snapshot.Notes) != 1 || snapshot.Notes[0].Title != "Secret plan" {
		t.Fatalf("expected decoded title, got %+v", snapshot.Notes)
	}
}

func TestProcessQueryEmptyQueryGivesGuidance(t *testing.T) {
	a := New(nil, nil)

	got := a.ProcessQuery(context.Background(), 1, "   ")
	if !strings.Contains(got, "FloCat") {
		t.Fatalf("expected general guidance, got %q", got)
	}
}

func TestProcessQueryUsesPreferredNameAndStyle(t *testing.T) {
	gdb, cleanup := setupAssistantTestDB(t)
	defer cleanup()

	if err := gdb.Create(&db.UserSetting{
		UserID:        1,
		FloCatStyle:   "more_catty",
		PreferredName: "Alex",
		Timezone:      "UTC",
	}).Error; err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	a := New(gdb, nil)

	got := a.ProcessQuery(context.Background(), 1, "hello")
	if !strings.Contains(got, "Alex") {
		t.Fatalf("expected preferred name in greeting: %q", got)
	}
	if !strings.Contains(got, "😺") {
		t.Fatalf("expected catty flourish: %q", got)
	}
}

func TestHandleJournalMoodMode(t *testing.T) {
	gdb, cleanup := setupAssistantTestDB(t)
	defer cleanup()

	days := []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05"}
	moods := []string{"happy", "happy", "tired", "happy", "calm"}
	for i, day := range days {
		if err := gdb.Create(&db.JournalMood{UserID: 1, Date: day, Mood: moods[i]}).Error; err != nil {
			t.Fatalf("failed to seed mood: %v", err)
		}
	}

	a := New(gdb, nil)

	got := a.ProcessQuery(context.Background(), 1, "how's my mood lately")
	if !strings.Contains(got, "**happy**") {
		t.Fatalf("expected mood mode in response: %q", got)
	}
}
