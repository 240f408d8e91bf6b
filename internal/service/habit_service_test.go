package service

import (
	"testing"
	"time"

	"github.com/flohub/flohub/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) (*gorm.DB, func()) {
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

func TestHabitServiceCreateAndList(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewHabitService(gdb)

	habit, err := svc.Create(1, HabitInput{Name: "Morning run", Frequency: "daily"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if habit.ID == 0 {
		t.Fatal("expected habit to have ID")
	}

	habits, err := svc.List(1)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}

	// 不合法频率
	if _, err := svc.Create(1, HabitInput{Name: "Reading", Frequency: "yearly"}); err == nil {
		t.Fatal("expected error for invalid frequency")
	}
	// custom 必须带星期
	if _, err := svc.Create(1, HabitInput{Name: "Yoga", Frequency: "custom"}); err == nil {
		t.Fatal("expected error for custom frequency without days")
	}
}

func TestHabitServiceUpsertCompletionIdempotent(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewHabitService(gdb)
	habit, err := svc.Create(1, HabitInput{Name: "Meditate", Frequency: "daily"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	day := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	if _, err := svc.UpsertCompletion(HabitCompletionInput{HabitID: habit.ID, Date: day, Completed: true}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	record, err := svc.UpsertCompletion(HabitCompletionInput{HabitID: habit.ID, Date: day, Completed: false})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if record.Completed {
		t.Fatal("expected completion flag to be overwritten")
	}

	var count int64
	gdb.Model(&db.HabitCompletion{}).Where("habit_id = ?", habit.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 completion row, got %d", count)
	}
}

func TestConsistencyDailyHalf(t *testing.T) {
	// 30 天窗口内每日习惯完成 15 次，坚持度必须恰为 50
	habit := db.Habit{Model: gorm.Model{ID: 7}, Frequency: "daily"}

	end := time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -29)

	var completions []db.HabitCompletion
	for i := 0; i < 15; i++ {
		completions = append(completions, db.HabitCompletion{
			HabitID:   7,
			Date:      start.AddDate(0, 0, i*2).Format("2006-01-02"),
			Completed: true,
		})
	}

	result := Consistency(habit, completions, start, end)

	if result.ExpectedCount != 30 {
		t.Fatalf("expected count = %d, want 30", result.ExpectedCount)
	}
	if result.CompletedCount != 15 {
		t.Fatalf("completed count = %d, want 15", result.CompletedCount)
	}
	if result.Percent != 50 {
		t.Fatalf("consistency = %v, want 50", result.Percent)
	}
}

func TestConsistencyIgnoresCompletionsOutsideWindow(t *testing.T) {
	// 满打卡加一条窗口前、一条窗口后的记录，坚持度封顶 100 而不能溢出
	habit := db.Habit{Model: gorm.Model{ID: 3}, Frequency: "daily"}

	end := time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -29)

	var completions []db.HabitCompletion
	for i := 0; i < 30; i++ {
		completions = append(completions, db.HabitCompletion{
			HabitID:   3,
			Date:      start.AddDate(0, 0, i).Format("2006-01-02"),
			Completed: true,
		})
	}
	completions = append(completions,
		db.HabitCompletion{HabitID: 3, Date: start.AddDate(0, 0, -1).Format("2006-01-02"), Completed: true},
		db.HabitCompletion{HabitID: 3, Date: end.AddDate(0, 0, 1).Format("2006-01-02"), Completed: true},
	)

	result := Consistency(habit, completions, start, end)

	if result.CompletedCount != 30 {
		t.Fatalf("completed count = %d, want 30", result.CompletedCount)
	}
	if result.Percent != 100 {
		t.Fatalf("consistency = %v, want 100", result.Percent)
	}
}

func TestExpectedOccurrences(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // 周一
	end := start.AddDate(0, 0, 13)                       // 两周

	daily := db.Habit{Frequency: "daily"}
	if got := ExpectedOccurrences(daily, start, end); got != 14 {
		t.Fatalf("daily = %d, want 14", got)
	}

	weekly := db.Habit{Frequency: "weekly"}
	if got := ExpectedOccurrences(weekly, start, end); got != 2 {
		t.Fatalf("weekly = %d, want 2", got)
	}

	// 周一/周三/周五
	custom := db.Habit{Frequency: "custom", CustomDays: "1,3,5"}
	if got := ExpectedOccurrences(custom, start, end); got != 6 {
		t.Fatalf("custom = %d, want 6", got)
	}
}

func TestCompletionStreaks(t *testing.T) {
	habit := db.Habit{Model: gorm.Model{ID: 3}, Frequency: "daily"}

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 9)

	// 3 连 + 断一天 + 2 连
	var completions []db.HabitCompletion
	for _, offset := range []int{0, 1, 2, 4, 5} {
		completions = append(completions, db.HabitCompletion{
			HabitID:   3,
			Date:      start.AddDate(0, 0, offset).Format("2006-01-02"),
			Completed: true,
		})
	}

	result := Consistency(habit, completions, start, end)
	if result.LongestStreak != 3 {
		t.Fatalf("longest streak = %d, want 3", result.LongestStreak)
	}
	if result.CurrentStreak != 2 {
		t.Fatalf("current streak = %d, want 2", result.CurrentStreak)
	}
}

func TestListUserCompletionsJoinsHabits(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewHabitService(gdb)
	mine, err := svc.Create(1, HabitInput{Name: "Stretch", Frequency: "daily"})
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}
	other, err := svc.Create(2, HabitInput{Name: "Swim", Frequency: "daily"})
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for i, habit := range []*db.Habit{mine, other} {
		if _, err := svc.UpsertCompletion(HabitCompletionInput{
			HabitID: habit.ID, Date: day.AddDate(0, 0, i), Completed: true,
		}); err != nil {
			t.Fatalf("upsert completion: %v", err)
		}
	}

	completions, err := svc.ListUserCompletions(1, day.AddDate(0, 0, -1), day.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("ListUserCompletions returned error: %v", err)
	}
	if len(completions) != 1 {
		t.Fatalf("expected only user 1 completions, got %d", len(completions))
	}
	if completions[0].HabitID != mine.ID {
		t.Fatalf("unexpected habit id %d", completions[0].HabitID)
	}
}

func TestHabitServiceUpdateAndDelete(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewHabitService(gdb)
	habit, err := svc.Create(1, HabitInput{Name: "Read", Frequency: "daily"})
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}

	updated, err := svc.Update(1, habit.ID, HabitInput{Name: "Read books", Frequency: "custom", CustomDays: []int{1, 3}})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Frequency != "custom" || updated.CustomDays != "1,3" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	// 其他用户无法更新
	if _, err := svc.Update(2, habit.ID, HabitInput{Name: "X", Frequency: "daily"}); err != ErrHabitNotFound {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}

	if err := svc.Delete(1, habit.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(1, habit.ID); err != ErrHabitNotFound {
		t.Fatalf("expected ErrHabitNotFound after delete, got %v", err)
	}
}
