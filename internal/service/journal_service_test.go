package service

import (
	"testing"
	"time"

	"github.com/flohub/flohub/internal/db"
)

func TestJournalUpsertEntryOverwritesSameDay(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewJournalService(gdb)
	day := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	first, err := svc.UpsertEntry(1, JournalEntryInput{Date: day, Content: "draft"})
	if err != nil {
		t.Fatalf("UpsertEntry returned error: %v", err)
	}
	second, err := svc.UpsertEntry(1, JournalEntryInput{Date: day, Content: "final"})
	if err != nil {
		t.Fatalf("second UpsertEntry returned error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("same-day upsert created new row: %d vs %d", second.ID, first.ID)
	}

	var count int64
	if err := gdb.Model(&db.JournalEntry{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 entry, got %d", count)
	}

	entries, err := svc.ListEntries(1, time.Time{}, 0)
	if err != nil {
		t.Fatalf("ListEntries returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Content != "final" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestJournalUpsertEntryRejectsEmptyContent(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewJournalService(gdb)
	if _, err := svc.UpsertEntry(1, JournalEntryInput{Date: time.Now(), Content: "   "}); err == nil {
		t.Fatal("expected error for blank content")
	}
}

func TestJournalUpsertMoodIdempotent(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewJournalService(gdb)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	if _, err := svc.UpsertMood(1, JournalMoodInput{Date: day, Mood: "Happy"}); err != nil {
		t.Fatalf("UpsertMood returned error: %v", err)
	}
	if _, err := svc.UpsertMood(1, JournalMoodInput{Date: day, Mood: "Tired"}); err != nil {
		t.Fatalf("second UpsertMood returned error: %v", err)
	}

	moods, err := svc.ListMoods(1, time.Time{}, 0)
	if err != nil {
		t.Fatalf("ListMoods returned error: %v", err)
	}
	if len(moods) != 1 {
		t.Fatalf("expected 1 mood row, got %d", len(moods))
	}
	// 心情统一小写存储
	if moods[0].Mood != "tired" {
		t.Fatalf("mood = %q, want %q", moods[0].Mood, "tired")
	}
}

func TestJournalListScopedToUser(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewJournalService(gdb)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	if _, err := svc.UpsertEntry(1, JournalEntryInput{Date: day, Content: "mine"}); err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}
	if _, err := svc.UpsertEntry(2, JournalEntryInput{Date: day, Content: "theirs"}); err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}

	entries, err := svc.ListEntries(1, time.Time{}, 0)
	if err != nil {
		t.Fatalf("ListEntries returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Content != "mine" {
		t.Fatalf("expected only user 1 entries, got %+v", entries)
	}
}
