package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flohub/flohub/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JournalService 负责日记与心情数据
// 同一天的条目/心情采用「后写覆盖」语义
type JournalService struct {
	db *gorm.DB
}

// JournalEntryInput 定义写日记的输入
type JournalEntryInput struct {
	Date    time.Time
	Content string
}

// JournalMoodInput 定义记录心情的输入
type JournalMoodInput struct {
	Date time.Time
	Mood string
}

// NewJournalService 构造 JournalService
func NewJournalService(gdb *gorm.DB) *JournalService {
	return &JournalService{db: gdb}
}

// UpsertEntry 写入/覆盖指定日期的日记
func (s *JournalService) UpsertEntry(userID uint, input JournalEntryInput) (*db.JournalEntry, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("journal content is required")
	}

	date := input.Date.Format(dateLayout)

	var existing db.JournalEntry
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&existing).Error
	if err == nil {
		existing.Content = input.Content
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("update journal entry: %w", err)
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find journal entry: %w", err)
	}

	entry := db.JournalEntry{UserID: userID, Date: date, Content: input.Content}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}
	return &entry, nil
}

// UpsertMood 写入/覆盖指定日期的心情
func (s *JournalService) UpsertMood(userID uint, input JournalMoodInput) (*db.JournalMood, error) {
	mood := strings.TrimSpace(strings.ToLower(input.Mood))
	if mood == "" {
		return nil, fmt.Errorf("mood is required")
	}

	record := db.JournalMood{
		UserID: userID,
		Date:   input.Date.Format(dateLayout),
		Mood:   mood,
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"mood", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert journal mood: %w", err)
	}

	return &record, nil
}

// ListEntries 返回时间窗内的日记，按创建时间倒序
func (s *JournalService) ListEntries(userID uint, createdAfter time.Time, limit int) ([]db.JournalEntry, error) {
	var entries []db.JournalEntry

	query := s.db.Where("user_id = ?", userID)
	if !createdAfter.IsZero() {
		query = query.Where("created_at >= ?", createdAfter)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

// ListMoods 返回时间窗内的心情记录，按日期倒序
func (s *JournalService) ListMoods(userID uint, createdAfter time.Time, limit int) ([]db.JournalMood, error) {
	var moods []db.JournalMood

	query := s.db.Where("user_id = ?", userID)
	if !createdAfter.IsZero() {
		query = query.Where("created_at >= ?", createdAfter)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Order("date DESC").Find(&moods).Error; err != nil {
		return nil, fmt.Errorf("list journal moods: %w", err)
	}
	return moods, nil
}
