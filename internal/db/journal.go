package db

import "gorm.io/gorm"

// JournalEntry 定义了日记模型
// Content 可能为加密信封 JSON；Date 存储 "2006-01-02" 日期串
type JournalEntry struct {
	gorm.Model
	UserID  uint `gorm:"index"`
	Date    string
	Content string
}

// JournalMood 记录当日心情标签
// UserID + Date 唯一，重复记录走覆盖语义
type JournalMood struct {
	gorm.Model
	UserID uint   `gorm:"index;index:idx_journal_mood_unique,unique"`
	Date   string `gorm:"index:idx_journal_mood_unique,unique"`
	Mood   string
}
