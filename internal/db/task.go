package db

import (
	"time"

	"gorm.io/gorm"
)

// Task 定义了待办任务模型
// Source 标记任务来源（manual/assistant 等），由助手创建的任务写入 "assistant"
type Task struct {
	gorm.Model
	UserID  uint `gorm:"index"`
	Text    string
	Done    bool `gorm:"default:false"`
	DueDate *time.Time
	Source  string
}
