package db

import (
	"time"

	"gorm.io/gorm"
)

// CalendarEvent 定义了日历事件模型
// AllDay 为真时 Start/End 仅日期部分有意义
// Recurrence 支持 none/daily/weekly/monthly/yearly，母事件通过展开服务生成实例
type CalendarEvent struct {
	gorm.Model
	UserID            uint `gorm:"index"`
	Summary           string
	Description       string
	Location          string
	Start             time.Time `gorm:"index"`
	End               time.Time
	AllDay            bool
	CalendarSource    string
	ICalUID           string
	Recurrence        string
	RecurrenceEnd     *time.Time
	RecurringInstance bool
	RecurringMasterID string
}
