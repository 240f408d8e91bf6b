package db

import "gorm.io/gorm"

// Habit 定义了习惯模型
// Frequency 支持 daily/weekly/custom；custom 时 CustomDays 保存逗号分隔的星期序号（0=周日）
type Habit struct {
	gorm.Model
	UserID     uint `gorm:"index"`
	Name       string
	Frequency  string
	CustomDays string
}

// HabitCompletion 记录习惯打卡
// Habit + Date 采用唯一索引，保证幂等；Date 存储 "2006-01-02" 日期串
type HabitCompletion struct {
	gorm.Model
	HabitID   uint   `gorm:"index;index:idx_habit_completion_unique,unique"`
	Habit     Habit  `gorm:"constraint:OnDelete:CASCADE"`
	Date      string `gorm:"index:idx_habit_completion_unique,unique"`
	Completed bool
}

// TableName 重写确保唯一索引作用到 habit_id + date
func (HabitCompletion) TableName() string {
	return "habit_completions"
}
