package db

import "gorm.io/gorm"

// Note 定义了笔记模型
// Title/Content 可能存储加密信封 JSON（{"isEncrypted":true,...}），读取时在边界处统一解码
// EventID 非空或 IsAdhoc 为真（或标题含 "meeting"）时该笔记被视作会议记录
type Note struct {
	gorm.Model
	UserID  uint `gorm:"index"`
	Title   string
	Content string
	Tags    []Tag `gorm:"many2many:note_tags;"`
	EventID string
	IsAdhoc bool
	Actions []NoteAction `gorm:"constraint:OnDelete:CASCADE"`
}

// NoteAction 记录会议笔记中的行动项
type NoteAction struct {
	gorm.Model
	NoteID      uint `gorm:"index"`
	Description string
	AssignedTo  string
	Status      string
}

// Tag 定义了笔记标签模型
type Tag struct {
	gorm.Model
	Name string `gorm:"unique"`
}
