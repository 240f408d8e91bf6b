package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flohub/flohub/internal/db"
	"gorm.io/gorm"
)

// ErrNoteNotFound 在指定笔记不存在时返回
var ErrNoteNotFound = errors.New("note not found")

// NoteService 负责 Note 数据的增删改查
// 会议记录也是 Note：EventID 非空、IsAdhoc 为真或标题含 "meeting"
type NoteService struct {
	db *gorm.DB
}

// NoteInput 定义创建笔记时可配置字段
type NoteInput struct {
	Title   string
	Content string
	Tags    []string
	EventID string
	IsAdhoc bool
	Actions []NoteActionInput
}

// NoteActionInput 描述会议行动项
type NoteActionInput struct {
	Description string
	AssignedTo  string
	Status      string
}

// NoteFilter 描述笔记列表过滤条件
type NoteFilter struct {
	CreatedAfter time.Time
	Limit        int
}

// NewNoteService 构造 NoteService
func NewNoteService(gdb *gorm.DB) *NoteService {
	return &NoteService{db: gdb}
}

// List 返回用户的笔记集合，按创建时间倒序
func (s *NoteService) List(userID uint, filter NoteFilter) ([]db.Note, error) {
	var notes []db.Note

	query := s.db.Preload("Tags").Preload("Actions").Where("user_id = ?", userID)
	if !filter.CreatedAfter.IsZero() {
		query = query.Where("created_at >= ?", filter.CreatedAfter)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	return notes, nil
}

// ListMeetings 返回会议类笔记
func (s *NoteService) ListMeetings(userID uint, filter NoteFilter) ([]db.Note, error) {
	notes, err := s.List(userID, filter)
	if err != nil {
		return nil, err
	}

	meetings := make([]db.Note, 0, len(notes))
	for _, note := range notes {
		if IsMeetingNote(note) {
			meetings = append(meetings, note)
		}
	}
	return meetings, nil
}

// IsMeetingNote 判断一条笔记是否属于会议记录
func IsMeetingNote(note db.Note) bool {
	if note.EventID != "" || note.IsAdhoc {
		return true
	}
	return strings.Contains(strings.ToLower(note.Title), "meeting")
}

// Get 根据 ID 获取笔记
func (s *NoteService) Get(userID, id uint) (*db.Note, error) {
	var note db.Note
	if err := s.db.Preload("Tags").Preload("Actions").
		Where("user_id = ?", userID).First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &note, nil
}

// Create 新建笔记，标签不存在时自动补建
func (s *NoteService) Create(userID uint, input NoteInput) (*db.Note, error) {
	title := strings.TrimSpace(input.Title)
	content := input.Content
	if title == "" && strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("note title or content is required")
	}

	tags, err := s.ensureTags(input.Tags)
	if err != nil {
		return nil, err
	}

	note := db.Note{
		UserID:  userID,
		Title:   title,
		Content: content,
		Tags:    tags,
		EventID: strings.TrimSpace(input.EventID),
		IsAdhoc: input.IsAdhoc,
	}
	for _, action := range input.Actions {
		desc := strings.TrimSpace(action.Description)
		if desc == "" {
			continue
		}
		status := strings.TrimSpace(action.Status)
		if status == "" {
			status = "open"
		}
		note.Actions = append(note.Actions, db.NoteAction{
			Description: desc,
			AssignedTo:  strings.TrimSpace(action.AssignedTo),
			Status:      status,
		})
	}

	if err := s.db.Create(&note).Error; err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return &note, nil
}

// Delete 删除指定笔记
func (s *NoteService) Delete(userID, id uint) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&db.Note{}, id).Error; err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (s *NoteService) ensureTags(names []string) ([]db.Tag, error) {
	tags := make([]db.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" || seen[strings.ToLower(trimmed)] {
			continue
		}
		seen[strings.ToLower(trimmed)] = true

		var tag db.Tag
		if err := s.db.Where("name = ?", trimmed).First(&tag).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("find tag: %w", err)
			}
			tag = db.Tag{Name: trimmed}
			if err := s.db.Create(&tag).Error; err != nil {
				return nil, fmt.Errorf("create tag: %w", err)
			}
		}
		tags = append(tags, tag)
	}

	return tags, nil
}
