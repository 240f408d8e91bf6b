package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flohub/flohub/internal/db"
	"gorm.io/gorm"
)

// ErrTaskNotFound 在指定任务不存在时返回
var ErrTaskNotFound = errors.New("task not found")

// TaskService 负责 Task 数据的增删改查
type TaskService struct {
	db *gorm.DB
}

// TaskInput 定义创建/更新任务时可配置字段
type TaskInput struct {
	Text    string
	DueDate *time.Time
	Source  string
}

// TaskFilter 描述任务列表过滤条件
type TaskFilter struct {
	Done         *bool
	CreatedAfter time.Time
	Limit        int
}

// NewTaskService 构造 TaskService
func NewTaskService(gdb *gorm.DB) *TaskService {
	return &TaskService{db: gdb}
}

// List 返回用户的任务集合，支持完成状态与时间窗过滤
func (s *TaskService) List(userID uint, filter TaskFilter) ([]db.Task, error) {
	var tasks []db.Task

	query := s.db.Where("user_id = ?", userID)
	if filter.Done != nil {
		query = query.Where("done = ?", *filter.Done)
	}
	if !filter.CreatedAfter.IsZero() {
		query = query.Where("created_at >= ?", filter.CreatedAfter)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// Create 新建任务，Done 初始为 false
func (s *TaskService) Create(userID uint, input TaskInput) (*db.Task, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("task text is required")
	}

	task := db.Task{
		UserID:  userID,
		Text:    text,
		Done:    false,
		DueDate: input.DueDate,
		Source:  strings.TrimSpace(input.Source),
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

// SetDone 更新任务完成状态
func (s *TaskService) SetDone(userID, id uint, done bool) (*db.Task, error) {
	var task db.Task
	if err := s.db.Where("user_id = ?", userID).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	task.Done = done
	if err := s.db.Save(&task).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &task, nil
}

// Delete 删除指定任务
func (s *TaskService) Delete(userID, id uint) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&db.Task{}, id).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
