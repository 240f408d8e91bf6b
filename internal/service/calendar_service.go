package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flohub/flohub/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrEventNotFound 在指定事件不存在时返回
var ErrEventNotFound = errors.New("calendar event not found")

// maxRecurringInstances 限制单个母事件展开出的实例数，防御配置错误的循环规则
const maxRecurringInstances = 100

// CalendarService 负责日历事件数据，包括循环事件展开
// 循环展开用于 PowerAutomate 等上游未自行展开母事件的场景
type CalendarService struct {
	db *gorm.DB
}

// CalendarEventInput 定义创建事件时可配置字段
type CalendarEventInput struct {
	Summary        string
	Description    string
	Location       string
	Start          time.Time
	End            time.Time
	AllDay         bool
	CalendarSource string
	ICalUID        string
	Recurrence     string
	RecurrenceEnd  *time.Time
}

// NewCalendarService 构造 CalendarService
func NewCalendarService(gdb *gorm.DB) *CalendarService {
	return &CalendarService{db: gdb}
}

// ListBetween 返回起止时间内的事件，按开始时间升序
func (s *CalendarService) ListBetween(userID uint, start, end time.Time) ([]db.CalendarEvent, error) {
	var events []db.CalendarEvent
	if err := s.db.Where("user_id = ?", userID).
		Where("start >= ? AND start < ?", start, end).
		Order("start ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

// List 返回用户全部事件
func (s *CalendarService) List(userID uint) ([]db.CalendarEvent, error) {
	var events []db.CalendarEvent
	if err := s.db.Where("user_id = ?", userID).
		Order("start ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

// Create 新建事件；循环母事件同时展开并落库实例
func (s *CalendarService) Create(userID uint, input CalendarEventInput) (*db.CalendarEvent, error) {
	if strings.TrimSpace(input.Summary) == "" {
		return nil, fmt.Errorf("event summary is required")
	}
	if input.End.Before(input.Start) {
		return nil, fmt.Errorf("event end before start")
	}

	event := db.CalendarEvent{
		UserID:         userID,
		Summary:        strings.TrimSpace(input.Summary),
		Description:    input.Description,
		Location:       strings.TrimSpace(input.Location),
		Start:          input.Start,
		End:            input.End,
		AllDay:         input.AllDay,
		CalendarSource: strings.TrimSpace(input.CalendarSource),
		ICalUID:        strings.TrimSpace(input.ICalUID),
		Recurrence:     normalizeRecurrence(input.Recurrence),
		RecurrenceEnd:  input.RecurrenceEnd,
	}

	// 循环母事件必须带 UID 落库，否则删除时无法联动清理实例
	if event.Recurrence != "" && event.Recurrence != "none" && event.ICalUID == "" {
		event.ICalUID = generateMasterUID(event.Summary)
	}

	if err := s.db.Create(&event).Error; err != nil {
		return nil, fmt.Errorf("create calendar event: %w", err)
	}

	if event.Recurrence != "" && event.Recurrence != "none" {
		instances := ExpandRecurring(event)
		// 首个实例与母事件同日，跳过避免重复展示
		for _, instance := range instances {
			if instance.Start.Equal(event.Start) {
				continue
			}
			if err := s.db.Create(&instance).Error; err != nil {
				return nil, fmt.Errorf("create recurring instance: %w", err)
			}
		}
	}

	return &event, nil
}

// Delete 删除事件及其展开出的实例
func (s *CalendarService) Delete(userID, id uint) error {
	var event db.CalendarEvent
	if err := s.db.Where("user_id = ?", userID).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("find calendar event: %w", err)
	}

	if event.ICalUID != "" {
		if err := s.db.Where("user_id = ? AND recurring_master_id = ?", userID, event.ICalUID).
			Delete(&db.CalendarEvent{}).Error; err != nil {
			return fmt.Errorf("delete recurring instances: %w", err)
		}
	}

	if err := s.db.Delete(&event).Error; err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

// ExpandRecurring 将循环母事件展开为独立实例
// 展开保持事件时长不变，直到 RecurrenceEnd 或达到实例上限
func ExpandRecurring(master db.CalendarEvent) []db.CalendarEvent {
	rule := normalizeRecurrence(master.Recurrence)
	if rule == "" || rule == "none" {
		return []db.CalendarEvent{master}
	}
	if master.RecurrenceEnd == nil {
		return []db.CalendarEvent{master}
	}

	masterUID := master.ICalUID
	if masterUID == "" {
		masterUID = generateMasterUID(master.Summary)
	}

	duration := master.End.Sub(master.Start)
	end := *master.RecurrenceEnd

	var instances []db.CalendarEvent
	current := master.Start
	for !current.After(end) && len(instances) < maxRecurringInstances {
		instance := master
		instance.Model = gorm.Model{}
		instance.Start = current
		instance.End = current.Add(duration)
		instance.Recurrence = ""
		instance.RecurrenceEnd = nil
		instance.RecurringInstance = true
		instance.RecurringMasterID = masterUID
		instance.ICalUID = fmt.Sprintf("%s_%s", masterUID, current.Format("20060102"))

		instances = append(instances, instance)

		switch rule {
		case "daily":
			current = current.AddDate(0, 0, 1)
		case "weekly":
			current = current.AddDate(0, 0, 7)
		case "monthly":
			current = current.AddDate(0, 1, 0)
		case "yearly":
			current = current.AddDate(1, 0, 0)
		default:
			return []db.CalendarEvent{master}
		}
	}

	return instances
}

func normalizeRecurrence(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func generateMasterUID(summary string) string {
	base := strings.ReplaceAll(strings.ToLower(summary), " ", "_")
	return fmt.Sprintf("%s_%s", base, uuid.NewString()[:8])
}
