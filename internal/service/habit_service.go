package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/flohub/flohub/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrHabitNotFound 在指定习惯不存在时返回
	ErrHabitNotFound = errors.New("habit not found")
	// ErrHabitInvalidFrequency 当频率配置异常时返回
	ErrHabitInvalidFrequency = errors.New("invalid habit frequency configuration")
)

// dateLayout 为打卡日期的存储格式
const dateLayout = "2006-01-02"

// HabitService 负责习惯及打卡数据
// Frequency 支持 daily/weekly/custom；custom 需提供 CustomDays（0=周日 ... 6=周六）
type HabitService struct {
	db *gorm.DB
}

// HabitInput 定义创建/更新习惯时可配置字段
type HabitInput struct {
	Name       string
	Frequency  string
	CustomDays []int
}

// HabitCompletionInput 定义打卡输入
type HabitCompletionInput struct {
	HabitID   uint
	Date      time.Time
	Completed bool
}

// HabitConsistency 汇总单个习惯在统计窗口内的坚持情况
type HabitConsistency struct {
	Habit          db.Habit
	CompletedCount int
	ExpectedCount  int
	Percent        float64
	CurrentStreak  int
	LongestStreak  int
}

// NewHabitService 构造 HabitService
func NewHabitService(gdb *gorm.DB) *HabitService {
	return &HabitService{db: gdb}
}

// List 返回用户的全部习惯
func (s *HabitService) List(userID uint) ([]db.Habit, error) {
	var habits []db.Habit
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// Get 根据 ID 获取习惯
func (s *HabitService) Get(userID, id uint) (*db.Habit, error) {
	var habit db.Habit
	if err := s.db.Where("user_id = ?", userID).First(&habit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return &habit, nil
}

// Create 新建习惯
func (s *HabitService) Create(userID uint, input HabitInput) (*db.Habit, error) {
	if err := validateHabitInput(input); err != nil {
		return nil, err
	}

	habit := db.Habit{
		UserID:     userID,
		Name:       strings.TrimSpace(input.Name),
		Frequency:  strings.ToLower(strings.TrimSpace(input.Frequency)),
		CustomDays: joinDays(input.CustomDays),
	}

	if err := s.db.Create(&habit).Error; err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return &habit, nil
}

// Update 更新习惯
func (s *HabitService) Update(userID, id uint, input HabitInput) (*db.Habit, error) {
	if err := validateHabitInput(input); err != nil {
		return nil, err
	}

	var existing db.Habit
	if err := s.db.Where("user_id = ?", userID).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("find habit: %w", err)
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Frequency = strings.ToLower(strings.TrimSpace(input.Frequency))
	existing.CustomDays = joinDays(input.CustomDays)

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return &existing, nil
}

// Delete 删除习惯
func (s *HabitService) Delete(userID, id uint) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&db.Habit{}, id).Error; err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

// UpsertCompletion 处理幂等打卡：同一习惯同一天重复打卡只更新状态
func (s *HabitService) UpsertCompletion(input HabitCompletionInput) (*db.HabitCompletion, error) {
	if input.HabitID == 0 {
		return nil, fmt.Errorf("habit id is required")
	}

	record := db.HabitCompletion{
		HabitID:   input.HabitID,
		Date:      input.Date.Format(dateLayout),
		Completed: input.Completed,
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "habit_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert habit completion: %w", err)
	}

	if err := s.db.Where("habit_id = ? AND date = ?", input.HabitID, record.Date).
		First(&record).Error; err != nil {
		return nil, fmt.Errorf("reload habit completion: %w", err)
	}

	return &record, nil
}

// ListCompletions 返回区间内的打卡记录（按日期升序）
func (s *HabitService) ListCompletions(habitID uint, start, end time.Time) ([]db.HabitCompletion, error) {
	if habitID == 0 {
		return nil, fmt.Errorf("habit id is required")
	}

	var completions []db.HabitCompletion
	if err := s.db.Where("habit_id = ?", habitID).
		Where("date BETWEEN ? AND ?", start.Format(dateLayout), end.Format(dateLayout)).
		Order("date ASC").
		Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("list habit completions: %w", err)
	}

	return completions, nil
}

// ListUserCompletions 返回用户全部习惯在区间内的打卡记录
func (s *HabitService) ListUserCompletions(userID uint, start, end time.Time) ([]db.HabitCompletion, error) {
	var completions []db.HabitCompletion
	if err := s.db.Model(&db.HabitCompletion{}).
		Joins("JOIN habits ON habits.id = habit_completions.habit_id").
		Where("habits.user_id = ?", userID).
		Where("habit_completions.date BETWEEN ? AND ?", start.Format(dateLayout), end.Format(dateLayout)).
		Order("habit_completions.date ASC").
		Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("list user habit completions: %w", err)
	}
	return completions, nil
}

// Consistency 计算统计窗口内的坚持度：完成次数 / 期望次数 × 100
// 窗口外的打卡记录不计入，调用方传入超窗数据也不会把坚持度推过 100%
func Consistency(habit db.Habit, completions []db.HabitCompletion, start, end time.Time) HabitConsistency {
	result := HabitConsistency{Habit: habit}

	// 打卡日期按 dateLayout 存储，字典序等价于时间序
	startDate := start.Format(dateLayout)
	endDate := end.Format(dateLayout)

	for _, completion := range completions {
		if completion.HabitID != habit.ID || !completion.Completed {
			continue
		}
		if completion.Date < startDate || completion.Date > endDate {
			continue
		}
		result.CompletedCount++
	}

	result.ExpectedCount = ExpectedOccurrences(habit, start, end)
	if result.ExpectedCount > 0 {
		result.Percent = float64(result.CompletedCount) / float64(result.ExpectedCount) * 100
	}

	result.CurrentStreak, result.LongestStreak = completionStreaks(habit.ID, completions)

	return result
}

// ExpectedOccurrences 根据频率推算窗口内的期望打卡次数
func ExpectedOccurrences(habit db.Habit, start, end time.Time) int {
	if end.Before(start) {
		return 0
	}

	days := int(end.Sub(start).Hours()/24) + 1

	switch strings.ToLower(habit.Frequency) {
	case "daily":
		return days
	case "weekly":
		weeks := days / 7
		if weeks == 0 {
			weeks = 1
		}
		return weeks
	case "custom":
		wanted := parseDays(habit.CustomDays)
		if len(wanted) == 0 {
			return days
		}
		count := 0
		for d := 0; d < days; d++ {
			weekday := int(start.AddDate(0, 0, d).Weekday())
			if wanted[weekday] {
				count++
			}
		}
		return count
	default:
		return days
	}
}

func completionStreaks(habitID uint, completions []db.HabitCompletion) (current, longest int) {
	var dates []time.Time
	for _, completion := range completions {
		if completion.HabitID != habitID || !completion.Completed {
			continue
		}
		day, err := time.Parse(dateLayout, completion.Date)
		if err != nil {
			continue
		}
		dates = append(dates, day)
	}

	if len(dates) == 0 {
		return 0, 0
	}

	longest = 1
	current = 1
	for i := 1; i < len(dates); i++ {
		delta := int(dates[i].Sub(dates[i-1]).Hours() / 24)
		if delta == 1 {
			current++
			if current > longest {
				longest = current
			}
		} else if delta > 1 {
			current = 1
		}
	}

	return current, longest
}

func validateHabitInput(input HabitInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("habit name is required")
	}

	freq := strings.ToLower(strings.TrimSpace(input.Frequency))
	switch freq {
	case "daily", "weekly":
		return nil
	case "custom":
		if len(input.CustomDays) == 0 {
			return fmt.Errorf("%w: custom frequency needs days", ErrHabitInvalidFrequency)
		}
		for _, day := range input.CustomDays {
			if day < 0 || day > 6 {
				return fmt.Errorf("%w: day %d out of range", ErrHabitInvalidFrequency, day)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported frequency %s", ErrHabitInvalidFrequency, input.Frequency)
	}
}

func joinDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, strconv.Itoa(day))
	}
	return strings.Join(parts, ",")
}

func parseDays(raw string) map[int]bool {
	days := make(map[int]bool)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		day, err := strconv.Atoi(trimmed)
		if err != nil || day < 0 || day > 6 {
			continue
		}
		days[day] = true
	}
	return days
}
