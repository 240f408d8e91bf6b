package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/flohub/flohub/internal/db"
	"github.com/flohub/flohub/internal/service"
	"github.com/gin-gonic/gin"
)

// consistencyWindowDays 为统计接口的默认回看窗口
const consistencyWindowDays = 30

type habitPayload struct {
	Name       string `json:"name"`
	Frequency  string `json:"frequency"`
	CustomDays []int  `json:"custom_days"`
}

// ListHabits 返回习惯列表 JSON
func (a *API) ListHabits(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	habits, err := a.habits.List(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list habits")
		return
	}

	items := make([]gin.H, 0, len(habits))
	for _, habit := range habits {
		items = append(items, habitToPayload(habit))
	}
	c.JSON(http.StatusOK, gin.H{"habits": items})
}

// CreateHabit 创建习惯
func (a *API) CreateHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var payload habitPayload
	if !bindJSON(c, &payload, "invalid habit payload") {
		return
	}

	habit, err := a.habits.Create(userID, service.HabitInput{
		Name:       payload.Name,
		Frequency:  payload.Frequency,
		CustomDays: payload.CustomDays,
	})
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"habit": habitToPayload(*habit)})
}

// UpdateHabit 更新习惯
func (a *API) UpdateHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid habit id")
		return
	}

	var payload habitPayload
	if !bindJSON(c, &payload, "invalid habit payload") {
		return
	}

	habit, err := a.habits.Update(userID, id, service.HabitInput{
		Name:       payload.Name,
		Frequency:  payload.Frequency,
		CustomDays: payload.CustomDays,
	})
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitToPayload(*habit)})
}

// DeleteHabit 删除习惯
func (a *API) DeleteHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid habit id")
		return
	}

	if err := a.habits.Delete(userID, id); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete habit")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// LogHabitCompletion 记录某天的打卡状态，同日重复提交为幂等更新
func (a *API) LogHabitCompletion(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	habitID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid habit id")
		return
	}

	// 校验归属，避免跨用户打卡
	if _, err := a.habits.Get(userID, habitID); err != nil {
		handleHabitError(c, err)
		return
	}

	var payload struct {
		Date      string `json:"date"`
		Completed bool   `json:"completed"`
	}
	if !bindJSON(c, &payload, "invalid completion payload") {
		return
	}

	date, err := time.Parse(dateFormat, strings.TrimSpace(payload.Date))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid completion date")
		return
	}

	completion, err := a.habits.UpsertCompletion(service.HabitCompletionInput{
		HabitID:   habitID,
		Date:      date,
		Completed: payload.Completed,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to record completion")
		return
	}

	c.JSON(http.StatusOK, gin.H{"completion": gin.H{
		"habit_id":  completion.HabitID,
		"date":      completion.Date,
		"completed": completion.Completed,
	}})
}

// GetHabitConsistency 返回最近 30 天的坚持度统计
func (a *API) GetHabitConsistency(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	habitID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid habit id")
		return
	}

	habit, err := a.habits.Get(userID, habitID)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(consistencyWindowDays - 1))

	completions, err := a.habits.ListCompletions(habitID, start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load completions")
		return
	}

	stats := service.Consistency(*habit, completions, start, end)
	c.JSON(http.StatusOK, gin.H{"consistency": gin.H{
		"habit_id":        habit.ID,
		"range_start":     start.Format(dateFormat),
		"range_end":       end.Format(dateFormat),
		"completed_count": stats.CompletedCount,
		"expected_count":  stats.ExpectedCount,
		"percent":         stats.Percent,
		"current_streak":  stats.CurrentStreak,
		"longest_streak":  stats.LongestStreak,
	}})
}

func habitToPayload(habit db.Habit) gin.H {
	return gin.H{
		"id":          habit.ID,
		"name":        habit.Name,
		"frequency":   habit.Frequency,
		"custom_days": habit.CustomDays,
	}
}

func handleHabitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHabitNotFound):
		respondError(c, http.StatusNotFound, "habit not found")
	case errors.Is(err, service.ErrHabitInvalidFrequency):
		respondError(c, http.StatusBadRequest, "invalid habit frequency")
	default:
		respondError(c, http.StatusInternalServerError, "habit operation failed")
	}
}
