package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/flohub/flohub/internal/db"
	"github.com/flohub/flohub/internal/service"
	"github.com/gin-gonic/gin"
)

type taskPayload struct {
	Text    string `json:"text"`
	DueDate string `json:"due_date"`
	Source  string `json:"source"`
}

// ListTasks 返回任务列表 JSON，支持 done 过滤
func (a *API) ListTasks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	filter := service.TaskFilter{}
	if raw := c.Query("done"); raw != "" {
		done, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid done filter")
			return
		}
		filter.Done = &done
	}

	tasks, err := a.tasks.List(userID, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	items := make([]gin.H, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskToPayload(task))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": items})
}

// CreateTask 创建任务
func (a *API) CreateTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var payload taskPayload
	if !bindJSON(c, &payload, "invalid task payload") {
		return
	}

	duePtr, valid := parseOptionalDate(payload.DueDate)
	if !valid {
		respondError(c, http.StatusBadRequest, "invalid due date")
		return
	}

	task, err := a.tasks.Create(userID, service.TaskInput{
		Text:    payload.Text,
		DueDate: duePtr,
		Source:  payload.Source,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": taskToPayload(*task)})
}

// SetTaskDone 更新任务完成状态
func (a *API) SetTaskDone(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid task id")
		return
	}

	var payload struct {
		Done bool `json:"done"`
	}
	if !bindJSON(c, &payload, "invalid task payload") {
		return
	}

	task, err := a.tasks.SetDone(userID, id, payload.Done)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "task not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": taskToPayload(*task)})
}

// DeleteTask 删除任务
func (a *API) DeleteTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := a.tasks.Delete(userID, id); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "task not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func taskToPayload(task db.Task) gin.H {
	item := gin.H{
		"id":         task.ID,
		"text":       task.Text,
		"done":       task.Done,
		"source":     task.Source,
		"created_at": task.CreatedAt.Format(time.RFC3339),
	}
	if task.DueDate != nil {
		item["due_date"] = task.DueDate.Format(dateFormat)
	}
	return item
}
