package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/flohub/flohub/internal/db"
	"github.com/flohub/flohub/internal/service"
	"github.com/gin-gonic/gin"
)

type noteActionPayload struct {
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to"`
	Status      string `json:"status"`
}

type notePayload struct {
	Title   string              `json:"title"`
	Content string              `json:"content"`
	Tags    []string            `json:"tags"`
	EventID string              `json:"event_id"`
	IsAdhoc bool                `json:"is_adhoc"`
	Actions []noteActionPayload `json:"actions"`
}

// ListNotes 返回笔记列表 JSON
func (a *API) ListNotes(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	notes, err := a.notes.List(userID, service.NoteFilter{})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": serializeNotes(notes)})
}

// ListMeetingNotes 返回会议记录（EventID 关联、临时会议或标题含 meeting 的笔记）
func (a *API) ListMeetingNotes(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	notes, err := a.notes.ListMeetings(userID, service.NoteFilter{})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list meeting notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": serializeNotes(notes)})
}

// GetNote 返回单条笔记详情
func (a *API) GetNote(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid note id")
		return
	}

	note, err := a.notes.Get(userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			respondError(c, http.StatusNotFound, "note not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load note")
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": noteToPayload(*note)})
}

// CreateNote 创建笔记；带 EventID 或 IsAdhoc 的笔记视为会议记录
func (a *API) CreateNote(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var payload notePayload
	if !bindJSON(c, &payload, "invalid note payload") {
		return
	}

	actions := make([]service.NoteActionInput, 0, len(payload.Actions))
	for _, action := range payload.Actions {
		actions = append(actions, service.NoteActionInput{
			Description: action.Description,
			AssignedTo:  action.AssignedTo,
			Status:      action.Status,
		})
	}

	note, err := a.notes.Create(userID, service.NoteInput{
		Title:   payload.Title,
		Content: payload.Content,
		Tags:    payload.Tags,
		EventID: payload.EventID,
		IsAdhoc: payload.IsAdhoc,
		Actions: actions,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"note": noteToPayload(*note)})
}

// DeleteNote 删除笔记及其行动项
func (a *API) DeleteNote(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid note id")
		return
	}

	if err := a.notes.Delete(userID, id); err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			respondError(c, http.StatusNotFound, "note not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete note")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func serializeNotes(notes []db.Note) []gin.H {
	items := make([]gin.H, 0, len(notes))
	for _, note := range notes {
		items = append(items, noteToPayload(note))
	}
	return items
}

func noteToPayload(note db.Note) gin.H {
	tags := make([]string, 0, len(note.Tags))
	for _, tag := range note.Tags {
		tags = append(tags, tag.Name)
	}

	actions := make([]gin.H, 0, len(note.Actions))
	for _, action := range note.Actions {
		actions = append(actions, gin.H{
			"id":          action.ID,
			"description": action.Description,
			"assigned_to": action.AssignedTo,
			"status":      action.Status,
		})
	}

	return gin.H{
		"id":         note.ID,
		"title":      note.Title,
		"content":    note.Content,
		"tags":       tags,
		"event_id":   note.EventID,
		"is_adhoc":   note.IsAdhoc,
		"actions":    actions,
		"created_at": note.CreatedAt.Format(time.RFC3339),
	}
}
