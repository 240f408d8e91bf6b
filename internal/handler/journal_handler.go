package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/flohub/flohub/internal/service"
	"github.com/gin-gonic/gin"
)

// UpsertJournalEntry 写入/覆盖某天的日记
func (a *API) UpsertJournalEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var payload struct {
		Date    string `json:"date"`
		Content string `json:"content"`
	}
	if !bindJSON(c, &payload, "invalid journal payload") {
		return
	}

	date, err := time.Parse(dateFormat, strings.TrimSpace(payload.Date))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid journal date")
		return
	}

	entry, err := a.journal.UpsertEntry(userID, service.JournalEntryInput{Date: date, Content: payload.Content})
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": gin.H{
		"id":      entry.ID,
		"date":    entry.Date,
		"content": entry.Content,
	}})
}

// UpsertJournalMood 写入/覆盖某天的心情
func (a *API) UpsertJournalMood(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var payload struct {
		Date string `json:"date"`
		Mood string `json:"mood"`
	}
	if !bindJSON(c, &payload, "invalid mood payload") {
		return
	}

	date, err := time.Parse(dateFormat, strings.TrimSpace(payload.Date))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid mood date")
		return
	}

	mood, err := a.journal.UpsertMood(userID, service.JournalMoodInput{Date: date, Mood: payload.Mood})
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"mood": gin.H{
		"date": mood.Date,
		"mood": mood.Mood,
	}})
}

// ListJournalEntries 返回日记列表，按创建时间倒序
func (a *API) ListJournalEntries(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entries, err := a.journal.ListEntries(userID, time.Time{}, 0)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list journal entries")
		return
	}

	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		items = append(items, gin.H{
			"id":      entry.ID,
			"date":    entry.Date,
			"content": entry.Content,
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": items})
}

// ListJournalMoods 返回心情记录，按日期倒序
func (a *API) ListJournalMoods(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	moods, err := a.journal.ListMoods(userID, time.Time{}, 0)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list moods")
		return
	}

	items := make([]gin.H, 0, len(moods))
	for _, mood := range moods {
		items = append(items, gin.H{
			"date": mood.Date,
			"mood": mood.Mood,
		})
	}
	c.JSON(http.StatusOK, gin.H{"moods": items})
}
