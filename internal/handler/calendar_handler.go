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

type calendarEventPayload struct {
	Summary        string `json:"summary"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	Start          string `json:"start"`
	End            string `json:"end"`
	AllDay         bool   `json:"all_day"`
	CalendarSource string `json:"calendar_source"`
	ICalUID        string `json:"ical_uid"`
	Recurrence     string `json:"recurrence"`
	RecurrenceEnd  string `json:"recurrence_end"`
}

// ListCalendarEvents 返回事件列表，支持 start/end（RFC3339）区间过滤
func (a *API) ListCalendarEvents(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	startRaw := c.Query("start")
	endRaw := c.Query("end")

	var events []db.CalendarEvent
	var err error
	if startRaw != "" && endRaw != "" {
		start, startErr := time.Parse(time.RFC3339, startRaw)
		end, endErr := time.Parse(time.RFC3339, endRaw)
		if startErr != nil || endErr != nil {
			respondError(c, http.StatusBadRequest, "invalid time range")
			return
		}
		events, err = a.calendar.ListBetween(userID, start, end)
	} else {
		events, err = a.calendar.List(userID)
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list events")
		return
	}

	items := make([]gin.H, 0, len(events))
	for _, event := range events {
		items = append(items, eventToPayload(event))
	}
	c.JSON(http.StatusOK, gin.H{"events": items})
}

// CreateCalendarEvent 创建事件，循环母事件会自动展开实例
func (a *API) CreateCalendarEvent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var payload calendarEventPayload
	if !bindJSON(c, &payload, "invalid event payload") {
		return
	}

	start, err := time.Parse(time.RFC3339, payload.Start)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid event start")
		return
	}
	end, err := time.Parse(time.RFC3339, payload.End)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid event end")
		return
	}

	var recurrenceEnd *time.Time
	if raw := strings.TrimSpace(payload.RecurrenceEnd); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid recurrence end")
			return
		}
		recurrenceEnd = &parsed
	}

	event, err := a.calendar.Create(userID, service.CalendarEventInput{
		Summary:        payload.Summary,
		Description:    payload.Description,
		Location:       payload.Location,
		Start:          start,
		End:            end,
		AllDay:         payload.AllDay,
		CalendarSource: payload.CalendarSource,
		ICalUID:        payload.ICalUID,
		Recurrence:     payload.Recurrence,
		RecurrenceEnd:  recurrenceEnd,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": eventToPayload(*event)})
}

// DeleteCalendarEvent 删除事件及其循环实例
func (a *API) DeleteCalendarEvent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := a.calendar.Delete(userID, id); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			respondError(c, http.StatusNotFound, "event not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func eventToPayload(event db.CalendarEvent) gin.H {
	item := gin.H{
		"id":                 event.ID,
		"summary":            event.Summary,
		"description":        event.Description,
		"location":           event.Location,
		"start":              event.Start.Format(time.RFC3339),
		"end":                event.End.Format(time.RFC3339),
		"all_day":            event.AllDay,
		"calendar_source":    event.CalendarSource,
		"ical_uid":           event.ICalUID,
		"recurrence":         event.Recurrence,
		"recurring_instance": event.RecurringInstance,
	}
	if event.RecurringMasterID != "" {
		item["recurring_master_id"] = event.RecurringMasterID
	}
	if event.RecurrenceEnd != nil {
		item["recurrence_end"] = event.RecurrenceEnd.Format(time.RFC3339)
	}
	return item
}
