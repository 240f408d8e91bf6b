package handler

import (
	"github.com/flohub/flohub/internal/assistant"
	"github.com/flohub/flohub/internal/secure"
	"github.com/flohub/flohub/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	tasks     *service.TaskService
	notes     *service.NoteService
	habits    *service.HabitService
	journal   *service.JournalService
	calendar  *service.CalendarService
	settings  *service.UserSettingService
	assistant *assistant.Assistant
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, codec *secure.Codec) *API {
	return &API{
		db:        gdb,
		tasks:     service.NewTaskService(gdb),
		notes:     service.NewNoteService(gdb),
		habits:    service.NewHabitService(gdb),
		journal:   service.NewJournalService(gdb),
		calendar:  service.NewCalendarService(gdb),
		settings:  service.NewUserSettingService(gdb),
		assistant: assistant.New(gdb, codec),
	}
}

// WithDefaultTimezone sets the fallback timezone used when a user has
// not configured one.
func (a *API) WithDefaultTimezone(tz string) *API {
	a.settings.WithDefaultTimezone(tz)
	a.assistant.WithDefaultTimezone(tz)
	return a
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
