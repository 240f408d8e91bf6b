package router

import (
	"net/http"

	"github.com/flohub/flohub/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// sessionMaxAge 为会话 Cookie 的有效期（7 天）
const sessionMaxAge = 7 * 24 * 60 * 60

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	// 库默认 Secure+SameSite=None，纯 HTTP 部署下浏览器不会回传 Cookie，必须显式覆盖
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("flohub_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.POST("/api/auth/login", api.Login)
	r.POST("/api/auth/logout", api.Logout)

	// 需要认证的业务路由
	authed := r.Group("/api")
	authed.Use(handler.AuthRequired())
	{
		authed.GET("/tasks", api.ListTasks)
		authed.POST("/tasks", api.CreateTask)
		authed.PUT("/tasks/:id/done", api.SetTaskDone)
		authed.DELETE("/tasks/:id", api.DeleteTask)

		authed.GET("/notes", api.ListNotes)
		authed.GET("/notes/meetings", api.ListMeetingNotes)
		authed.GET("/notes/:id", api.GetNote)
		authed.POST("/notes", api.CreateNote)
		authed.DELETE("/notes/:id", api.DeleteNote)

		authed.GET("/habits", api.ListHabits)
		authed.POST("/habits", api.CreateHabit)
		authed.PUT("/habits/:id", api.UpdateHabit)
		authed.DELETE("/habits/:id", api.DeleteHabit)
		authed.POST("/habits/:id/completions", api.LogHabitCompletion)
		authed.GET("/habits/:id/consistency", api.GetHabitConsistency)

		authed.GET("/journal/entries", api.ListJournalEntries)
		authed.POST("/journal/entries", api.UpsertJournalEntry)
		authed.GET("/journal/moods", api.ListJournalMoods)
		authed.POST("/journal/moods", api.UpsertJournalMood)

		authed.GET("/calendar/events", api.ListCalendarEvents)
		authed.POST("/calendar/events", api.CreateCalendarEvent)
		authed.DELETE("/calendar/events/:id", api.DeleteCalendarEvent)

		authed.GET("/settings", api.GetUserSettings)
		authed.PUT("/settings", api.UpdateUserSettings)

		authed.POST("/assistant", api.AskAssistant)
		authed.POST("/assistant/html", api.AskAssistantHTML)
	}

	return r
}
