package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flohub/flohub/internal/db"
	"github.com/flohub/flohub/internal/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTest(t *testing.T) (*gin.Engine, *API, db.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&db.User{},
		&db.Task{},
		&db.Note{},
		&db.NoteAction{},
		&db.Tag{},
		&db.Habit{},
		&db.HabitCompletion{},
		&db.JournalEntry{},
		&db.JournalMood{},
		&db.CalendarEvent{},
		&db.UserSetting{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := db.User{Username: "demo", Password: string(hashed)}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	api := NewAPI(gdb, secure.NewCodec("handler-test-secret"))

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("flohub_session", store))

	return r, api, user
}

// loggedInAs 注入带会话的测试登录中间件
func loggedInAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(sessionUserIDKey, userID)
		_ = session.Save()
		c.Next()
	}
}

func jsonRequest(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSuccessAndFailure(t *testing.T) {
	r, api, _ := setupHandlerTest(t)
	r.POST("/login", api.Login)

	w := jsonRequest(t, r, http.MethodPost, "/login", gin.H{"username": "demo", "password": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("login expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	w = jsonRequest(t, r, http.MethodPost, "/login", gin.H{"username": "demo", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login expected 401, got %d", w.Code)
	}

	w = jsonRequest(t, r, http.MethodPost, "/login", gin.H{"username": "ghost", "password": "secret"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user expected 401, got %d", w.Code)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	r, api, user := setupHandlerTest(t)
	r.POST("/tasks", loggedInAs(user.ID), api.CreateTask)

	w := jsonRequest(t, r, http.MethodPost, "/tasks", gin.H{"text": "Buy milk", "due_date": "2026-04-01"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"done":false`) {
		t.Fatalf("new task should be open: %s", w.Body.String())
	}

	w = jsonRequest(t, r, http.MethodPost, "/tasks", gin.H{"text": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank text expected 400, got %d", w.Code)
	}

	w = jsonRequest(t, r, http.MethodPost, "/tasks", gin.H{"text": "X", "due_date": "not-a-date"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad due date expected 400, got %d", w.Code)
	}
}

func TestSetTaskDoneWrongUser(t *testing.T) {
	r, api, user := setupHandlerTest(t)

	var other db.User
	other.Username = "other"
	other.Password = "x"
	if err := api.DB().Create(&other).Error; err != nil {
		t.Fatalf("failed to seed second user: %v", err)
	}

	task := db.Task{UserID: user.ID, Text: "Mine"}
	if err := api.DB().Create(&task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	r.PUT("/tasks/:id/done", loggedInAs(other.ID), api.SetTaskDone)
	w := jsonRequest(t, r, http.MethodPut, "/tasks/1/done", gin.H{"done": true})
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-user update expected 404, got %d", w.Code)
	}
}

func TestHabitConsistencyEndpoint(t *testing.T) {
	r, api, user := setupHandlerTest(t)
	r.POST("/habits", loggedInAs(user.ID), api.CreateHabit)
	r.GET("/habits/:id/consistency", loggedInAs(user.ID), api.GetHabitConsistency)

	w := jsonRequest(t, r, http.MethodPost, "/habits", gin.H{"name": "Read", "frequency": "daily"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create habit expected 201, got %d", w.Code)
	}

	w = jsonRequest(t, r, http.MethodGet, "/habits/1/consistency", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("consistency expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"expected_count":30`) {
		t.Fatalf("daily habit over 30 days should expect 30: %s", w.Body.String())
	}
}

func TestRenderMarkdownSanitizesHTML(t *testing.T) {
	rendered, err := renderMarkdown("**bold** <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("renderMarkdown returned error: %v", err)
	}
	if !strings.Contains(rendered, "<strong>bold</strong>") {
		t.Fatalf("markdown not rendered: %q", rendered)
	}
	if strings.Contains(rendered, "<script>") {
		t.Fatalf("script tag survived sanitization: %q", rendered)
	}
}

func TestAskAssistantEndpoint(t *testing.T) {
	r, api, user := setupHandlerTest(t)
	r.POST("/assistant", loggedInAs(user.ID), api.AskAssistant)

	w := jsonRequest(t, r, http.MethodPost, "/assistant", gin.H{"query": "add task water the plants"})
	if w.Code != http.StatusOK {
		t.Fatalf("assistant expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "water the plants") {
		t.Fatalf("assistant reply missing task text: %s", w.Body.String())
	}

	var count int64
	if err := api.DB().Model(&db.Task{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 persisted task, got %d", count)
	}
}
