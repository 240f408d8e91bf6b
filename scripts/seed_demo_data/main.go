package main

import (
	"fmt"
	"log"
	"time"

	"github.com/flohub/flohub/internal/config"
	"github.com/flohub/flohub/internal/db"
	"github.com/flohub/flohub/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	user := ensureDemoUser()
	createDemoTasks(user.ID)
	createDemoHabits(user.ID)
	createDemoEvents(user.ID)
	createDemoNotes(user.ID)
	createDemoJournal(user.ID)
	createDemoSettings(user.ID)

	fmt.Println("演示数据生成完成！")
	fmt.Println("用户: demo (密码: flohub123)")
}

// 创建演示用户
func ensureDemoUser() db.User {
	var user db.User
	if err := db.DB.Where("username = ?", "demo").First(&user).Error; err == nil {
		fmt.Println("用户已存在，跳过创建")
		return user
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("flohub123"), bcrypt.DefaultCost)
	user = db.User{
		Username:      "demo",
		Password:      string(hashedPassword),
		PreferredName: "Demo",
	}
	db.DB.Create(&user)

	fmt.Println("✅ 演示用户创建完成")
	return user
}

// 创建演示任务
func createDemoTasks(userID uint) {
	var count int64
	db.DB.Model(&db.Task{}).Where("user_id = ?", userID).Count(&count)
	if count > 0 {
		fmt.Println("任务已存在，跳过创建")
		return
	}

	tasks := service.NewTaskService(db.DB)
	overdue := time.Now().AddDate(0, 0, -2)
	upcoming := time.Now().AddDate(0, 0, 3)

	seeds := []service.TaskInput{
		{Text: "Review quarterly goals", Source: "seed"},
		{Text: "Buy groceries", DueDate: &upcoming, Source: "seed"},
		{Text: "Send project update email", DueDate: &overdue, Source: "seed"},
		{Text: "Book dentist appointment", Source: "seed"},
	}
	for _, seed := range seeds {
		if _, err := tasks.Create(userID, seed); err != nil {
			log.Printf("创建任务失败: %v", err)
		}
	}

	fmt.Println("✅ 演示任务创建完成")
}

// 创建演示习惯与最近两周打卡
func createDemoHabits(userID uint) {
	var count int64
	db.DB.Model(&db.Habit{}).Where("user_id = ?", userID).Count(&count)
	if count > 0 {
		fmt.Println("习惯已存在，跳过创建")
		return
	}

	habits := service.NewHabitService(db.DB)

	morningRun, err := habits.Create(userID, service.HabitInput{Name: "Morning run", Frequency: "daily"})
	if err != nil {
		log.Printf("创建习惯失败: %v", err)
		return
	}
	if _, err := habits.Create(userID, service.HabitInput{Name: "Weekly review", Frequency: "weekly"}); err != nil {
		log.Printf("创建习惯失败: %v", err)
	}
	if _, err := habits.Create(userID, service.HabitInput{
		Name:       "Strength training",
		Frequency:  "custom",
		CustomDays: []int{1, 3, 5},
	}); err != nil {
		log.Printf("创建习惯失败: %v", err)
	}

	// 隔天打卡，留出一些空档
	for offset := 0; offset < 14; offset += 2 {
		date := time.Now().AddDate(0, 0, -offset)
		if _, err := habits.UpsertCompletion(service.HabitCompletionInput{
			HabitID:   morningRun.ID,
			Date:      date,
			Completed: true,
		}); err != nil {
			log.Printf("创建打卡失败: %v", err)
		}
	}

	fmt.Println("✅ 演示习惯创建完成")
}

// 创建演示事件，包括一个循环周会
func createDemoEvents(userID uint) {
	var count int64
	db.DB.Model(&db.CalendarEvent{}).Where("user_id = ?", userID).Count(&count)
	if count > 0 {
		fmt.Println("事件已存在，跳过创建")
		return
	}

	calendar := service.NewCalendarService(db.DB)
	now := time.Now()
	today9 := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, time.UTC)
	recurrenceEnd := today9.AddDate(0, 1, 0)

	seeds := []service.CalendarEventInput{
		{
			Summary:        "Standup",
			Start:          today9,
			End:            today9.Add(15 * time.Minute),
			CalendarSource: "personal",
		},
		{
			Summary:        "Dentist appointment",
			Location:       "High Street Clinic",
			Start:          today9.AddDate(0, 0, 2).Add(5 * time.Hour),
			End:            today9.AddDate(0, 0, 2).Add(6 * time.Hour),
			CalendarSource: "personal",
		},
		{
			Summary:        "Team sync",
			Start:          today9.AddDate(0, 0, 1).Add(4 * time.Hour),
			End:            today9.AddDate(0, 0, 1).Add(5 * time.Hour),
			CalendarSource: "work",
			ICalUID:        "team_sync_demo",
			Recurrence:     "weekly",
			RecurrenceEnd:  &recurrenceEnd,
		},
	}
	for _, seed := range seeds {
		if _, err := calendar.Create(userID, seed); err != nil {
			log.Printf("创建事件失败: %v", err)
		}
	}

	fmt.Println("✅ 演示事件创建完成")
}

// 创建演示笔记与会议记录
func createDemoNotes(userID uint) {
	var count int64
	db.DB.Model(&db.Note{}).Where("user_id = ?", userID).Count(&count)
	if count > 0 {
		fmt.Println("笔记已存在，跳过创建")
		return
	}

	notes := service.NewNoteService(db.DB)

	seeds := []service.NoteInput{
		{
			Title:   "Reading list",
			Content: "- The Pragmatic Programmer\n- Deep Work",
			Tags:    []string{"reading", "personal"},
		},
		{
			Title:   "Project kickoff meeting",
			Content: "Agreed on milestones for Q3. Next check-in in two weeks.",
			Tags:    []string{"work"},
			EventID: "team_sync_demo",
			Actions: []service.NoteActionInput{
				{Description: "Draft project charter", AssignedTo: "Demo"},
				{Description: "Schedule follow-up", Status: "done"},
			},
		},
	}
	for _, seed := range seeds {
		if _, err := notes.Create(userID, seed); err != nil {
			log.Printf("创建笔记失败: %v", err)
		}
	}

	fmt.Println("✅ 演示笔记创建完成")
}

// 创建演示日记与心情
func createDemoJournal(userID uint) {
	var count int64
	db.DB.Model(&db.JournalEntry{}).Where("user_id = ?", userID).Count(&count)
	if count > 0 {
		fmt.Println("日记已存在，跳过创建")
		return
	}

	journal := service.NewJournalService(db.DB)
	moods := []string{"happy", "tired", "happy", "focused", "happy"}

	for offset, mood := range moods {
		date := time.Now().AddDate(0, 0, -offset)
		if _, err := journal.UpsertEntry(userID, service.JournalEntryInput{
			Date:    date,
			Content: fmt.Sprintf("Day %d reflections: steady progress.", offset+1),
		}); err != nil {
			log.Printf("创建日记失败: %v", err)
		}
		if _, err := journal.UpsertMood(userID, service.JournalMoodInput{Date: date, Mood: mood}); err != nil {
			log.Printf("记录心情失败: %v", err)
		}
	}

	fmt.Println("✅ 演示日记创建完成")
}

// 创建演示设置
func createDemoSettings(userID uint) {
	settings := service.NewUserSettingService(db.DB)
	if _, err := settings.UpdateSettings(userID, service.UserSettingsInput{
		FloCatStyle:     service.FloCatStyleDefault,
		PreferredName:   "Demo",
		Timezone:        "UTC",
		CalendarSources: []string{"personal", "work"},
		SelectedCals:    []string{"personal", "work"},
	}); err != nil {
		log.Printf("写入设置失败: %v", err)
		return
	}

	fmt.Println("✅ 演示设置创建完成")
}
