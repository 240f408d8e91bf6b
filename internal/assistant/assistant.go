package assistant

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/flohub/flohub/internal/secure"
	"github.com/flohub/flohub/internal/service"
	"gorm.io/gorm"
)

// apologyResponse 是顶层兜底回复：ProcessQuery 内任何未处理的失败都折叠为这一句
const apologyResponse = "I'm sorry, something went wrong while I was thinking about that. Please try asking again!"

// Assistant 是 FloCat 的本地规则引擎：装载快照、分类意图、渲染文本回复
// 无跨请求状态，每次查询独立构建上下文
type Assistant struct {
	loader *Loader
	tasks  *service.TaskService
	notes  *service.NoteService
	now    func() time.Time
}

// New 构造 Assistant；gdb 为 nil 时助手在空上下文上工作
func New(gdb *gorm.DB, codec *secure.Codec) *Assistant {
	a := &Assistant{
		loader: NewLoader(gdb, codec),
		now:    time.Now,
	}
	if gdb != nil {
		a.tasks = service.NewTaskService(gdb)
		a.notes = service.NewNoteService(gdb)
	}
	return a
}

// WithClock 替换时间源，测试用
func (a *Assistant) WithClock(now func() time.Time) *Assistant {
	if now != nil {
		a.now = now
		a.loader.WithClock(now)
	}
	return a
}

// WithDefaultTimezone 设置用户未配置时区时的回退值
func (a *Assistant) WithDefaultTimezone(tz string) *Assistant {
	a.loader.WithDefaultTimezone(tz)
	return a
}

// ProcessQuery 是助手的唯一对外操作：自由文本进、Markdown 风格文本出
// 顶层 recover 保证任何内部失败都只表现为一句道歉
func (a *Assistant) ProcessQuery(ctx context.Context, userID uint, query string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("assistant: recovered while answering query: %v", r)
			reply = apologyResponse
		}
	}()

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return a.handleGeneral(Snapshot{Settings: service.UserSettings{FloCatStyle: service.FloCatStyleDefault}})
	}

	snapshot := a.loader.Load(ctx, userID)
	intent := Classify(trimmed)

	switch intent.Type {
	case IntentCalendar:
		return a.handleCalendar(trimmed, intent, snapshot)
	case IntentTask:
		return a.handleTask(userID, trimmed, intent, snapshot)
	case IntentNote:
		return a.handleNote(userID, trimmed, intent, snapshot)
	case IntentJournal:
		return a.handleJournal(snapshot)
	case IntentMeeting:
		return a.handleMeeting(snapshot)
	case IntentHabit:
		return a.handleHabit(snapshot)
	case IntentProductivity:
		return a.handleProductivity(snapshot)
	case IntentSearch:
		return a.handleSearch(intent, snapshot)
	case IntentCreate:
		return a.handleCreate(snapshot)
	default:
		return a.handleGeneral(snapshot)
	}
}

// persona 根据 FloCatStyle 和首选名生成称呼与点缀，只影响措辞不影响逻辑
type persona struct {
	name     string
	flourish string
}

func personaFor(settings service.UserSettings) persona {
	p := persona{}
	if name := strings.TrimSpace(settings.PreferredName); name != "" {
		p.name = name
	}

	switch settings.FloCatStyle {
	case service.FloCatStyleMoreCatty:
		p.flourish = " 😺"
	case service.FloCatStyleLessCatty, service.FloCatStyleProfessional:
		p.flourish = ""
	default:
		p.flourish = " 🐾"
	}
	return p
}

func (p persona) greeting() string {
	if p.name != "" {
		return "Hi " + p.name + "!" + p.flourish
	}
	return "Hi there!" + p.flourish
}
