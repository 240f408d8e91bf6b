package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/flohub/flohub/internal/db"
	"gorm.io/gorm"
)

const (
	// FloCatStyleDefault 标准语气
	FloCatStyleDefault = "default"
	// FloCatStyleMoreCatty 更多猫咪元素
	FloCatStyleMoreCatty = "more_catty"
	// FloCatStyleLessCatty 收敛猫咪元素
	FloCatStyleLessCatty = "less_catty"
	// FloCatStyleProfessional 纯专业语气
	FloCatStyleProfessional = "professional"
)

var supportedFloCatStyles = []string{
	FloCatStyleDefault,
	FloCatStyleMoreCatty,
	FloCatStyleLessCatty,
	FloCatStyleProfessional,
}

// UserSettings 描述用户可配置的偏好，语气字段驱动助手措辞而非逻辑
type UserSettings struct {
	FloCatStyle      string
	PreferredName    string
	Timezone         string
	CalendarSources  []string
	SelectedCals     []string
	PowerAutomateURL string
}

// UserSettingsInput 用于更新用户设置
type UserSettingsInput struct {
	FloCatStyle      string
	PreferredName    string
	Timezone         string
	CalendarSources  []string
	SelectedCals     []string
	PowerAutomateURL string
}

// UserSettingService 提供用户设置的读取与更新能力
type UserSettingService struct {
	db              *gorm.DB
	defaultTimezone string
}

// NewUserSettingService 构造 UserSettingService
func NewUserSettingService(gdb *gorm.DB) *UserSettingService {
	return &UserSettingService{db: gdb, defaultTimezone: "UTC"}
}

// WithDefaultTimezone 覆盖用户未配置时区时的回退值
func (s *UserSettingService) WithDefaultTimezone(tz string) *UserSettingService {
	if trimmed := strings.TrimSpace(tz); trimmed != "" {
		s.defaultTimezone = trimmed
	}
	return s
}

// GetSettings 读取用户设置，缺失行或字段时回填默认值
func (s *UserSettingService) GetSettings(userID uint) (UserSettings, error) {
	settings := s.defaultSettings()

	var row db.UserSetting
	if err := s.db.Where("user_id = ?", userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settings, nil
		}
		return settings, fmt.Errorf("load user settings: %w", err)
	}

	if style := normalizeFloCatStyle(row.FloCatStyle); style != "" {
		settings.FloCatStyle = style
	}
	if name := strings.TrimSpace(row.PreferredName); name != "" {
		settings.PreferredName = name
	}
	if tz := strings.TrimSpace(row.Timezone); tz != "" {
		settings.Timezone = tz
	}
	settings.CalendarSources = decodeStringList(row.CalendarSources)
	settings.SelectedCals = decodeStringList(row.SelectedCals)
	settings.PowerAutomateURL = strings.TrimSpace(row.PowerAutomateURL)

	return settings, nil
}

// UpdateSettings 写入用户设置（单行 upsert）
func (s *UserSettingService) UpdateSettings(userID uint, input UserSettingsInput) (UserSettings, error) {
	style := normalizeFloCatStyle(input.FloCatStyle)
	if input.FloCatStyle != "" && style == "" {
		return UserSettings{}, fmt.Errorf("unsupported flocat style: %s", input.FloCatStyle)
	}

	var row db.UserSetting
	err := s.db.Where("user_id = ?", userID).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserSettings{}, fmt.Errorf("load user settings: %w", err)
	}

	row.UserID = userID
	row.FloCatStyle = style
	row.PreferredName = strings.TrimSpace(input.PreferredName)
	row.Timezone = strings.TrimSpace(input.Timezone)
	row.CalendarSources = encodeStringList(input.CalendarSources)
	row.SelectedCals = encodeStringList(input.SelectedCals)
	row.PowerAutomateURL = strings.TrimSpace(input.PowerAutomateURL)

	if err := s.db.Save(&row).Error; err != nil {
		return UserSettings{}, fmt.Errorf("save user settings: %w", err)
	}

	return s.GetSettings(userID)
}

func (s *UserSettingService) defaultSettings() UserSettings {
	tz := s.defaultTimezone
	if tz == "" {
		tz = "UTC"
	}
	return UserSettings{
		FloCatStyle: FloCatStyleDefault,
		Timezone:    tz,
	}
}

func normalizeFloCatStyle(raw string) string {
	style := strings.ToLower(strings.TrimSpace(raw))
	for _, supported := range supportedFloCatStyles {
		if style == supported {
			return style
		}
	}
	return ""
}

func encodeStringList(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	out, err := json.Marshal(cleaned)
	if err != nil {
		return ""
	}
	return string(out)
}

func decodeStringList(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(trimmed), &values); err != nil {
		return nil
	}
	return values
}
