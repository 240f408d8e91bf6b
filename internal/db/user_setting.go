package db

import "gorm.io/gorm"

// UserSetting 保存单个用户的偏好配置，每个用户一行
// FloCatStyle 控制助手语气（default/more_catty/less_catty/professional）
// CalendarSources/SelectedCals 以 JSON 数组字符串存储
type UserSetting struct {
	gorm.Model
	UserID           uint `gorm:"uniqueIndex"`
	FloCatStyle      string
	PreferredName    string
	Timezone         string
	CalendarSources  string
	SelectedCals     string
	PowerAutomateURL string
}
