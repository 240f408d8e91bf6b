package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig 汇总运行 FloHub 服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string
	Port            string
	DatabasePath    string
	SessionSecret   string
	GinMode         string
	DefaultTimezone string
	EnvelopeSecret  string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "flohub.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "flohub-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	// 用户未在设置中配置时区时的回退值
	defaultTimezone := strings.TrimSpace(os.Getenv("DEFAULT_TIMEZONE"))
	if defaultTimezone == "" {
		defaultTimezone = "UTC"
	}

	// 加密信封的密钥口令；为空时仅能读取明文字段
	envelopeSecret := strings.TrimSpace(os.Getenv("ENVELOPE_SECRET"))

	return AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		DatabasePath:    databasePath,
		SessionSecret:   sessionSecret,
		GinMode:         ginMode,
		DefaultTimezone: defaultTimezone,
		EnvelopeSecret:  envelopeSecret,
	}
}
