package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	GinMode       string
	DBDriver      string
	DatabasePath  string
	DatabaseDSN   string
	SessionSecret string
	USDAAPIKey    string
	USDABaseURL   string
	LogLevel      string
	LogFormat     string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 当前目录存在 .env 时会先载入，已有的环境变量不会被覆盖。
func Load() AppConfig {
	_ = godotenv.Load()

	port := getEnv("PORT", "3001")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		GinMode:       getEnv("GIN_MODE", "release"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabasePath:  getEnv("DATABASE_PATH", "burnit.db"),
		DatabaseDSN:   strings.TrimSpace(os.Getenv("DATABASE_DSN")),
		SessionSecret: getEnv("SESSION_SECRET", "burnit-dev-secret"),
		USDAAPIKey:    getEnv("USDA_API_KEY", "DEMO_KEY"),
		USDABaseURL:   getEnv("USDA_BASE_URL", "https://api.nal.usda.gov/fdc/v1"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}
}

// Validate 检查互相依赖的配置项。
func (c AppConfig) Validate() error {
	switch c.DBDriver {
	case "sqlite", "memory":
	case "postgres":
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
