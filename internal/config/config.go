package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Ops server
	Port string
	Env  string

	// Telegram
	BotToken string
	BotDebug bool

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Quiz content
	QuestionsDir  string
	MigrationsDir string

	// Transient session state
	SessionTTLMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		Env:               getEnvOrDefault("ENV", "development"),
		BotToken:          mustGetEnv("BOT_TOKEN"),
		BotDebug:          getEnvAsBoolOrDefault("BOT_DEBUG", false),
		DatabaseURL:       mustGetEnv("DATABASE_URL"),
		RedisURL:          mustGetEnv("REDIS_URL"),
		QuestionsDir:      getEnvOrDefault("QUESTIONS_DIR", "questions"),
		MigrationsDir:     getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		SessionTTLMinutes: getEnvAsIntOrDefault("SESSION_TTL_MINUTES", 120),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
