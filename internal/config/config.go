package config

import (
	"bufio"
	"os"
	"strings"
)

type Config struct {
	BindAddr     string
	LogLevel     string
	DefaultLevel string

	// Course store. CoachDBDSN selects Postgres for the API server; CoursesDBPath is
	// the SQLite fallback; CoursesFile is the JSON document used by the CLI.
	CoachDBDSN    string
	CoursesDBPath string
	CoursesFile   string

	// Optional Redis-backed processing-status store.
	RedisAddr string

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	ToughTongueBaseURL string
	ToughTongueAPIKey  string

	// How long the completed status record stays visible before it is cleared.
	GracePeriod string
}

func Load() *Config {
	loadDotEnv(".env")

	return &Config{
		BindAddr:           getEnv("COACH_BIND_ADDR", ":8080"),
		LogLevel:           getEnv("COACH_LOG_LEVEL", "info"),
		DefaultLevel:       getEnv("COACH_DEFAULT_LEVEL", "mid-level"),
		CoachDBDSN:         getEnv("COACH_DB", ""),
		CoursesDBPath:      getEnv("COACH_COURSES_DB", "./coach-courses.sqlite"),
		CoursesFile:        getEnv("COACH_COURSES_FILE", "./courses.json"),
		RedisAddr:          getEnv("COACH_REDIS_ADDR", ""),
		OpenAIBaseURL:      getEnv("COACH_OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:       getEnv("COACH_OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("COACH_OPENAI_MODEL", "o1-mini"),
		ToughTongueBaseURL: getEnv("COACH_TT_BASE_URL", "https://app.toughtongueai.com/api"),
		ToughTongueAPIKey:  getEnv("COACH_TT_API_KEY", ""),
		GracePeriod:        getEnv("COACH_GRACE_PERIOD", "3s"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadDotEnv reads KEY=VALUE lines from path into the process environment.
// Real environment variables win over file entries.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
