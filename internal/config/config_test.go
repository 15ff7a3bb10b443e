package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ReadsDotEnvForCoachDB(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	d := t.TempDir()
	if err := os.WriteFile(filepath.Join(d, ".env"), []byte("COACH_DB=postgres://u:p@localhost:5432/coach?sslmode=disable\nCOACH_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(d); err != nil {
		t.Fatal(err)
	}

	oldDB, hadDB := os.LookupEnv("COACH_DB")
	oldLog, hadLog := os.LookupEnv("COACH_LOG_LEVEL")
	_ = os.Unsetenv("COACH_DB")
	_ = os.Unsetenv("COACH_LOG_LEVEL")
	t.Cleanup(func() {
		if hadDB {
			_ = os.Setenv("COACH_DB", oldDB)
		} else {
			_ = os.Unsetenv("COACH_DB")
		}
		if hadLog {
			_ = os.Setenv("COACH_LOG_LEVEL", oldLog)
		} else {
			_ = os.Unsetenv("COACH_LOG_LEVEL")
		}
	})

	cfg := Load()
	if cfg.CoachDBDSN != "postgres://u:p@localhost:5432/coach?sslmode=disable" {
		t.Fatalf("expected COACH_DB from .env, got %q", cfg.CoachDBDSN)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected COACH_LOG_LEVEL from .env, got %q", cfg.LogLevel)
	}
}

func TestLoad_EnvironmentWinsOverDotEnv(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	d := t.TempDir()
	if err := os.WriteFile(filepath.Join(d, ".env"), []byte("COACH_OPENAI_MODEL=file-model\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(d); err != nil {
		t.Fatal(err)
	}

	old, had := os.LookupEnv("COACH_OPENAI_MODEL")
	_ = os.Setenv("COACH_OPENAI_MODEL", "env-model")
	t.Cleanup(func() {
		if had {
			_ = os.Setenv("COACH_OPENAI_MODEL", old)
		} else {
			_ = os.Unsetenv("COACH_OPENAI_MODEL")
		}
	})

	cfg := Load()
	if cfg.OpenAIModel != "env-model" {
		t.Fatalf("expected environment to win, got %q", cfg.OpenAIModel)
	}
}
