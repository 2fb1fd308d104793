package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid config",
			config: Config{
				BotToken:     "123456:ABC-DEF",
				PollTimeout:  30 * time.Second,
				SQLiteDBPath: "./test.db",
				LogLevel:     "info",
				LogFormat:    "text",
			},
			wantErr: false,
		},
		{
			name: "missing bot token",
			config: Config{
				BotToken:     "",
				PollTimeout:  30 * time.Second,
				SQLiteDBPath: "./test.db",
				LogLevel:     "info",
				LogFormat:    "text",
			},
			wantErr:     true,
			errorString: "TELEGRAM_BOT_TOKEN is not set",
		},
		{
			name: "empty database path",
			config: Config{
				BotToken:     "123456:ABC-DEF",
				PollTimeout:  30 * time.Second,
				SQLiteDBPath: "",
				LogLevel:     "info",
				LogFormat:    "text",
			},
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name: "poll timeout too short",
			config: Config{
				BotToken:     "123456:ABC-DEF",
				PollTimeout:  500 * time.Millisecond,
				SQLiteDBPath: "./test.db",
				LogLevel:     "info",
				LogFormat:    "text",
			},
			wantErr:     true,
			errorString: "invalid poll timeout 500ms: must be at least 1 second",
		},
		{
			name: "poll timeout too long",
			config: Config{
				BotToken:     "123456:ABC-DEF",
				PollTimeout:  10 * time.Minute,
				SQLiteDBPath: "./test.db",
				LogLevel:     "info",
				LogFormat:    "text",
			},
			wantErr:     true,
			errorString: "invalid poll timeout 10m0s: must be at most 5 minutes",
		},
		{
			name: "invalid log level",
			config: Config{
				BotToken:     "123456:ABC-DEF",
				PollTimeout:  30 * time.Second,
				SQLiteDBPath: "./test.db",
				LogLevel:     "verbose",
				LogFormat:    "text",
			},
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name: "invalid log format",
			config: Config{
				BotToken:     "123456:ABC-DEF",
				PollTimeout:  30 * time.Second,
				SQLiteDBPath: "./test.db",
				LogLevel:     "info",
				LogFormat:    "xml",
			},
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name: "multiple problems reported together",
			config: Config{
				BotToken:     "",
				PollTimeout:  30 * time.Second,
				SQLiteDBPath: "",
				LogLevel:     "info",
				LogFormat:    "text",
			},
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestConfig_ValidateCreatesDatabaseDir(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "data", "test.db")

	cfg := Config{
		BotToken:     "123456:ABC-DEF",
		PollTimeout:  30 * time.Second,
		SQLiteDBPath: dbPath,
		LogLevel:     "info",
		LogFormat:    "text",
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v, want nil", err)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("database directory was not created: %v", err)
	}
}

func TestLoad(t *testing.T) {
	originalVars := map[string]string{
		"TELEGRAM_BOT_TOKEN": os.Getenv("TELEGRAM_BOT_TOKEN"),
		"POLL_TIMEOUT":       os.Getenv("POLL_TIMEOUT"),
		"SQLITE_DB_PATH":     os.Getenv("SQLITE_DB_PATH"),
		"LOG_LEVEL":          os.Getenv("LOG_LEVEL"),
		"LOG_FORMAT":         os.Getenv("LOG_FORMAT"),
	}

	for key := range originalVars {
		os.Unsetenv(key)
	}

	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.BotToken != "" {
			t.Errorf("Load() BotToken = %v, want empty", cfg.BotToken)
		}
		if cfg.PollTimeout != 30*time.Second {
			t.Errorf("Load() PollTimeout = %v, want 30s", cfg.PollTimeout)
		}
		if cfg.SQLiteDBPath != "./data/spending-tracker.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/spending-tracker.db", cfg.SQLiteDBPath)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
		if cfg.LogFormat != "text" {
			t.Errorf("Load() LogFormat = %v, want text", cfg.LogFormat)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("TELEGRAM_BOT_TOKEN", "123456:ABC-DEF")
		os.Setenv("POLL_TIMEOUT", "45s")
		os.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("LOG_FORMAT", "json")

		cfg := Load()

		if cfg.BotToken != "123456:ABC-DEF" {
			t.Errorf("Load() BotToken = %v, want 123456:ABC-DEF", cfg.BotToken)
		}
		if cfg.PollTimeout != 45*time.Second {
			t.Errorf("Load() PollTimeout = %v, want 45s", cfg.PollTimeout)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
		if cfg.LogFormat != "json" {
			t.Errorf("Load() LogFormat = %v, want json", cfg.LogFormat)
		}
	})

	t.Run("bare seconds accepted for poll timeout", func(t *testing.T) {
		os.Setenv("POLL_TIMEOUT", "60")

		cfg := Load()

		if cfg.PollTimeout != 60*time.Second {
			t.Errorf("Load() PollTimeout = %v, want 60s", cfg.PollTimeout)
		}
	})

	t.Run("invalid poll timeout uses default", func(t *testing.T) {
		os.Setenv("POLL_TIMEOUT", "soon")

		cfg := Load()

		if cfg.PollTimeout != 30*time.Second {
			t.Errorf("Load() PollTimeout = %v, want 30s (default for invalid input)", cfg.PollTimeout)
		}
	})
}
