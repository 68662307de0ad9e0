package config

import (
	"log/slog"
	"slices"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.FieldWidth != 800 || cfg.FieldHeight != 400 || cfg.MaxEntities != 10000 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !slices.Equal(cfg.AllowedOrigins, []string{"http://localhost:5173", "http://localhost:3000"}) {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level = %v", cfg.Level())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FIELD_WIDTH", "1600")
	t.Setenv("ALLOWED_ORIGINS", "https://scout.example.org")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 || cfg.FieldWidth != 1600 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !slices.Equal(cfg.AllowedOrigins, []string{"https://scout.example.org"}) {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level = %v", cfg.Level())
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"FIELD_HEIGHT", "0"},
		{"MAX_ENTITIES", "-1"},
		{"EXPORT_SCALE", "20"},
		{"PORT", "not-a-number"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s accepted", tt.key, tt.value)
			}
		})
	}
}
