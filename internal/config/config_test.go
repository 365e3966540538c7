package config

import (
	"reflect"
	"testing"
	"time"
)

// TestParseCSVEnv проверяет разбор списка слагов из ENV.
func TestParseCSVEnv(t *testing.T) {
	t.Setenv("ADMIN_SLUGS", " Flat-42, ,HQ-room ")

	got := parseCSVEnv("ADMIN_SLUGS")
	want := []string{"flat-42", "hq-room"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseCSVEnvMissing проверяет поведение при отсутствии переменной.
func TestParseCSVEnvMissing(t *testing.T) {
	got := parseCSVEnv("MISSING_ENV")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// TestParseDurationEnv проверяет разбор длительности и дефолт.
func TestParseDurationEnv(t *testing.T) {
	t.Setenv("TEST_TTL", "45s")

	got, err := parseDurationEnv("TEST_TTL", time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 45*time.Second {
		t.Fatalf("expected 45s, got %v", got)
	}

	got, err = parseDurationEnv("TEST_TTL_MISSING", time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
}

// TestValidateSlugLength проверяет ограничение на длину слага.
func TestValidateSlugLength(t *testing.T) {
	cfg := Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Host: "localhost", User: "u", Name: "db", MaxOpenConns: 10, MaxIdleConns: 5},
		Auth: AuthConfig{
			JWTSecret:          "secret",
			AccessTokenTTL:     time.Minute,
			RefreshTokenTTL:    time.Hour,
			RateLimitPerMinute: 60,
			RateLimitBurst:     10,
		},
		Room: RoomConfig{SlugLength: 2, MaxMembers: 10},
	}

	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for short slug length")
	}

	cfg.Room.SlugLength = 8
	if err := cfg.validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
