package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetSystemSettingString_Defaults(t *testing.T) {
	t.Setenv(DATABASE_TYPE, "")
	t.Setenv(DATABASE_SQLLITE_FILE_NAME, "")
	t.Setenv(SERVER_WEB_PORT, "")

	if got := GetSystemSettingString(DATABASE_TYPE); got != DATABASE_TYPE_SQLLITE {
		t.Errorf("Expected default database type %s, got %s", DATABASE_TYPE_SQLLITE, got)
	}
	if got := GetSystemSettingString(DATABASE_SQLLITE_FILE_NAME); got != SQLLITE_IN_MEMORY {
		t.Errorf("Expected in-memory sqlite by default, got %s", got)
	}
	if got := GetSystemSettingString(SERVER_WEB_PORT); got != "8080" {
		t.Errorf("Expected port 8080, got %s", got)
	}
	if got := GetSystemSettingString(DATABASE_URL); got != "" {
		t.Errorf("Expected empty database url, got %s", got)
	}
}

func TestGetSystemSettingString_EnvOverride(t *testing.T) {
	t.Setenv(CORS_ALLOWED_ORIGIN, "https://pow3r.example")
	if got := GetSystemSettingString(CORS_ALLOWED_ORIGIN); got != "https://pow3r.example" {
		t.Errorf("Expected env override, got %s", got)
	}
}

func TestGetSystemSettingInteger(t *testing.T) {
	t.Setenv(GARAGE_PAGE_SIZE, "")
	if got := GetSystemSettingInteger(GARAGE_PAGE_SIZE); got != 20 {
		t.Errorf("Expected default page size 20, got %d", got)
	}
	t.Setenv(GARAGE_PAGE_SIZE, "abc")
	if got := GetSystemSettingInteger(GARAGE_PAGE_SIZE); got != 0 {
		t.Errorf("Expected 0 for invalid integer, got %d", got)
	}
}

func TestGetSystemSettingPageSize(t *testing.T) {
	cases := map[string]int{
		"":    20,
		"50":  50,
		"0":   20,
		"-5":  20,
		"abc": 20,
	}
	for val, want := range cases {
		t.Setenv(GARAGE_PAGE_SIZE, val)
		if got := GetSystemSettingPageSize(GARAGE_PAGE_SIZE); got != want {
			t.Errorf("GetSystemSettingPageSize(%q) = %d, want %d", val, got, want)
		}
	}
	t.Setenv(FLOWS_PAGE_SIZE, "")
	if got := GetSystemSettingPageSize(FLOWS_PAGE_SIZE); got != 20 {
		t.Errorf("Expected default flows page size 20, got %d", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CASHOUT_VERSION=1.2.3\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(VERSION, "")
	os.Unsetenv(VERSION)

	if err := LoadEnvFile(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadEnvFile returned error: %v", err)
	}
	if got := GetSystemSettingString(VERSION); got != "1.2.3" {
		t.Errorf("Expected version from env file, got %s", got)
	}
}
