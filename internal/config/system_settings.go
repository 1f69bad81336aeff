package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const DATABASE_TYPE = "CASHOUT_DATABASE_TYPE"
const DATABASE_URL = "CASHOUT_DATABASE_URL"
const DATABASE_SQLLITE_FILE_NAME = "CASHOUT_DATABASE_SQLLITE_FILE_NAME"
const SERVER_WEB_PORT = "CASHOUT_SERVER_WEB_PORT"
const CORS_ALLOWED_ORIGIN = "CASHOUT_CORS_ALLOWED_ORIGIN"
const LOG_LEVEL = "CASHOUT_LOG_LEVEL"
const GARAGE_PAGE_SIZE = "CASHOUT_GARAGE_PAGE_SIZE" //rows per garage page, api and web
const FLOWS_PAGE_SIZE = "CASHOUT_FLOWS_PAGE_SIZE"
const VERSION = "CASHOUT_VERSION"
const SMOKE_LOCAL_URL = "CASHOUT_SMOKE_LOCAL_URL"
const SMOKE_LIVE_URL = "CASHOUT_SMOKE_LIVE_URL"

const DATABASE_TYPE_POSTGRES = "POSTGRES"
const DATABASE_TYPE_MYSQL = "MYSQL"
const DATABASE_TYPE_SQLLITE = "SQLLITE"

// SQLLITE_IN_MEMORY keeps every flow in process memory; nothing survives a restart.
const SQLLITE_IN_MEMORY = ":memory:"

const DEFAULT_PAGE_SIZE = 20

// LoadEnvFile loads KEY=VALUE pairs from the given files into the process
// environment. Variables that are already set win. Missing files are ignored.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		slog.Info("Loaded environment file", "path", p)
	}
	return nil
}

func GetSystemSettingInteger(settingKey string) int {
	val := GetSystemSettingString(settingKey)
	if val != "" {
		intValue, err := strconv.Atoi(val)
		if err != nil {
			slog.Warn("Invalid integer setting", "key", settingKey, "value", val)
			return 0
		}
		return intValue
	}
	return 0
}

// GetSystemSettingPageSize reads a page size setting. Anything that is not a
// positive integer falls back to DEFAULT_PAGE_SIZE.
func GetSystemSettingPageSize(settingKey string) int {
	size := GetSystemSettingInteger(settingKey)
	if size <= 0 {
		slog.Warn("Page size must be positive, using default", "key", settingKey, "default", DEFAULT_PAGE_SIZE)
		return DEFAULT_PAGE_SIZE
	}
	return size
}

func GetSystemSettingString(settingKey string) string {
	val := os.Getenv(settingKey)
	if val != "" {
		return val
	}
	switch settingKey {
	case DATABASE_TYPE:
		return DATABASE_TYPE_SQLLITE
	case DATABASE_SQLLITE_FILE_NAME:
		return SQLLITE_IN_MEMORY
	case SERVER_WEB_PORT:
		return "8080"
	case CORS_ALLOWED_ORIGIN:
		return "*"
	case LOG_LEVEL:
		return "INFO"
	case GARAGE_PAGE_SIZE, FLOWS_PAGE_SIZE:
		return "20"
	case VERSION:
		return "dev"
	case SMOKE_LOCAL_URL:
		return "http://localhost:8080"
	}
	return ""
}
