// Package env reads configuration from environment variables, falling back to
// files referenced by KEY_FILE and to Docker-style secrets under /run/secrets.
package env

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Davincible/d-flow/durations"
)

// SecretsDir is where Get looks for a file named after the key as a last resort.
var SecretsDir = "/run/secrets"

// Get reads an environment variable, falls back to the file named by KEY_FILE
// if not set, and as a third check reads SecretsDir/KEY. The optional default
// is returned when none of them yield a non-empty value.
func Get(key string, defaultValue ...string) string {
	defaultVal := ""
	if len(defaultValue) > 0 {
		defaultVal = defaultValue[0]
	}

	if value := os.Getenv(key); len(value) != 0 {
		return value
	}

	if filePath := os.Getenv(key + "_FILE"); len(filePath) != 0 {
		if value, ok := readValueFile(key, filePath); ok {
			return value
		}
	}

	if secretPath := filepath.Join(SecretsDir, key); fileExists(secretPath) {
		if value, ok := readValueFile(key, secretPath); ok {
			return value
		}
	}

	return defaultVal
}

// Int64 reads an integer value. Unparsable values fall back to the default.
func Int64[T int | int64](key string, defaultValue ...T) int64 {
	if valueStr := Get(key); len(valueStr) != 0 {
		parsed, err := strconv.ParseInt(strings.TrimSpace(valueStr), 10, 64)
		if err == nil {
			return parsed
		}
		slog.Warn("ignoring invalid integer in environment", "key", key, "error", err)
	}

	if len(defaultValue) > 0 {
		return int64(defaultValue[0])
	}

	return 0
}

// Int reads an int value. Unparsable values fall back to the default.
func Int(key string, defaultValue ...int) int {
	return int(Int64(key, defaultValue...))
}

// Int64Slice reads a comma separated list of integers, skipping entries that
// do not parse.
func Int64Slice(key string, defaultValues ...int64) []int64 {
	if valueStr := Get(key); len(valueStr) != 0 {
		parts := strings.Split(valueStr, ",")
		values := make([]int64, 0, len(parts))

		for _, part := range parts {
			if parsed, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
				values = append(values, parsed)
			}
		}

		return values
	}

	if len(defaultValues) > 0 {
		return defaultValues
	}

	return nil
}

// Bool reads a boolean in any form strconv.ParseBool accepts.
func Bool(key string, defaultValue ...bool) bool {
	if valueStr := Get(key); len(valueStr) != 0 {
		parsed, err := strconv.ParseBool(strings.TrimSpace(valueStr))
		if err == nil {
			return parsed
		}
		slog.Warn("ignoring invalid boolean in environment", "key", key, "error", err)
	}

	return len(defaultValue) > 0 && defaultValue[0]
}

// Duration reads a duration, accepting day units as durations.Parse does.
func Duration(key string, defaultValue ...time.Duration) time.Duration {
	if valueStr := Get(key); len(valueStr) != 0 {
		parsed, err := durations.Parse(valueStr)
		if err == nil {
			return parsed
		}
		slog.Warn("ignoring invalid duration in environment", "key", key, "error", err)
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}

	return 0
}

func readValueFile(key, path string) (string, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("reading environment value file", "key", key, "path", path, "error", err)
		return "", false
	}

	value := strings.TrimSpace(string(content))

	return value, len(value) != 0
}

// fileExists checks if a file exists and is not a directory.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
