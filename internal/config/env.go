package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// GetEnvString returns the value of an environment variable or the default value if not set.
func GetEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the value of an environment variable as an integer.
//
// An unset variable yields defaultValue. An unparsable one also yields
// defaultValue and logs a warning.
func GetEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Warn().
			Str("key", key).
			Str("value", valueStr).
			Int("default", defaultValue).
			Err(err).
			Msg("invalid integer value for environment variable, using default")
		return defaultValue
	}

	return value
}

// GetEnvBool returns the value of an environment variable as a boolean.
//
// Accepted values are those of strconv.ParseBool.
func GetEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		log.Warn().
			Str("key", key).
			Str("value", valueStr).
			Bool("default", defaultValue).
			Msg("invalid boolean value for environment variable, using default")
		return defaultValue
	}

	return value
}

// GetEnvDuration returns the value of an environment variable as a time.Duration
// ("30s", "1m30s").
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(strings.TrimSpace(valueStr))
	if err != nil {
		log.Warn().
			Str("key", key).
			Str("value", valueStr).
			Dur("default", defaultValue).
			Err(err).
			Msg("invalid duration value for environment variable, using default")
		return defaultValue
	}

	return value
}

// GetEnvStringList returns a comma-separated list of strings from an environment variable.
//
// Values are trimmed and empty entries dropped. A variable with no
// non-empty entries yields defaultValue.
//
//	CRAWLER_MEDIA_TYPES="video/mp4, image/png"
//	// Result: ["video/mp4", "image/png"]
func GetEnvStringList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
