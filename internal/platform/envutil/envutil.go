package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

// GetEnv returns the trimmed value of key, or defaultVal when unset or blank.
func GetEnv(key, defaultVal string, log *logger.Logger) string {
	if log != nil {
		log = log.With("env_var", key)
	}
	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)
	if !ok || val == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	if log != nil {
		log.Debug("Environment variable found, using environment")
	}
	return val
}

func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
	raw := GetEnv(key, "", nil)
	if raw == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable could not be parsed as int, using default", "env_var", key, "providedVal", raw, "defaultVal", defaultVal, "error", err)
		}
		return defaultVal
	}
	return i
}

func GetEnvAsBool(key string, defaultVal bool, log *logger.Logger) bool {
	switch strings.ToLower(GetEnv(key, "", nil)) {
	case "":
		return defaultVal
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		if log != nil {
			log.Warn("Environment variable could not be parsed as bool, using default", "env_var", key, "defaultVal", defaultVal)
		}
		return defaultVal
	}
}

// GetEnvAsDuration reads an integer count of unit (e.g. REPORT_TIMEOUT_MS with time.Millisecond).
func GetEnvAsDuration(key string, defaultVal time.Duration, unit time.Duration, log *logger.Logger) time.Duration {
	n := GetEnvAsInt(key, -1, log)
	if n < 0 {
		return defaultVal
	}
	return time.Duration(n) * unit
}

// GetEnvAsList splits a comma separated variable, dropping blanks.
func GetEnvAsList(key string, defaultVal []string) []string {
	raw := GetEnv(key, "", nil)
	if raw == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
