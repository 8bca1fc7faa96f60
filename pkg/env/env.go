package env

import (
	"os"
	"strconv"
)

// Get returns the value of the given environment variable, or fallback when
// the variable is unset or empty.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

// GetBool parses the given environment variable as a boolean, falling back
// when the variable is unset or malformed.
func GetBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
