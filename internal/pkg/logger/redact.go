package logger

import (
	"regexp"
	"strings"
)

// dsnPassword matches the password segment of user:password@host DSNs
// (Postgres URLs, Snowflake DSNs).
var dsnPassword = regexp.MustCompile(`(://[^:/@]+|^[^:/@]+):([^@]+)@`)

// redactSecret masks credential-bearing values so connection strings can be
// logged safely.
func redactSecret(key, val string) string {
	lower := strings.ToLower(key)
	if strings.Contains(lower, "password") || strings.Contains(lower, "secret") || strings.Contains(lower, "token") {
		return "***"
	}
	return dsnPassword.ReplaceAllString(val, "$1:***@")
}
