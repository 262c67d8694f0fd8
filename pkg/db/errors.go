package db

import "strings"

// IsUniqueViolation reports whether err looks like a Postgres unique
// violation. With a constraint name it matches that specific constraint,
// otherwise any duplicate-key failure.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	text := err.Error()
	if constraintName == "" {
		return strings.Contains(text, "duplicate key value")
	}
	return strings.Contains(text, constraintName)
}
