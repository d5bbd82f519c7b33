package id

import (
	"strings"

	"github.com/google/uuid"
)

// GetUUID returns a random v4 UUID string.
func GetUUID() string {
	return uuid.NewString()
}

// GetUUIDWithoutDashes returns a random v4 UUID with the dashes stripped,
// suitable for identifiers embedded in headers or filenames.
func GetUUIDWithoutDashes() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
