package utils

import (
	"time"

	"github.com/google/uuid"
)

// GenerateID returns a prefixed unique identifier, e.g. "auction-<uuid>".
func GenerateID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}

// UUIDGenerator implements domain.IDGenerator with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(prefix string) string {
	return GenerateID(prefix)
}

// SystemClock implements domain.Clock with wall-clock time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
