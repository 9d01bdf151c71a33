package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// GenerateETag derives a stable ETag from a record's id and last update time.
func GenerateETag(id string, updatedAt time.Time) string {
	sum := sha1.Sum([]byte(id + updatedAt.UTC().Format(time.RFC3339Nano)))
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
