package password

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultSecretLength is used by Generate for non-positive lengths.
const DefaultSecretLength = 16

// Generate returns a random URL-safe string of exactly length characters,
// suitable for a pepper.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultSecretLength
	}

	// 4 base64 characters per 3 bytes, rounded up.
	b := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	defer clear(b)

	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}
