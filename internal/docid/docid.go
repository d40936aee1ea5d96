// Package docid generates collision-resistant document identifiers.
package docid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Length of a generated identifier in hex characters.
const Length = 24

const rawBytes = Length / 2

// New returns a fresh identifier: 12 bytes from the system CSPRNG, hex
// encoded to 24 characters. A failing randomness source returns an error and
// never a degenerate value; callers must treat that as fatal to the write.
func New() (string, error) {
	buf := make([]byte, rawBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes for document id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
