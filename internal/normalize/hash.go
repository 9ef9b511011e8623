package normalize

import (
	"crypto/sha256"
	"fmt"
)

// ContentHash computes the hex-encoded SHA-256 of data. Profile outputs are
// hashed so repeated runs over unchanged inputs can be compared.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
