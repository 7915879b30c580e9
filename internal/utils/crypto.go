// internal/utils/crypto.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

func HashBytes(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}
