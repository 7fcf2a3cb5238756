package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digest hashes fields as NUL-terminated strings, so shifting characters
// between adjacent fields changes the result.
func digest(kind string, fields ...string) string {
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// fields lists every option in a fixed order for key derivation.
func (o RasterKeyOpts) fields() []string {
	return []string{
		o.Mode,
		strconv.Itoa(o.Size),
		strconv.FormatFloat(o.Range, 'g', -1, 64),
		o.Tool,
	}
}
