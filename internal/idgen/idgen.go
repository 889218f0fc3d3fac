// Package idgen generates the opaque identifiers used across the data
// model: stable document keys and prefixed row ids.
package idgen

import (
	"crypto/rand"
	"fmt"
)

const alphanum = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// randomString returns n characters drawn uniformly from charset.
func randomString(n int, charset string) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure is unrecoverable for id generation
		panic(fmt.Sprintf("idgen: rand.Read: %v", err))
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = charset[int(b)%len(charset)]
	}
	return string(out)
}

// DocKey returns a fresh 12-character document key: uniform random
// alphanumeric, stable for the life of the document.
func DocKey() string {
	return randomString(12, alphanum)
}

// NewID returns a prefixed opaque id for a row, e.g. "rev-4kq0z8m1xc".
// Prefixes keep ids recognizable in logs and debugging sessions.
func NewID(prefix string) string {
	return prefix + "-" + randomString(10, base36)
}
