// Package xxhash provides a fast non-cryptographic content digest.
package xxhash

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitefinity"
)

var _ sitefinity.DigestFunc = Digest

// Digest returns the 64-bit xxhash of content as 16 hex digits.
func Digest(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
