// Package cuid2 generates short, prefixed, time-sortable identifiers such as
// "psh_1x8elkA9bC2dE4fG6hJ8kL".
package cuid2

import (
	crypto_rand "crypto/rand"
	"strings"
	"time"
)

// Base62 alphabet: 0-9, A-Z, a-z (62 characters)
const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	timestampLength      = 6
	sortableRandomLength = 18
	randomOnlyLength     = 24
)

// EncodeTimestampBase62 encodes a Unix timestamp (seconds) as a 6-character
// base62 string. Output sorts lexicographically in timestamp order.
func EncodeTimestampBase62(timestampSeconds int64) string {
	n := timestampSeconds
	result := make([]byte, timestampLength)
	for i := timestampLength - 1; i >= 0; i-- {
		result[i] = base62Alphabet[n%62]
		n = n / 62
	}
	return string(result)
}

// randomBase62 returns length uniformly distributed base62 characters.
// 6-bit values of 62 and 63 are rejected to keep the distribution uniform.
func randomBase62(length int) string {
	buf := make([]byte, length+8)
	var out strings.Builder
	out.Grow(length)

	for out.Len() < length {
		if _, err := crypto_rand.Read(buf); err != nil {
			panic("cuid2: failed to read random bytes: " + err.Error())
		}
		for _, b := range buf {
			v := b & 0x3f
			if v < 62 {
				out.WriteByte(base62Alphabet[v])
				if out.Len() == length {
					break
				}
			}
		}
	}
	return out.String()
}

// Options controls the shape of generated ids.
type Options struct {
	// RandomOnly drops the timestamp prefix.
	RandomOnly bool
	// RandomLength overrides the length of the random part
	// (18 with a timestamp, 24 without).
	RandomLength int
}

// Generate returns prefix + "_" + id, where id is a 6-character timestamp
// followed by random characters unless opts.RandomOnly is set.
func Generate(prefix string, opts Options) string {
	length := opts.RandomLength
	if opts.RandomOnly {
		if length <= 0 {
			length = randomOnlyLength
		}
		return prefix + "_" + randomBase62(length)
	}
	if length <= 0 {
		length = sortableRandomLength
	}
	return prefix + "_" + EncodeTimestampBase62(time.Now().Unix()) + randomBase62(length)
}

// NewID returns a time-sortable id with the given prefix.
func NewID(prefix string) string {
	return Generate(prefix, Options{})
}
