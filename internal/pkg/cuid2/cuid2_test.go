package cuid2

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTimestampBase62(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int64
		expected string
	}{
		{"Zero timestamp", 0, "000000"},
		{"One second", 1, "000001"},
		{"62 seconds", 62, "000010"},
		{"One minute", 60, "00000y"},
		{"One hour", 3600, "0000w4"},
		{"One day", 86400, "000MTY"},
		{"2024-01-01", 1704067200, "1rK5iq"},
		{"2026-09", 1790000000, "1x8elk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EncodeTimestampBase62(tt.seconds))
		})
	}
}

func TestRandomBase62(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := randomBase62(24)
		require.Len(t, id, 24)
		for _, c := range id {
			require.True(t, strings.ContainsRune(base62Alphabet, c), "non-base62 character %c in %s", c, id)
		}
		assert.False(t, ids[id], "duplicate id %s", id)
		ids[id] = true
	}
}

func TestGenerate(t *testing.T) {
	t.Run("time sortable by default", func(t *testing.T) {
		id := NewID("psh")
		assert.Regexp(t, regexp.MustCompile(`^psh_[0-9A-Za-z]{24}$`), id)
	})

	t.Run("random only", func(t *testing.T) {
		id := Generate("rul", Options{RandomOnly: true})
		assert.Regexp(t, regexp.MustCompile(`^rul_[0-9A-Za-z]{24}$`), id)
	})

	t.Run("custom length", func(t *testing.T) {
		id := Generate("cmp", Options{RandomLength: 10})
		assert.Len(t, strings.TrimPrefix(id, "cmp_"), 16)
	})
}

func TestGenerateUniqueness(t *testing.T) {
	ids := make(map[string]bool)
	prefixes := []string{"psh", "rul", "cmp", "tax", "cat", "col"}

	for i := 0; i < 5000; i++ {
		for _, prefix := range prefixes {
			id := NewID(prefix)
			require.False(t, ids[id], "duplicate id %s", id)
			ids[id] = true
		}
	}
}

func TestTimeSortability(t *testing.T) {
	id1 := NewID("psh")
	time.Sleep(10 * time.Millisecond)
	id2 := NewID("psh")

	assert.LessOrEqual(t, id1[4:10], id2[4:10])
}
