package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	t.Run("trims lines and drops blanks", func(t *testing.T) {
		out := CleanText("  line one  \n\n\n   line two\t\n")
		assert.Equal(t, "line one\nline two", out)
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		assert.Equal(t, "", CleanText("   \n \t \n"))
	})
}

func TestTruncateForPrompt(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		assert.Equal(t, "short", TruncateForPrompt("short", 100))
	})

	t.Run("cuts at a sentence boundary", func(t *testing.T) {
		text := "First sentence is here. Second sentence follows. " + strings.Repeat("x", 100)
		out := TruncateForPrompt(text, 60)
		assert.Equal(t, "First sentence is here. Second sentence follows.", out)
	})

	t.Run("hard cut when no boundary exists", func(t *testing.T) {
		text := strings.Repeat("a", 100)
		out := TruncateForPrompt(text, 40)
		assert.Len(t, out, 40)
	})

	t.Run("non-positive budget yields empty", func(t *testing.T) {
		assert.Equal(t, "", TruncateForPrompt("anything", 0))
	})
}

func TestBackoffDelay(t *testing.T) {
	initial := 2 * time.Second
	assert.Equal(t, 2*time.Second, BackoffDelay(initial, 1))
	assert.Equal(t, 4*time.Second, BackoffDelay(initial, 2))
	assert.Equal(t, 8*time.Second, BackoffDelay(initial, 3))
}
