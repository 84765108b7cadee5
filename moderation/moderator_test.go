package moderation

import (
	"log/slog"
	"strings"
	"testing"
	"wegetchat/domain"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestModerator(t *testing.T, words ...string) *Moderator {
	t.Helper()
	mod, err := NewModerator(words, '*', logs.GetLoggerFromLevel(slog.LevelDebug))
	require.NoError(t, err)
	return mod
}

func TestModerator_CensorStatusText(t *testing.T) {
	mod := newTestModerator(t, "badger", "snake", "mushroom")

	tests := []struct {
		name     string
		status   string
		expected string
		words    []string
	}{
		{
			name:     "should mask a word and keep the surrounding text",
			status:   "Feeling like a badger today",
			expected: "Feeling like a ****** today",
			words:    []string{"badger"},
		},
		{
			name:     "should mask every word found, in order",
			status:   "snake & mushroom",
			expected: "***** & ********",
			words:    []string{"snake", "mushroom"},
		},
		{
			name:     "should see through leet speak and casing",
			status:   "MU$HR00M season",
			expected: "******** season",
			words:    []string{"mushroom"},
		},
		{
			name:     "should mask the separators hiding a word",
			status:   "s n a k e",
			expected: "*********",
			words:    []string{"snake"},
		},
		{
			name:     "should mask glued words",
			status:   "badgersnake",
			expected: "***********",
			words:    []string{"badger", "snake"},
		},
		{
			name:     "should keep multi-byte characters intact",
			status:   "Café badger",
			expected: "Café ******",
			words:    []string{"badger"},
		},
		{
			name:     "should leave the default status untouched",
			status:   domain.DefaultStatusText,
			expected: domain.DefaultStatusText,
		},
		{
			name: "should accept an empty status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			content, words := mod.Censor(tt.status)
			req.Equal(tt.expected, content)
			req.Equal(tt.words, words)
			req.Equal(len([]rune(tt.status)), len([]rune(content)), "censoring keeps the length")
		})
	}
}

func TestModerator_AfterTruncation(t *testing.T) {
	req := require.New(t)
	mod := newTestModerator(t, "badger")

	// A status cut right through a word keeps the visible prefix
	status := domain.TruncateStatus(strings.Repeat("a", domain.MaxStatusLength-3) + " badger")
	content, words := mod.Censor(status)
	req.Nil(words)
	req.Equal(status, content)
	req.Len([]rune(content), domain.MaxStatusLength)
}

func TestNewModerator_IgnoresNoiseEntries(t *testing.T) {
	req := require.New(t)
	mod := newTestModerator(t, "...", ",,,", "", "  ", "badger")

	content, words := mod.Censor("The badger is safe...")
	req.Equal("The ****** is safe...", content)
	req.Equal([]string{"badger"}, words)

	content, words = mod.Censor("Hello ,,, ...")
	req.Equal("Hello ,,, ...", content)
	req.Nil(words)
}

func TestModerator_WithoutDictionary(t *testing.T) {
	t.Run("should leave text untouched without any censored word", func(t *testing.T) {
		req := require.New(t)
		mod := newTestModerator(t)
		content, words := mod.Censor("badger")
		req.Equal("badger", content)
		req.Nil(words)
	})

	t.Run("should be usable as a nil moderator", func(t *testing.T) {
		req := require.New(t)
		var mod *Moderator
		content, words := mod.Censor("badger")
		req.Equal("badger", content)
		req.Nil(words)
	})
}
