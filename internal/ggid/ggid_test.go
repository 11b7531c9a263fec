package ggid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	id := Generate()
	assert.True(t, strings.HasPrefix(id, "c-"))
	assert.Len(t, id, 9)
}

func TestExtractFound(t *testing.T) {
	msg := "fix: widget\n\nGG-ID: c-abc1234\n"
	id, ok := Extract(msg)
	require.True(t, ok)
	assert.Equal(t, "c-abc1234", id)
}

func TestExtractCaseInsensitive(t *testing.T) {
	msg := "fix: widget\n\ngg-id: c-abc1234\n"
	id, ok := Extract(msg)
	require.True(t, ok)
	assert.Equal(t, "c-abc1234", id)
}

func TestExtractLeadingWhitespace(t *testing.T) {
	msg := "fix: widget\n\n  GG-ID:  c-abc1234\n"
	id, ok := Extract(msg)
	require.True(t, ok)
	assert.Equal(t, "c-abc1234", id)
}

func TestExtractMissing(t *testing.T) {
	_, ok := Extract("fix: widget\n\nno trailer here\n")
	assert.False(t, ok)
}

func TestInsertOrReplaceAppends(t *testing.T) {
	msg := "fix: widget\n\nBody text.\n"
	out := InsertOrReplace(msg, "c-abc1234")
	assert.Equal(t, "fix: widget\n\nBody text.\n\nGG-ID: c-abc1234", out)
}

func TestInsertOrReplaceReplacesInPlace(t *testing.T) {
	msg := "fix: widget\n\nGG-ID: c-oldoldo\n"
	out := InsertOrReplace(msg, "c-newnewn")
	id, ok := Extract(out)
	require.True(t, ok)
	assert.Equal(t, "c-newnewn", id)
	assert.Equal(t, 1, strings.Count(out, "GG-ID:"))
}

func TestStripRemovesTrailer(t *testing.T) {
	msg := "fix: widget\n\nBody.\n\nGG-ID: c-abc1234\n"
	out := Strip(msg)
	assert.NotContains(t, out, "GG-ID")
	assert.Equal(t, "fix: widget\n\nBody.", out)
}

func TestStripNoTrailerIsNoop(t *testing.T) {
	msg := "fix: widget\n\nBody."
	assert.Equal(t, msg, Strip(msg))
}
