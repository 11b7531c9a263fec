package stackmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeNameLowercasesAndHyphenates(t *testing.T) {
	assert.Equal(t, "add-widget-support", SanitizeName("Add Widget Support"))
	assert.Equal(t, "weird-chars", SanitizeName("weird!!chars"))
	assert.Equal(t, "trim-me", SanitizeName("--trim-me--"))
}

func TestParseAndFormatStackBranch(t *testing.T) {
	name := FormatStackBranch("alice", "widget")
	assert.Equal(t, "alice/widget", name)

	user, stack, ok := ParseStackBranch(name)
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "widget", stack)
}

func TestParseStackBranchRejectsEntryBranch(t *testing.T) {
	_, _, ok := ParseStackBranch("alice/widget--c-abc1234")
	assert.False(t, ok)
}

func TestParseAndFormatEntryBranch(t *testing.T) {
	name := FormatEntryBranch("alice", "widget", "c-abc1234")
	assert.Equal(t, "alice/widget--c-abc1234", name)

	user, stack, id, ok := ParseEntryBranch(name)
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "widget", stack)
	assert.Equal(t, "c-abc1234", id)
}

func TestParseEntryBranchRejectsPlainStackBranch(t *testing.T) {
	_, _, _, ok := ParseEntryBranch("alice/widget")
	assert.False(t, ok)
}
