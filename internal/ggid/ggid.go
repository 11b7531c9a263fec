// Package ggid implements the GG-ID commit identity trailer: a stable,
// rebase-surviving identifier embedded in a commit message that lets gg
// recognize the same logical change across amends and rebases.
package ggid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Prefix is the trailer key written at the start of the trailer line.
const Prefix = "GG-ID:"

// trailerRe matches a GG-ID trailer line, case-insensitively, capturing the
// id. Leading whitespace is allowed since trailers are sometimes indented
// when quoted or reflowed.
var trailerRe = regexp.MustCompile(`(?im)^\s*GG-ID:\s*(\S+)\s*$`)

// replaceRe matches an existing GG-ID trailer line so it can be replaced in place.
var replaceRe = regexp.MustCompile(`(?im)^[ \t]*GG-ID:[ \t]*\S+[ \t]*$`)

// Extract returns the GG-ID trailer value from a commit message, if present.
// Matching is case-insensitive; only the first matching line is used.
func Extract(message string) (string, bool) {
	m := trailerRe.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Generate returns a new id of the form "c-<7 lowercase alphanumeric chars>".
// The suffix is the first 7 characters of a random UUID, which always fall
// before its first hyphen and are therefore plain lowercase hex.
func Generate() string {
	id := uuid.New().String()
	return fmt.Sprintf("c-%s", id[:7])
}

// InsertOrReplace returns message with its GG-ID trailer set to id, replacing
// an existing trailer in place or appending a new trailer block after a
// trailing blank line otherwise.
func InsertOrReplace(message, id string) string {
	trailer := fmt.Sprintf("%s %s", Prefix, id)
	if replaceRe.MatchString(message) {
		return replaceRe.ReplaceAllString(message, trailer)
	}
	trimmed := strings.TrimRight(message, "\n")
	return trimmed + "\n\n" + trailer
}

// Strip removes any GG-ID trailer line from message, trimming the trailing
// whitespace left behind.
func Strip(message string) string {
	stripped := replaceRe.ReplaceAllString(message, "")
	return strings.TrimRight(stripped, "\n \t")
}
