package profile

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// readmeCandidates is the ordered list of filenames tried when fetching
// a repository's README.
var readmeCandidates = []string{
	"README.md",
	"README.rst",
	"README.txt",
	"README",
	"readme.md",
}

// contentPayload is the shape of the repository-contents endpoint
// response for a file.
type contentPayload struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// decodeContent extracts and decodes the base64 content field of a
// contents-endpoint response. Bad base64 or non-UTF-8 text makes the
// candidate unreadable; the caller moves on to the next filename.
func decodeContent(body []byte) (string, error) {
	var payload contentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode content payload: %w", err)
	}
	if payload.Content == "" {
		return "", fmt.Errorf("content field missing")
	}

	// The API wraps base64 at 60 columns.
	compact := strings.ReplaceAll(payload.Content, "\n", "")
	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return "", fmt.Errorf("decode base64 content: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("content is not valid UTF-8")
	}
	return string(raw), nil
}

var (
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	codeFenceRe    = regexp.MustCompile("(?s)```.*?```")
)

// CleanMarkdown strips markup from README text for plain display: HTML
// tags, markdown link targets and code fences go, whitespace collapses.
func CleanMarkdown(content string) string {
	content = codeFenceRe.ReplaceAllString(content, "")
	content = htmlTagRe.ReplaceAllString(content, "")
	content = markdownLinkRe.ReplaceAllString(content, "$1")
	return strings.Join(strings.Fields(content), " ")
}

// TruncateAtSentence shortens text to at most max characters, cutting at
// the last full sentence when possible, otherwise at a word boundary.
func TruncateAtSentence(text string, max int) string {
	if len(text) <= max {
		return text
	}

	// Back off to a rune boundary so the cut never splits a character.
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	truncated := text[:cut]
	if i := strings.LastIndex(truncated, "."); i > 0 {
		return truncated[:i+1]
	}
	if i := strings.LastIndex(truncated, " "); i > 0 {
		return truncated[:i]
	}
	return truncated
}
