package ai

import (
	"context"
	"strings"
)

// Prompter suggests a short card prompt for a page whose text has no usable
// first line.
type Prompter interface {
	Prompt(ctx context.Context, pageText string) (string, error)
}

type Noop struct{}

func (Noop) Prompt(ctx context.Context, pageText string) (string, error) { return "", nil }

// cleanPrompt keeps the first non-empty line of a model answer, without
// surrounding quotes.
func cleanPrompt(s string) string {
	s = stripCodeFences(s)
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(ln)
		ln = strings.Trim(ln, "\"'`")
		if ln != "" {
			return ln
		}
	}
	return ""
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if firstNewline := strings.Index(s, "\n"); firstNewline != -1 {
			s = s[firstNewline+1:]
		}
	}

	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	return s
}
