package timeline

import (
	"strings"
	"unicode"

	"github.com/threadline/go-sdk/pkg/messages"
)

// DefaultTitleLength is the default maximum title length in runes.
const DefaultTitleLength = 80

// GenerateTitle derives a conversation title from the first user message:
// its text content with whitespace collapsed, truncated rune-safely. Returns
// "" when no user message with text exists.
func (tl *Timeline) GenerateTitle(maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultTitleLength
	}

	tl.mu.RLock()
	defer tl.mu.RUnlock()

	for _, m := range tl.msgs {
		if m.Role != messages.RoleUser {
			continue
		}
		text := collapseWhitespace(m.TextContent())
		if text == "" {
			continue
		}
		return truncateRunes(text, maxRunes)
	}
	return ""
}

// ContentString concatenates the text content of every canonical message,
// separated by newlines.
func (tl *Timeline) ContentString() string {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	var lines []string
	for _, m := range tl.msgs {
		if text := m.TextContent(); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
