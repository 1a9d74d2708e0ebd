package chat

import (
	"strings"
	"unicode/utf8"
)

// AssembleContext joins the filtered passages with newlines in rank order and
// hard-cuts the result at maxChars characters. The cut is not
// passage-boundary-aware: a passage may be truncated mid-sentence, which keeps
// prompt size and latency bounded. The cut always lands on a rune boundary so
// the result stays valid UTF-8.
func AssembleContext(chunks []string, maxChars int) string {
	joined := strings.Join(chunks, "\n")
	if maxChars <= 0 || utf8.RuneCountInString(joined) <= maxChars {
		return joined
	}
	runes := []rune(joined)
	return string(runes[:maxChars])
}
