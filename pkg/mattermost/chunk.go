package mattermost

import (
	"strings"
	"unicode/utf8"
)

// chunkSeparators in preference order: paragraph break, line break, word
// break. A window with none of them gets a hard cut at the limit.
var chunkSeparators = []string{"\n\n", "\n", " "}

// ChunkMessage splits text into segments of at most maxLen runes,
// preferring to break at the last separator before the limit. Leading
// whitespace of each remainder is trimmed before the next segment is
// formed. Concatenating the segments reproduces the text up to the
// trimmed break whitespace.
func ChunkMessage(text string, maxLen int) []string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	remaining := text
	for remaining != "" {
		if utf8.RuneCountInString(remaining) <= maxLen {
			chunks = append(chunks, remaining)
			break
		}

		cut := byteOffsetOfRune(remaining, maxLen)
		window := remaining[:cut]
		split := cut
		for _, sep := range chunkSeparators {
			if idx := strings.LastIndex(window, sep); idx > 0 {
				split = idx
				break
			}
		}

		chunks = append(chunks, remaining[:split])
		remaining = strings.TrimLeft(remaining[split:], " \t\n")
	}
	return chunks
}

// byteOffsetOfRune returns the byte index of the n-th rune so hard cuts
// never land inside a multi-byte character.
func byteOffsetOfRune(s string, n int) int {
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}
