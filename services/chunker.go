package services

import "strings"

// SplitText splits text into overlapping, sentence-aware chunks.
//
// Each step takes the window [start, start+size). If the window does not
// reach the end of the text, the window is cut at the last sentence
// terminator (. ? !) when one occurs past the midpoint, so chunks tend to
// end on sentence boundaries. The next window starts overlap characters
// before the previous end, giving consecutive chunks a shared boundary for
// context continuity. The same input always produces the same boundaries.
//
// Empty or whitespace-only input yields no chunks. Overlap must be smaller
// than size.
func SplitText(text string, size, overlap int) []string {
	runes := []rune(text)
	var chunks []string
	start := 0

	for start < len(runes) {
		end := start + size
		cut := end
		if end < len(runes) {
			if p := lastSentenceEnd(runes[start:end]); float64(p) > float64(size)*0.5 {
				end = start + p + 1
				cut = end
			}
		} else {
			// The window runs off the end of the text. Emit the tail but
			// advance from the unclamped end so the loop terminates.
			cut = len(runes)
		}

		if piece := strings.TrimSpace(string(runes[start:cut])); piece != "" {
			chunks = append(chunks, piece)
		}
		start = end - overlap
	}
	return chunks
}

// lastSentenceEnd returns the index of the last '.', '?' or '!' in window,
// or -1 when none is present.
func lastSentenceEnd(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case '.', '?', '!':
			return i
		}
	}
	return -1
}
