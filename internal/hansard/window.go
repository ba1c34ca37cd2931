package hansard

import (
	"strings"
	"unicode/utf8"
)

// DefaultWindowSize bounds how much text a single scan pass holds.
const DefaultWindowSize = 64 << 10

// window is a slice of the transcript together with its absolute byte offset.
type window struct {
	offset int
	text   string
}

func (w window) end() int { return w.offset + len(w.text) }

// nextWindow returns the window starting at start. The window is cut after the
// last newline that fits in size bytes so that no line is split across two
// windows; a single line longer than size is cut on a rune boundary instead.
func nextWindow(text string, start, size int) window {
	end := start + size
	if end >= len(text) {
		return window{offset: start, text: text[start:]}
	}
	if i := strings.LastIndexByte(text[start:end], '\n'); i >= 0 {
		return window{offset: start, text: text[start : start+i+1]}
	}
	for end > start && !utf8.RuneStart(text[end]) {
		end--
	}
	if end == start {
		end = start + size
	}
	return window{offset: start, text: text[start:end]}
}

// lineCounter maps absolute offsets to 1-based line numbers. Offsets are
// expected in increasing order; a smaller offset restarts the count.
type lineCounter struct {
	text string
	pos  int
	line int
}

func newLineCounter(text string) *lineCounter {
	return &lineCounter{text: text, line: 1}
}

func (lc *lineCounter) lineAt(offset int) int {
	if offset > len(lc.text) {
		offset = len(lc.text)
	}
	if offset < lc.pos {
		lc.pos, lc.line = 0, 1
	}
	lc.line += strings.Count(lc.text[lc.pos:offset], "\n")
	lc.pos = offset
	return lc.line
}
