package position

import "unicode/utf8"

// Tracker follows the line and column of one logical file as characters are
// consumed. Lines and columns start at 1. A column is one character: the
// bytes of a multi-byte UTF-8 sequence share the column of the first.
type Tracker struct {
	filename string
	line     int
	column   int
	tabWidth int // 0 counts a tab as one column
}

// NewTracker creates a tracker positioned at 1:1 of filename.
func NewTracker(filename string) *Tracker {
	return &Tracker{filename: filename, line: 1, column: 1}
}

// SetTabWidth makes every following tab advance the column by width.
func (t *Tracker) SetTabWidth(width int) { t.tabWidth = width }

// Advance moves past the byte ch. A newline starts a new line at column 1.
func (t *Tracker) Advance(ch byte) {
	switch {
	case ch == '\n':
		t.line++
		t.column = 1
	case ch == '\t' && t.tabWidth > 0:
		t.AdvanceTab(t.tabWidth)
	case !utf8.RuneStart(ch):
	default:
		t.column++
	}
}

// AdvanceTab moves the column forward by width without touching the line.
func (t *Tracker) AdvanceTab(width int) {
	t.column += width
}

// Reset restores line and column to 1. The file name is kept.
func (t *Tracker) Reset() {
	t.line = 1
	t.column = 1
}

// SetFile switches to a new file and resets the position.
func (t *Tracker) SetFile(filename string) {
	t.filename = filename
	t.Reset()
}

func (t *Tracker) Line() int    { return t.line }
func (t *Tracker) Column() int  { return t.column }
func (t *Tracker) File() string { return t.filename }

// Pos returns the current position; offset is supplied by the caller since
// the tracker does not count bytes.
func (t *Tracker) Pos(offset int) Position {
	return Position{Filename: t.filename, Line: t.line, Column: t.column, Offset: offset}
}
