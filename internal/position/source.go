package position

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SourceFile represents a source file with content and position tracking
type SourceFile struct {
	Filename string   // File path
	Content  string   // Source code content
	Lines    []string // Lines of source code for efficient access
	TabWidth int      // Columns per tab; 0 counts a tab as one column
}

// NewSourceFile creates a new source file from content
func NewSourceFile(filename, content string) *SourceFile {
	return &SourceFile{
		Filename: filename,
		Content:  content,
		Lines:    strings.Split(content, "\n"),
	}
}

// GetLine returns the specified line (1-based) or empty string if invalid
func (sf *SourceFile) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.Lines) {
		return ""
	}
	return strings.TrimSuffix(sf.Lines[lineNum-1], "\r")
}

// Highlight renders the line holding pos with a caret run of the given width
// beneath it:
//
//	   3 | func f( {
//	     |        ^
//
// Columns are counted the way the lexer counts them, so TabWidth must match
// the width the positions were produced with.
func (sf *SourceFile) Highlight(pos Position, width int) string {
	line := sf.GetLine(pos.Line)
	if !pos.IsValid() || pos.Line > len(sf.Lines) {
		return ""
	}
	if width < 1 {
		width = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%4d | %s\n", pos.Line, line)
	b.WriteString("     | ")

	t := NewTracker(sf.Filename)
	t.SetTabWidth(sf.TabWidth)
	i := 0
	for i < len(line) && t.Column() < pos.Column {
		r, size := utf8.DecodeRuneInString(line[i:])
		// Keep tabs so the caret lines up with the echoed source.
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		for _, c := range []byte(line[i : i+size]) {
			t.Advance(c)
		}
		i += size
	}
	if pad := pos.Column - t.Column(); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}

	if rest := utf8.RuneCountInString(line[i:]); rest > 0 && width > rest {
		width = rest
	}
	b.WriteString(strings.Repeat("^", width))
	b.WriteByte('\n')
	return b.String()
}
