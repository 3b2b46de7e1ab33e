package ash

import "fmt"

// SourceLocation records a position inside a source buffer: the byte offset
// of the first character, the 1-based line and column, and the logical
// filename the buffer was loaded under. Once constructed it is never
// mutated.
type SourceLocation struct {
	Offset uint64
	Line   uint64
	Column uint64
	File   string
}

// String pretty-formats the location as "file:line:column", matching the
// prefix the diagnostic sink's user-visible message format uses (spec.md §7).
func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
