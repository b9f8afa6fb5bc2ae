// Package span provides byte-offset source spans and the edit model used to
// patch original source text: ordered, non-overlapping replacements that may
// carry nested sub-edits into their own replacement text.
package span

// Span is a half-open byte interval [Start, End) into a source buffer.
type Span struct {
	Start int
	End   int
}

// Dummy is the invalid span carried by freshly synthesized nodes that have
// no position in any source buffer.
var Dummy = Span{Start: -1, End: -1}

// New returns the span [start, end).
func New(start, end int) Span {
	return Span{Start: start, End: end}
}

// Point returns the zero-length span at pos, used as an insertion anchor.
func Point(pos int) Span {
	return Span{Start: pos, End: pos}
}

// IsDummy reports whether the span is the invalid placeholder.
func (s Span) IsDummy() bool {
	return s.Start < 0
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsPoint reports whether the span is a valid zero-length position. The
// dummy span is not a point: it names no position at all.
func (s Span) IsPoint() bool {
	return !s.IsDummy() && s.Start == s.End
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether s and other share at least one byte. Zero-length
// spans never overlap anything.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Text returns the bytes the span covers in src as a string.
func (s Span) Text(src []byte) string {
	return string(src[s.Start:s.End])
}
