package source

import "fmt"

// Location represents a span of front-end source code with start and end
// positions. Every typed node carries one so that backend diagnostics can
// point at the construct that produced them.
type Location struct {
	Start    Position
	End      Position
	Filename string
}

// NewLocation creates a new Location with the given start and end positions.
func NewLocation(filename string, start, end Position) Location {
	return Location{
		Filename: filename,
		Start:    start,
		End:      end,
	}
}

// Span creates a location covering both l and other.
func (l Location) Span(other Location) Location {
	merged := l
	if other.Start.Before(l.Start) {
		merged.Start = other.Start
	}
	if merged.End.Before(other.End) {
		merged.End = other.End
	}
	return merged
}

// Contains checks if the given position is within this location.
func (l Location) Contains(pos Position) bool {
	if pos.Before(l.Start) {
		return false
	}
	if l.End.Before(pos) {
		return false
	}
	return true
}

// IsZero reports whether the location carries no position information.
func (l Location) IsZero() bool {
	return l == Location{}
}

func (l Location) String() string {
	if l.IsZero() {
		return "location(unknown)"
	}
	if l.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", l.Filename, l.Start.Line, l.Start.Column)
	}
	return fmt.Sprintf("location(%d:%d - %d:%d)", l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
}
