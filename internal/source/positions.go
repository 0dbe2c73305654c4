package source

// Position represents a specific location in the front end's source code with
// line, column, and byte index information. Positions are produced by the
// front end and carried through the backend unchanged; the backend only uses
// them when reporting diagnostics.
type Position struct {
	Line   int // Line number in the source code.
	Column int // Column number in the source code.
	Index  int // Byte index in the source code.
}

// Before reports whether p comes strictly before other in source order.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}
