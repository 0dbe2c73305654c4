package diagnostics

// Stable diagnostic codes for the backend
const (
	// Nullability checker (N prefix)
	ErrNullToNonNullable = "N0001"
	ErrNullArgument      = "N0002"
	ErrNullReturn        = "N0003"

	// Emitter / code generation (G prefix)
	ErrUnsupportedConstruct = "G0001"
	ErrMissingRendering     = "G0002"

	// Internal invariants (X prefix)
	ErrInternalInvariant = "X0001"
	ErrTempCollision     = "X0002"
)
