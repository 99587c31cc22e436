package domain

import (
	"fmt"
	"maps"
	"slices"
)

// CompileOrder controls how mixed Java and Scala sources are compiled.
type CompileOrder string

const (
	Mixed         CompileOrder = "Mixed"
	JavaThenScala CompileOrder = "JavaThenScala"
	ScalaThenJava CompileOrder = "ScalaThenJava"
)

// MiniSetup is the compile setup snapshot recorded alongside an analysis.
// Consumers compare the previous and the current setup to decide whether
// an analysis can be reused.
type MiniSetup struct {
	CompilerVersion string
	Order           CompileOrder
	ScalacOptions   []string
	JavacOptions    []string
	ClasspathHash   string
	StoreAPIs       bool
	Extra           map[string]string
}

// Equal compares two setups field by field.
func (s MiniSetup) Equal(other MiniSetup) bool {
	return s.CompilerVersion == other.CompilerVersion &&
		s.Order == other.Order &&
		slices.Equal(s.ScalacOptions, other.ScalacOptions) &&
		slices.Equal(s.JavacOptions, other.JavacOptions) &&
		s.ClasspathHash == other.ClasspathHash &&
		s.StoreAPIs == other.StoreAPIs &&
		maps.Equal(s.Extra, other.Extra)
}

// SetupEquiv is an externally supplied equivalence test over compile setups.
// It is always handled by pointer: two SetupEquiv values are the same
// predicate only if they are the same pointer.
type SetupEquiv struct {
	fn func(a, b MiniSetup) bool
}

// NewSetupEquiv wraps fn as a SetupEquiv.
func NewSetupEquiv(fn func(a, b MiniSetup) bool) *SetupEquiv {
	return &SetupEquiv{fn: fn}
}

// Equivalent reports whether a and b are equivalent under the wrapped predicate.
// A nil predicate falls back to MiniSetup.Equal.
func (e *SetupEquiv) Equivalent(a, b MiniSetup) bool {
	if e == nil || e.fn == nil {
		return a.Equal(b)
	}
	return e.fn(a, b)
}

func (e *SetupEquiv) String() string {
	return fmt.Sprintf("SetupEquiv(%p)", e)
}
