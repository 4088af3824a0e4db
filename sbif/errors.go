package sbif

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthRequired is returned when a composite is encoded without
	// a known element count. SBIF writes every count before the first
	// element, so unknown-length composites cannot be represented.
	ErrLengthRequired = errors.New("sbif: lengths are required for the sbif format")

	// ErrMapAccess is returned when map key/value alternation is
	// broken: a value requested without a preceding unconsumed key, a
	// second key requested while a value is pending, or either
	// requested past the declared pair count.
	ErrMapAccess = errors.New("sbif: map keys and values must alternate")

	// ErrInvalidUTF8 is returned when a string or char payload does not
	// decode as valid UTF-8, or an invalid rune is encoded.
	ErrInvalidUTF8 = errors.New("sbif: invalid UTF-8 data")

	// ErrDepthExceeded is returned when generic decoding recurses past
	// the supported nesting depth.
	ErrDepthExceeded = errors.New("sbif: value nesting too deep")
)

// HeaderError reports a stream whose magic bytes are not "SBIF".
type HeaderError struct {
	Found string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("sbif: invalid header: expected %q, found %q", headerMagic, e.Found)
}

// VersionError reports a stream written by an unsupported format
// version.
type VersionError struct {
	Expected uint8
	Found    uint8
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("sbif: invalid version: expected %d, found %d", e.Expected, e.Found)
}

// CompressionError reports a header compression kind outside the fixed
// set {0, 1, 2, 3}.
type CompressionError struct {
	Kind uint8
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("sbif: %d is not a valid compression format", e.Kind)
}

// TagError reports a wire tag that does not match the tag implied by
// the caller's expected shape.
type TagError struct {
	Expected string
	Found    Tag
}

func (e *TagError) Error() string {
	return fmt.Sprintf("sbif: invalid tag: expected %s, found %s (%d)", e.Expected, e.Found, uint8(e.Found))
}

// LengthError reports a declared arity that differs from the encoded
// element count (tuples, tuple structs, tuple variants).
type LengthError struct {
	What     string
	Expected int
	Actual   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("sbif: invalid %s length: expected %d, actual %d", e.What, e.Expected, e.Actual)
}

// VariantError reports enum variant misuse: unit-style access to a
// data-carrying variant, data-style access to a unit variant, a variant
// index missing from the table, or a shape that cannot be resolved at
// all (skipping a data-carrying variant without a table).
type VariantError struct {
	Index  uint32
	Detail string
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("sbif: variant %d: %s", e.Index, e.Detail)
}
