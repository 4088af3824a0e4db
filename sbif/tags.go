package sbif

// Tag is the one-byte kind discriminator that precedes every value on
// the wire. Tag values are protocol constants; changing them breaks
// stream compatibility.
type Tag uint8

const (
	TagNull        Tag = 0
	TagBool        Tag = 1
	TagI8          Tag = 2
	TagI16         Tag = 3
	TagI32         Tag = 4
	TagI64         Tag = 5
	TagU8          Tag = 6
	TagU16         Tag = 7
	TagU32         Tag = 8
	TagU64         Tag = 9
	TagF32         Tag = 10
	TagF64         Tag = 11
	TagChar        Tag = 12
	TagStr         Tag = 13
	TagBytes       Tag = 14
	TagSeq         Tag = 15
	TagTuple       Tag = 16
	TagUnitVariant Tag = 17

	// TagDataVariant covers newtype, tuple and struct carrying variants
	// alike. The variant index after the tag, resolved against a
	// VariantTable, decides the payload framing. Values 19 and 20 are
	// reserved: an earlier format revision assigned separate tags per
	// data-carrying shape and they must not be reused.
	TagDataVariant Tag = 18

	TagTupleStruct Tag = 21
	TagMap         Tag = 22
)

// String returns the tag name for diagnostics.
func (t Tag) String() string {
	switch t {
	case TagNull:
		return "null"
	case TagBool:
		return "bool"
	case TagI8:
		return "i8"
	case TagI16:
		return "i16"
	case TagI32:
		return "i32"
	case TagI64:
		return "i64"
	case TagU8:
		return "u8"
	case TagU16:
		return "u16"
	case TagU32:
		return "u32"
	case TagU64:
		return "u64"
	case TagF32:
		return "f32"
	case TagF64:
		return "f64"
	case TagChar:
		return "char"
	case TagStr:
		return "str"
	case TagBytes:
		return "bytes"
	case TagSeq:
		return "seq"
	case TagTuple:
		return "tuple"
	case TagUnitVariant:
		return "unit variant"
	case TagDataVariant:
		return "data variant"
	case TagTupleStruct:
		return "tuple struct"
	case TagMap:
		return "map"
	default:
		return "unknown"
	}
}
