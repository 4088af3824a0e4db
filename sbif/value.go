package sbif

import "fmt"

// Kind classifies a Value. It is the logical counterpart of the wire
// Tag: options and units collapse into KindNull and structs into
// KindMap, exactly as they do on the wire.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindChar
	KindString
	KindBytes
	KindSeq
	KindTuple
	KindTupleStruct
	KindMap
	KindVariant
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt8:
		return "i8"
	case KindInt16:
		return "i16"
	case KindInt32:
		return "i32"
	case KindInt64:
		return "i64"
	case KindUint8:
		return "u8"
	case KindUint16:
		return "u16"
	case KindUint32:
		return "u32"
	case KindUint64:
		return "u64"
	case KindFloat32:
		return "f32"
	case KindFloat64:
		return "f64"
	case KindChar:
		return "char"
	case KindString:
		return "str"
	case KindBytes:
		return "bytes"
	case KindSeq:
		return "seq"
	case KindTuple:
		return "tuple"
	case KindTupleStruct:
		return "tuple struct"
	case KindMap:
		return "map"
	case KindVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// Value is a generic SBIF value tree. It implements both sides of the
// visitor boundary and is the package's reference binding: Marshal
// walks a Value into an Encoder and Unmarshal rebuilds one from a
// Decoder.
type Value struct {
	kind Kind

	// Scalar values (only one valid based on kind)
	boolVal  bool
	intVal   int64
	uintVal  uint64
	floatVal float64
	charVal  rune
	strVal   string
	bytesVal []byte

	// Container values; a newtype variant's inner value is elems[0],
	// a struct variant's fields live in entries.
	elems   []*Value
	entries []MapEntry

	variant *variantData
}

// MapEntry is one ordered key-value pair of a map value. Keys may be
// any value kind; struct fields use string keys.
type MapEntry struct {
	Key   *Value
	Value *Value
}

type variantData struct {
	index uint32
	name  string
	kind  VariantKind
}

// Null returns the null value, which also stands for an absent option
// and the unit value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a bool value.
func Bool(v bool) *Value { return &Value{kind: KindBool, boolVal: v} }

func Int8(v int8) *Value { return &Value{kind: KindInt8, intVal: int64(v)} }

func Int16(v int16) *Value { return &Value{kind: KindInt16, intVal: int64(v)} }

func Int32(v int32) *Value { return &Value{kind: KindInt32, intVal: int64(v)} }

func Int64(v int64) *Value { return &Value{kind: KindInt64, intVal: v} }

func Uint8(v uint8) *Value { return &Value{kind: KindUint8, uintVal: uint64(v)} }

func Uint16(v uint16) *Value { return &Value{kind: KindUint16, uintVal: uint64(v)} }

func Uint32(v uint32) *Value { return &Value{kind: KindUint32, uintVal: uint64(v)} }

func Uint64(v uint64) *Value { return &Value{kind: KindUint64, uintVal: v} }

func Float32(v float32) *Value { return &Value{kind: KindFloat32, floatVal: float64(v)} }

func Float64(v float64) *Value { return &Value{kind: KindFloat64, floatVal: v} }

// Char returns a single Unicode scalar value.
func Char(v rune) *Value { return &Value{kind: KindChar, charVal: v} }

// Str returns a string value.
func Str(v string) *Value { return &Value{kind: KindString, strVal: v} }

// Bytes returns a raw byte blob value.
func Bytes(v []byte) *Value { return &Value{kind: KindBytes, bytesVal: v} }

// Seq returns an ordered sequence.
func Seq(elems ...*Value) *Value { return &Value{kind: KindSeq, elems: elems} }

// Tuple returns a fixed-arity tuple.
func Tuple(elems ...*Value) *Value { return &Value{kind: KindTuple, elems: elems} }

// TupleStruct returns a named fixed-arity tuple.
func TupleStruct(elems ...*Value) *Value { return &Value{kind: KindTupleStruct, elems: elems} }

// Map returns a map of ordered key-value pairs.
func Map(entries ...MapEntry) *Value { return &Value{kind: KindMap, entries: entries} }

// Struct returns a struct value. Structs are string-keyed maps on the
// wire, so the result is a map whose keys are the field names in
// declaration order.
func Struct(fields ...MapEntry) *Value { return Map(fields...) }

// Field builds a struct field entry.
func Field(name string, v *Value) MapEntry {
	return MapEntry{Key: Str(name), Value: v}
}

// Entry builds a map entry.
func Entry(key, value *Value) MapEntry {
	return MapEntry{Key: key, Value: value}
}

// UnitVariant returns a payload-free enum variant.
func UnitVariant(index uint32, name string) *Value {
	return &Value{kind: KindVariant, variant: &variantData{index: index, name: name, kind: VariantUnit}}
}

// NewtypeVariant returns an enum variant wrapping a single inner value.
func NewtypeVariant(index uint32, name string, inner *Value) *Value {
	return &Value{
		kind:    KindVariant,
		variant: &variantData{index: index, name: name, kind: VariantNewtype},
		elems:   []*Value{inner},
	}
}

// TupleVariant returns an enum variant with a fixed-arity payload.
func TupleVariant(index uint32, name string, elems ...*Value) *Value {
	return &Value{
		kind:    KindVariant,
		variant: &variantData{index: index, name: name, kind: VariantTuple},
		elems:   elems,
	}
}

// StructVariant returns an enum variant with named fields.
func StructVariant(index uint32, name string, fields ...MapEntry) *Value {
	return &Value{
		kind:    KindVariant,
		variant: &variantData{index: index, name: name, kind: VariantStruct},
		entries: fields,
	}
}

// Kind returns the value's kind.
func (v *Value) Kind() Kind { return v.kind }

// IsNull returns true for the null value.
func (v *Value) IsNull() bool { return v != nil && v.kind == KindNull }

// AsBool returns the bool. Panics if not a bool.
func (v *Value) AsBool() bool {
	if v.kind != KindBool {
		panic("sbif: not a bool")
	}
	return v.boolVal
}

// AsInt returns a signed integer value widened to int64. Panics if not
// one of the signed integer kinds.
func (v *Value) AsInt() int64 {
	switch v.kind {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return v.intVal
	}
	panic("sbif: not a signed integer")
}

// AsUint returns an unsigned integer value widened to uint64. Panics if
// not one of the unsigned integer kinds.
func (v *Value) AsUint() uint64 {
	switch v.kind {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return v.uintVal
	}
	panic("sbif: not an unsigned integer")
}

// AsFloat returns a float value widened to float64. Panics if not a
// float kind.
func (v *Value) AsFloat() float64 {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return v.floatVal
	}
	panic("sbif: not a float")
}

// AsChar returns the Unicode scalar. Panics if not a char.
func (v *Value) AsChar() rune {
	if v.kind != KindChar {
		panic("sbif: not a char")
	}
	return v.charVal
}

// AsStr returns the string. Panics if not a string.
func (v *Value) AsStr() string {
	if v.kind != KindString {
		panic("sbif: not a string")
	}
	return v.strVal
}

// AsBytes returns the raw bytes. Panics if not a bytes value.
func (v *Value) AsBytes() []byte {
	if v.kind != KindBytes {
		panic("sbif: not a bytes value")
	}
	return v.bytesVal
}

// Elems returns the elements of a seq, tuple or tuple struct, or the
// payload of a newtype or tuple variant.
func (v *Value) Elems() []*Value { return v.elems }

// Entries returns the pairs of a map, or the fields of a struct
// variant.
func (v *Value) Entries() []MapEntry { return v.entries }

// VariantIndex returns the numeric variant index. Panics if not a
// variant.
func (v *Value) VariantIndex() uint32 {
	if v.kind != KindVariant {
		panic("sbif: not a variant")
	}
	return v.variant.index
}

// VariantName returns the variant name, which may be empty when the
// value was decoded without a variant table.
func (v *Value) VariantName() string {
	if v.kind != KindVariant {
		panic("sbif: not a variant")
	}
	return v.variant.name
}

// VariantKind returns the variant's payload shape. Panics if not a
// variant.
func (v *Value) VariantKind() VariantKind {
	if v.kind != KindVariant {
		panic("sbif: not a variant")
	}
	return v.variant.kind
}

// String returns a short debug rendering.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%v", v.boolVal)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return fmt.Sprintf("%s(%d)", v.kind, v.intVal)
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return fmt.Sprintf("%s(%d)", v.kind, v.uintVal)
	case KindFloat32, KindFloat64:
		return fmt.Sprintf("%s(%g)", v.kind, v.floatVal)
	case KindChar:
		return fmt.Sprintf("char(%q)", v.charVal)
	case KindString:
		return fmt.Sprintf("%q", v.strVal)
	case KindBytes:
		return fmt.Sprintf("bytes(%d)", len(v.bytesVal))
	case KindSeq, KindTuple, KindTupleStruct:
		return fmt.Sprintf("%s[%d]", v.kind, len(v.elems))
	case KindMap:
		return fmt.Sprintf("map[%d]", len(v.entries))
	case KindVariant:
		return fmt.Sprintf("variant %d (%s)", v.variant.index, v.variant.kind)
	default:
		return "unknown"
	}
}

// Equal reports deep logical equality. Numeric kinds must match
// exactly (a u8 never equals a u16). Variant names are not compared:
// a value decoded without a table carries no names but the same wire
// identity.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return v.intVal == o.intVal
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return v.uintVal == o.uintVal
	case KindFloat32, KindFloat64:
		return v.floatVal == o.floatVal
	case KindChar:
		return v.charVal == o.charVal
	case KindString:
		return v.strVal == o.strVal
	case KindBytes:
		if len(v.bytesVal) != len(o.bytesVal) {
			return false
		}
		for i := range v.bytesVal {
			if v.bytesVal[i] != o.bytesVal[i] {
				return false
			}
		}
		return true
	case KindSeq, KindTuple, KindTupleStruct:
		return equalElems(v.elems, o.elems)
	case KindMap:
		return equalEntries(v.entries, o.entries)
	case KindVariant:
		if v.variant.index != o.variant.index || v.variant.kind != o.variant.kind {
			return false
		}
		return equalElems(v.elems, o.elems) && equalEntries(v.entries, o.entries)
	default:
		return false
	}
}

func equalElems(a, b []*Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalEntries(a, b []MapEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Key.Equal(b[i].Key) || !a[i].Value.Equal(b[i].Value) {
			return false
		}
	}
	return true
}
