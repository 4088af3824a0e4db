package sbif

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// maxNestingDepth bounds recursion in DecodeAny and Skip so an
// adversarial stream of deeply nested composites cannot exhaust the
// call stack. Expected-shape decoding recurses only as deep as the
// caller's own declared shape and is not guarded.
const maxNestingDepth = 128

// Decoder reads one top-level SBIF value from a source. The caller
// drives it by declaring, per node, the expected shape, or requests
// generic tag-directed decoding via DecodeAny.
//
// Any decode failure is terminal for the stream: nothing is
// resynchronized and further calls read from an undefined position.
type Decoder struct {
	r           *peekReader
	compression Compression
	depth       int
	scratch     [8]byte
}

// NewDecoder reads and validates the file header from r, then wraps
// the remaining bytes in the decompressor the header names.
func NewDecoder(r io.Reader) (*Decoder, error) {
	h, err := readFileHeader(r)
	if err != nil {
		return nil, err
	}
	if h.magic != headerMagic {
		return nil, &HeaderError{Found: h.magic}
	}
	if h.version != formatVersion {
		return nil, &VersionError{Expected: formatVersion, Found: h.version}
	}
	cr, err := h.compression.newReader(r)
	if err != nil {
		return nil, err
	}
	return &Decoder{r: newPeekReader(cr), compression: h.compression}, nil
}

// Compression reports the transport recorded in the stream's header.
func (d *Decoder) Compression() Compression {
	return d.compression
}

// expectTag consumes one tag byte and checks it against the tag implied
// by the caller's expected shape.
func (d *Decoder) expectTag(want Tag) error {
	b, err := d.r.readByte()
	if err != nil {
		return fmt.Errorf("read tag: %w", err)
	}
	if Tag(b) != want {
		return &TagError{Expected: want.String(), Found: Tag(b)}
	}
	return nil
}

func (d *Decoder) readU32() (uint32, error) {
	if err := d.r.readFull(d.scratch[:4]); err != nil {
		return 0, fmt.Errorf("read value: %w", err)
	}
	return binary.BigEndian.Uint32(d.scratch[:4]), nil
}

// DecodeNull consumes the null sentinel, which also represents the unit
// value and zero-field unit structs.
func (d *Decoder) DecodeNull() error {
	return d.expectTag(TagNull)
}

// DecodeOption peeks the next tag. A Null sentinel is consumed and
// reported as absent; anything else is left in place for the caller to
// decode as the present value.
func (d *Decoder) DecodeOption() (present bool, err error) {
	b, err := d.r.peek(1)
	if err != nil {
		return false, fmt.Errorf("read tag: %w", err)
	}
	if Tag(b[0]) == TagNull {
		if _, err := d.r.readByte(); err != nil {
			return false, fmt.Errorf("read tag: %w", err)
		}
		return false, nil
	}
	return true, nil
}

func (d *Decoder) DecodeBool() (bool, error) {
	if err := d.expectTag(TagBool); err != nil {
		return false, err
	}
	b, err := d.r.readByte()
	if err != nil {
		return false, fmt.Errorf("read value: %w", err)
	}
	return b != 0, nil
}

func (d *Decoder) DecodeInt8() (int8, error) {
	if err := d.expectTag(TagI8); err != nil {
		return 0, err
	}
	b, err := d.r.readByte()
	if err != nil {
		return 0, fmt.Errorf("read value: %w", err)
	}
	return int8(b), nil
}

func (d *Decoder) DecodeInt16() (int16, error) {
	if err := d.expectTag(TagI16); err != nil {
		return 0, err
	}
	if err := d.r.readFull(d.scratch[:2]); err != nil {
		return 0, fmt.Errorf("read value: %w", err)
	}
	return int16(binary.BigEndian.Uint16(d.scratch[:2])), nil
}

func (d *Decoder) DecodeInt32() (int32, error) {
	if err := d.expectTag(TagI32); err != nil {
		return 0, err
	}
	v, err := d.readU32()
	return int32(v), err
}

func (d *Decoder) DecodeInt64() (int64, error) {
	if err := d.expectTag(TagI64); err != nil {
		return 0, err
	}
	if err := d.r.readFull(d.scratch[:8]); err != nil {
		return 0, fmt.Errorf("read value: %w", err)
	}
	return int64(binary.BigEndian.Uint64(d.scratch[:8])), nil
}

func (d *Decoder) DecodeUint8() (uint8, error) {
	if err := d.expectTag(TagU8); err != nil {
		return 0, err
	}
	b, err := d.r.readByte()
	if err != nil {
		return 0, fmt.Errorf("read value: %w", err)
	}
	return b, nil
}

func (d *Decoder) DecodeUint16() (uint16, error) {
	if err := d.expectTag(TagU16); err != nil {
		return 0, err
	}
	if err := d.r.readFull(d.scratch[:2]); err != nil {
		return 0, fmt.Errorf("read value: %w", err)
	}
	return binary.BigEndian.Uint16(d.scratch[:2]), nil
}

func (d *Decoder) DecodeUint32() (uint32, error) {
	if err := d.expectTag(TagU32); err != nil {
		return 0, err
	}
	return d.readU32()
}

func (d *Decoder) DecodeUint64() (uint64, error) {
	if err := d.expectTag(TagU64); err != nil {
		return 0, err
	}
	if err := d.r.readFull(d.scratch[:8]); err != nil {
		return 0, fmt.Errorf("read value: %w", err)
	}
	return binary.BigEndian.Uint64(d.scratch[:8]), nil
}

func (d *Decoder) DecodeFloat32() (float32, error) {
	if err := d.expectTag(TagF32); err != nil {
		return 0, err
	}
	v, err := d.readU32()
	return math.Float32frombits(v), err
}

func (d *Decoder) DecodeFloat64() (float64, error) {
	if err := d.expectTag(TagF64); err != nil {
		return 0, err
	}
	if err := d.r.readFull(d.scratch[:8]); err != nil {
		return 0, fmt.Errorf("read value: %w", err)
	}
	return math.Float64frombits(binary.BigEndian.Uint64(d.scratch[:8])), nil
}

// charLen derives the UTF-8 sequence length from a lead byte's high
// bits. Continuation and malformed lead bytes report zero.
func charLen(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

// DecodeChar reads a single Unicode scalar from its UTF-8 bytes.
func (d *Decoder) DecodeChar() (rune, error) {
	if err := d.expectTag(TagChar); err != nil {
		return 0, err
	}
	lead, err := d.r.readByte()
	if err != nil {
		return 0, fmt.Errorf("read value: %w", err)
	}
	n := charLen(lead)
	if n == 0 {
		return 0, fmt.Errorf("decode char: %w", ErrInvalidUTF8)
	}
	buf := d.scratch[:n]
	buf[0] = lead
	if n > 1 {
		if err := d.r.readFull(buf[1:]); err != nil {
			return 0, fmt.Errorf("read value: %w", err)
		}
	}
	r, size := utf8.DecodeRune(buf)
	if size != n {
		return 0, fmt.Errorf("decode char: %w", ErrInvalidUTF8)
	}
	return r, nil
}

// DecodeString reads a length-prefixed UTF-8 string into an owned
// buffer.
func (d *Decoder) DecodeString() (string, error) {
	if err := d.expectTag(TagStr); err != nil {
		return "", err
	}
	return d.readStringPayload()
}

func (d *Decoder) readStringPayload() (string, error) {
	n, err := d.readU32()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if err := d.r.readFull(buf); err != nil {
		return "", fmt.Errorf("read value: %w", err)
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("decode string: %w", ErrInvalidUTF8)
	}
	return string(buf), nil
}

// DecodeBytes reads a length-prefixed raw blob into an owned buffer.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	if err := d.expectTag(TagBytes); err != nil {
		return nil, err
	}
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if err := d.r.readFull(buf); err != nil {
		return nil, fmt.Errorf("read value: %w", err)
	}
	return buf, nil
}

// SeqAccess steps through the elements of a sequence, tuple or tuple
// struct. The caller decodes exactly one value per successful Next.
type SeqAccess struct {
	d    *Decoder
	n    int
	read int
}

// Len returns the declared element count.
func (s *SeqAccess) Len() int { return s.n }

// Next reports whether another element remains to be decoded.
func (s *SeqAccess) Next() bool {
	if s.read < s.n {
		s.read++
		return true
	}
	return false
}

// Decoder returns the decoder the elements are read from.
func (s *SeqAccess) Decoder() *Decoder { return s.d }

// MapAccess steps through the pairs of a map or struct under a strict
// protocol: NextKey, decode the key, NextValue, decode the value,
// repeated exactly Len times. Any ordering violation fails with
// ErrMapAccess.
type MapAccess struct {
	d    *Decoder
	n    int
	keys int
	vals int
}

// Len returns the declared pair count.
func (m *MapAccess) Len() int { return m.n }

// NextKey reports whether another pair remains. It fails if the
// previous key's value has not been consumed.
func (m *MapAccess) NextKey() (bool, error) {
	if m.keys > m.vals {
		return false, ErrMapAccess
	}
	if m.keys == m.n {
		return false, nil
	}
	m.keys++
	return true, nil
}

// NextValue admits decoding the value for the most recent key. It fails
// if no unconsumed key precedes it.
func (m *MapAccess) NextValue() error {
	if m.vals >= m.keys {
		return ErrMapAccess
	}
	m.vals++
	return nil
}

// Decoder returns the decoder the keys and values are read from.
func (m *MapAccess) Decoder() *Decoder { return m.d }

// DecodeSeq opens a sequence of any length.
func (d *Decoder) DecodeSeq() (*SeqAccess, error) {
	if err := d.expectTag(TagSeq); err != nil {
		return nil, err
	}
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}
	return &SeqAccess{d: d, n: int(n)}, nil
}

// DecodeTuple opens a tuple and checks the encoded count against the
// caller's declared arity.
func (d *Decoder) DecodeTuple(arity int) (*SeqAccess, error) {
	if err := d.expectTag(TagTuple); err != nil {
		return nil, err
	}
	return d.checkedSeq("tuple", arity)
}

// DecodeTupleStruct opens a tuple struct and checks the encoded count
// against the caller's declared arity.
func (d *Decoder) DecodeTupleStruct(arity int) (*SeqAccess, error) {
	if err := d.expectTag(TagTupleStruct); err != nil {
		return nil, err
	}
	return d.checkedSeq("tuple struct", arity)
}

func (d *Decoder) checkedSeq(what string, arity int) (*SeqAccess, error) {
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}
	if int(n) != arity {
		return nil, &LengthError{What: what, Expected: arity, Actual: int(n)}
	}
	return &SeqAccess{d: d, n: int(n)}, nil
}

// DecodeMap opens a map of any pair count.
func (d *Decoder) DecodeMap() (*MapAccess, error) {
	if err := d.expectTag(TagMap); err != nil {
		return nil, err
	}
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}
	return &MapAccess{d: d, n: int(n)}, nil
}

// DecodeStruct opens a struct. Structs are string-keyed maps on the
// wire, so this is DecodeMap under a clearer name.
func (d *Decoder) DecodeStruct() (*MapAccess, error) {
	return d.DecodeMap()
}

// DecodeEnum peeks the next tag and variant index without committing to
// a payload read, then resolves the variant through the table. The
// caller commits with exactly one of the EnumAccess shape methods.
// A nil table defers resolution to the caller (see EnumAccess.Resolve).
func (d *Decoder) DecodeEnum(table VariantTable) (*EnumAccess, error) {
	b, err := d.r.peek(5)
	if err != nil {
		return nil, fmt.Errorf("read tag: %w", err)
	}
	tag := Tag(b[0])
	if tag != TagUnitVariant && tag != TagDataVariant {
		return nil, &TagError{Expected: "unit variant or data variant", Found: tag}
	}
	index := binary.BigEndian.Uint32(b[1:5])
	if err := d.r.readFull(d.scratch[:5]); err != nil {
		return nil, fmt.Errorf("read tag: %w", err)
	}

	a := &EnumAccess{d: d, index: index, unit: tag == TagUnitVariant}
	if table != nil {
		if _, err := a.Resolve(table); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// DecodeAny chooses a decode path purely from the next tag and reports
// the value through the visitor. Composites hand the visitor an access
// object; data-carrying variants hand it an EnumAccess whose shape the
// visitor must resolve before committing.
func (d *Decoder) DecodeAny(v Visitor) error {
	if d.depth >= maxNestingDepth {
		return ErrDepthExceeded
	}
	d.depth++
	defer func() { d.depth-- }()

	b, err := d.r.peek(1)
	if err != nil {
		return fmt.Errorf("read tag: %w", err)
	}

	switch Tag(b[0]) {
	case TagNull:
		if _, err := d.r.readByte(); err != nil {
			return fmt.Errorf("read tag: %w", err)
		}
		return v.VisitNull()
	case TagBool:
		val, err := d.DecodeBool()
		if err != nil {
			return err
		}
		return v.VisitBool(val)
	case TagI8:
		val, err := d.DecodeInt8()
		if err != nil {
			return err
		}
		return v.VisitInt8(val)
	case TagI16:
		val, err := d.DecodeInt16()
		if err != nil {
			return err
		}
		return v.VisitInt16(val)
	case TagI32:
		val, err := d.DecodeInt32()
		if err != nil {
			return err
		}
		return v.VisitInt32(val)
	case TagI64:
		val, err := d.DecodeInt64()
		if err != nil {
			return err
		}
		return v.VisitInt64(val)
	case TagU8:
		val, err := d.DecodeUint8()
		if err != nil {
			return err
		}
		return v.VisitUint8(val)
	case TagU16:
		val, err := d.DecodeUint16()
		if err != nil {
			return err
		}
		return v.VisitUint16(val)
	case TagU32:
		val, err := d.DecodeUint32()
		if err != nil {
			return err
		}
		return v.VisitUint32(val)
	case TagU64:
		val, err := d.DecodeUint64()
		if err != nil {
			return err
		}
		return v.VisitUint64(val)
	case TagF32:
		val, err := d.DecodeFloat32()
		if err != nil {
			return err
		}
		return v.VisitFloat32(val)
	case TagF64:
		val, err := d.DecodeFloat64()
		if err != nil {
			return err
		}
		return v.VisitFloat64(val)
	case TagChar:
		val, err := d.DecodeChar()
		if err != nil {
			return err
		}
		return v.VisitChar(val)
	case TagStr:
		val, err := d.DecodeString()
		if err != nil {
			return err
		}
		return v.VisitString(val)
	case TagBytes:
		val, err := d.DecodeBytes()
		if err != nil {
			return err
		}
		return v.VisitBytes(val)
	case TagSeq:
		sa, err := d.DecodeSeq()
		if err != nil {
			return err
		}
		return v.VisitSeq(sa)
	case TagTuple:
		sa, err := d.uncheckedSeq(TagTuple)
		if err != nil {
			return err
		}
		return v.VisitTuple(sa)
	case TagTupleStruct:
		sa, err := d.uncheckedSeq(TagTupleStruct)
		if err != nil {
			return err
		}
		return v.VisitTupleStruct(sa)
	case TagMap:
		ma, err := d.DecodeMap()
		if err != nil {
			return err
		}
		return v.VisitMap(ma)
	case TagUnitVariant, TagDataVariant:
		ea, err := d.DecodeEnum(nil)
		if err != nil {
			return err
		}
		return v.VisitEnum(ea)
	default:
		return &TagError{Expected: "any value", Found: Tag(b[0])}
	}
}

// uncheckedSeq opens a fixed-arity composite in a generic context,
// where no caller-declared arity exists to validate against.
func (d *Decoder) uncheckedSeq(want Tag) (*SeqAccess, error) {
	if err := d.expectTag(want); err != nil {
		return nil, err
	}
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}
	return &SeqAccess{d: d, n: int(n)}, nil
}

// Skip discards the next value, recursing through nested composites
// without materializing them. A data-carrying variant cannot be
// skipped: under the single data-variant tag its payload framing is
// only recoverable through a variant table, and Skip has none.
func (d *Decoder) Skip() error {
	if d.depth >= maxNestingDepth {
		return ErrDepthExceeded
	}
	d.depth++
	defer func() { d.depth-- }()

	b, err := d.r.readByte()
	if err != nil {
		return fmt.Errorf("read tag: %w", err)
	}

	switch Tag(b) {
	case TagNull:
		return nil
	case TagBool, TagI8, TagU8:
		return d.r.discard(1)
	case TagI16, TagU16:
		return d.r.discard(2)
	case TagI32, TagU32, TagF32:
		return d.r.discard(4)
	case TagI64, TagU64, TagF64:
		return d.r.discard(8)
	case TagChar:
		lead, err := d.r.readByte()
		if err != nil {
			return fmt.Errorf("read value: %w", err)
		}
		n := charLen(lead)
		if n == 0 {
			return fmt.Errorf("decode char: %w", ErrInvalidUTF8)
		}
		return d.r.discard(int64(n - 1))
	case TagStr, TagBytes:
		n, err := d.readU32()
		if err != nil {
			return err
		}
		return d.r.discard(int64(n))
	case TagSeq, TagTuple, TagTupleStruct:
		n, err := d.readU32()
		if err != nil {
			return err
		}
		for i := uint32(0); i < n; i++ {
			if err := d.Skip(); err != nil {
				return err
			}
		}
		return nil
	case TagMap:
		n, err := d.readU32()
		if err != nil {
			return err
		}
		for i := uint32(0); i < n; i++ {
			if err := d.Skip(); err != nil {
				return err
			}
			if err := d.Skip(); err != nil {
				return err
			}
		}
		return nil
	case TagUnitVariant:
		return d.r.discard(4)
	case TagDataVariant:
		index, err := d.readU32()
		if err != nil {
			return err
		}
		return &VariantError{Index: index, Detail: "cannot skip a data-carrying variant without a variant table"}
	default:
		return &TagError{Expected: "any value", Found: Tag(b)}
	}
}
