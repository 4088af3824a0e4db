package sbif

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// Encoder writes one top-level SBIF value to a sink. The caller drives
// it as a visitor: one call per value node in depth-first order, with
// every composite's count declared before its first element.
//
// An Encoder binds to exactly one sink and one traversal; it is not
// reusable and must be closed on every exit path so the compressor can
// flush. A failed call leaves the stream non-resumable.
type Encoder struct {
	w       io.WriteCloser
	closed  bool
	scratch [8]byte
}

// NewEncoder writes the file header to w and returns an encoder whose
// value bytes pass through the transport selected by c.
func NewEncoder(w io.Writer, c Compression) (*Encoder, error) {
	if err := newFileHeader(c).writeTo(w); err != nil {
		return nil, err
	}
	cw, err := c.newWriter(w)
	if err != nil {
		return nil, err
	}
	return &Encoder{w: cw}, nil
}

// Close finalizes the compression transport. It must be called exactly
// once, after the traversal completes or fails; the stream is not
// complete until Close returns nil. Close is idempotent.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.w.Close(); err != nil {
		return fmt.Errorf("close transport: %w", err)
	}
	return nil
}

// Encode runs a traversal against a fresh encoder over w and finalizes
// the transport on success and error paths alike. The traversal's error
// wins over any close error.
func Encode(w io.Writer, c Compression, traverse func(*Encoder) error) error {
	enc, err := NewEncoder(w, c)
	if err != nil {
		return err
	}
	if err := traverse(enc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func (e *Encoder) write(b []byte) error {
	if _, err := e.w.Write(b); err != nil {
		return fmt.Errorf("write value: %w", err)
	}
	return nil
}

func (e *Encoder) writeTag(t Tag) error {
	e.scratch[0] = byte(t)
	return e.write(e.scratch[:1])
}

func (e *Encoder) writeU32(v uint32) error {
	binary.BigEndian.PutUint32(e.scratch[:4], v)
	return e.write(e.scratch[:4])
}

// writeCount validates and emits a composite element count.
func (e *Encoder) writeCount(n int) error {
	if n < 0 {
		return ErrLengthRequired
	}
	if uint64(n) > math.MaxUint32 {
		return fmt.Errorf("sbif: composite length %d overflows u32", n)
	}
	return e.writeU32(uint32(n))
}

// EncodeNull writes the null sentinel. It also encodes an absent
// option, the unit value and a zero-field unit struct; the wire does
// not distinguish them.
func (e *Encoder) EncodeNull() error {
	return e.writeTag(TagNull)
}

// EncodeBool writes a bool as a tag plus one byte.
func (e *Encoder) EncodeBool(v bool) error {
	if err := e.writeTag(TagBool); err != nil {
		return err
	}
	e.scratch[0] = 0
	if v {
		e.scratch[0] = 1
	}
	return e.write(e.scratch[:1])
}

func (e *Encoder) EncodeInt8(v int8) error {
	if err := e.writeTag(TagI8); err != nil {
		return err
	}
	e.scratch[0] = byte(v)
	return e.write(e.scratch[:1])
}

func (e *Encoder) EncodeInt16(v int16) error {
	if err := e.writeTag(TagI16); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(e.scratch[:2], uint16(v))
	return e.write(e.scratch[:2])
}

func (e *Encoder) EncodeInt32(v int32) error {
	if err := e.writeTag(TagI32); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(e.scratch[:4], uint32(v))
	return e.write(e.scratch[:4])
}

func (e *Encoder) EncodeInt64(v int64) error {
	if err := e.writeTag(TagI64); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(e.scratch[:8], uint64(v))
	return e.write(e.scratch[:8])
}

func (e *Encoder) EncodeUint8(v uint8) error {
	if err := e.writeTag(TagU8); err != nil {
		return err
	}
	e.scratch[0] = v
	return e.write(e.scratch[:1])
}

func (e *Encoder) EncodeUint16(v uint16) error {
	if err := e.writeTag(TagU16); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(e.scratch[:2], v)
	return e.write(e.scratch[:2])
}

func (e *Encoder) EncodeUint32(v uint32) error {
	if err := e.writeTag(TagU32); err != nil {
		return err
	}
	return e.writeU32(v)
}

func (e *Encoder) EncodeUint64(v uint64) error {
	if err := e.writeTag(TagU64); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(e.scratch[:8], v)
	return e.write(e.scratch[:8])
}

func (e *Encoder) EncodeFloat32(v float32) error {
	if err := e.writeTag(TagF32); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(e.scratch[:4], math.Float32bits(v))
	return e.write(e.scratch[:4])
}

func (e *Encoder) EncodeFloat64(v float64) error {
	if err := e.writeTag(TagF64); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(e.scratch[:8], math.Float64bits(v))
	return e.write(e.scratch[:8])
}

// EncodeChar writes a single Unicode scalar as its UTF-8 bytes, with no
// length field: the decoder recovers the byte count from the lead byte.
func (e *Encoder) EncodeChar(v rune) error {
	if !utf8.ValidRune(v) {
		return fmt.Errorf("encode char %#x: %w", v, ErrInvalidUTF8)
	}
	if err := e.writeTag(TagChar); err != nil {
		return err
	}
	n := utf8.EncodeRune(e.scratch[:4], v)
	return e.write(e.scratch[:n])
}

// EncodeString writes a UTF-8 string as tag, u32 byte length and raw
// bytes.
func (e *Encoder) EncodeString(v string) error {
	if !utf8.ValidString(v) {
		return fmt.Errorf("encode string: %w", ErrInvalidUTF8)
	}
	if err := e.writeTag(TagStr); err != nil {
		return err
	}
	if err := e.writeCount(len(v)); err != nil {
		return err
	}
	return e.write([]byte(v))
}

// EncodeBytes writes a raw byte blob as tag, u32 length and bytes.
func (e *Encoder) EncodeBytes(v []byte) error {
	if err := e.writeTag(TagBytes); err != nil {
		return err
	}
	if err := e.writeCount(len(v)); err != nil {
		return err
	}
	return e.write(v)
}

// EncodeSeq opens a sequence of n elements. The caller must encode
// exactly n values next. Pass a negative n when the length is unknown
// to get the mandatory ErrLengthRequired.
func (e *Encoder) EncodeSeq(n int) error {
	if err := e.writeTag(TagSeq); err != nil {
		return err
	}
	return e.writeCount(n)
}

// EncodeTuple opens a fixed-arity tuple of n elements.
func (e *Encoder) EncodeTuple(n int) error {
	if err := e.writeTag(TagTuple); err != nil {
		return err
	}
	return e.writeCount(n)
}

// EncodeTupleStruct opens a named fixed-arity tuple of n elements.
func (e *Encoder) EncodeTupleStruct(n int) error {
	if err := e.writeTag(TagTupleStruct); err != nil {
		return err
	}
	return e.writeCount(n)
}

// EncodeMap opens a map of n key-value pairs. The caller must encode
// 2n values next, alternating key then value.
func (e *Encoder) EncodeMap(n int) error {
	if err := e.writeTag(TagMap); err != nil {
		return err
	}
	return e.writeCount(n)
}

// EncodeStruct opens a struct of n fields. Structs are string-keyed
// maps on the wire: the caller encodes each field as a string key
// followed by its value, in declaration order.
func (e *Encoder) EncodeStruct(n int) error {
	return e.EncodeMap(n)
}

// EncodeUnitVariant writes a payload-free enum variant: tag plus the
// numeric variant index.
func (e *Encoder) EncodeUnitVariant(index uint32) error {
	if err := e.writeTag(TagUnitVariant); err != nil {
		return err
	}
	return e.writeU32(index)
}

// EncodeNewtypeVariant opens a single-value variant. The caller encodes
// the inner value next; it carries no extra framing.
func (e *Encoder) EncodeNewtypeVariant(index uint32) error {
	if err := e.writeTag(TagDataVariant); err != nil {
		return err
	}
	return e.writeU32(index)
}

// EncodeTupleVariant opens a fixed-arity tuple payload variant.
func (e *Encoder) EncodeTupleVariant(index uint32, n int) error {
	if err := e.writeTag(TagDataVariant); err != nil {
		return err
	}
	if err := e.writeU32(index); err != nil {
		return err
	}
	return e.writeCount(n)
}

// EncodeStructVariant opens a named-field payload variant of n fields,
// encoded as string key/value pairs like a struct.
func (e *Encoder) EncodeStructVariant(index uint32, n int) error {
	if err := e.writeTag(TagDataVariant); err != nil {
		return err
	}
	if err := e.writeU32(index); err != nil {
		return err
	}
	return e.writeCount(n)
}
