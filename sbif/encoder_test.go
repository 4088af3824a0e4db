package sbif

import (
	"bytes"
	"errors"
	"testing"
)

// plainHeader is the 8-byte preamble of an uncompressed stream.
var plainHeader = []byte{0, 4, 'S', 'B', 'I', 'F', 1, 0}

// encodeBody encodes with the identity transport and strips the
// header, returning just the tagged value bytes.
func encodeBody(t *testing.T, traverse func(*Encoder) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, NoCompression, traverse); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	data := buf.Bytes()
	if !bytes.HasPrefix(data, plainHeader) {
		t.Fatalf("stream does not start with the plain header: % x", data)
	}
	return data[len(plainHeader):]
}

func TestEncodeBool(t *testing.T) {
	got := encodeBody(t, func(e *Encoder) error { return e.EncodeBool(true) })
	want := []byte{byte(TagBool), 1}
	if !bytes.Equal(got, want) {
		t.Errorf("encode true = % x, want % x", got, want)
	}

	got = encodeBody(t, func(e *Encoder) error { return e.EncodeBool(false) })
	want = []byte{byte(TagBool), 0}
	if !bytes.Equal(got, want) {
		t.Errorf("encode false = % x, want % x", got, want)
	}
}

func TestEncodeIntegers(t *testing.T) {
	tests := []struct {
		name     string
		traverse func(*Encoder) error
		want     []byte
	}{
		{"u8", func(e *Encoder) error { return e.EncodeUint8(1) }, []byte{byte(TagU8), 1}},
		{"u16", func(e *Encoder) error { return e.EncodeUint16(1) }, []byte{byte(TagU16), 0, 1}},
		{"u32", func(e *Encoder) error { return e.EncodeUint32(1) }, []byte{byte(TagU32), 0, 0, 0, 1}},
		{"u64", func(e *Encoder) error { return e.EncodeUint64(1) }, []byte{byte(TagU64), 0, 0, 0, 0, 0, 0, 0, 1}},
		{"i8", func(e *Encoder) error { return e.EncodeInt8(1) }, []byte{byte(TagI8), 1}},
		{"i16", func(e *Encoder) error { return e.EncodeInt16(1) }, []byte{byte(TagI16), 0, 1}},
		{"i32", func(e *Encoder) error { return e.EncodeInt32(1) }, []byte{byte(TagI32), 0, 0, 0, 1}},
		{"i64", func(e *Encoder) error { return e.EncodeInt64(1) }, []byte{byte(TagI64), 0, 0, 0, 0, 0, 0, 0, 1}},
		{"i8_negative", func(e *Encoder) error { return e.EncodeInt8(-1) }, []byte{byte(TagI8), 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeBody(t, tt.traverse)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("body = % x, want % x", got, tt.want)
			}
		})
	}
}

func TestEncodeFloats(t *testing.T) {
	got := encodeBody(t, func(e *Encoder) error { return e.EncodeFloat32(1) })
	want := []byte{byte(TagF32), 63, 128, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("encode 1f32 = % x, want % x", got, want)
	}

	got = encodeBody(t, func(e *Encoder) error { return e.EncodeFloat64(1) })
	want = []byte{byte(TagF64), 63, 240, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("encode 1f64 = % x, want % x", got, want)
	}
}

func TestEncodeChar(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want []byte
	}{
		{"ascii", 'a', []byte{byte(TagChar), 97}},
		{"two_byte", '©', []byte{byte(TagChar), 0xC2, 0xA9}},
		{"three_byte", 'थ', []byte{byte(TagChar), 0xE0, 0xA4, 0xA5}},
		{"four_byte", '\U0001F3A8', []byte{byte(TagChar), 0xF0, 0x9F, 0x8E, 0xA8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeBody(t, func(e *Encoder) error { return e.EncodeChar(tt.r) })
			if !bytes.Equal(got, tt.want) {
				t.Errorf("encode %q = % x, want % x", tt.r, got, tt.want)
			}
		})
	}
}

func TestEncodeCharInvalidRune(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, NoCompression, func(e *Encoder) error {
		return e.EncodeChar(0xD800) // surrogate, not a scalar
	})
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("error = %v, want ErrInvalidUTF8", err)
	}
}

func TestEncodeString(t *testing.T) {
	got := encodeBody(t, func(e *Encoder) error { return e.EncodeString("hi") })
	want := []byte{byte(TagStr), 0, 0, 0, 2, 'h', 'i'}
	if !bytes.Equal(got, want) {
		t.Errorf("encode \"hi\" = % x, want % x", got, want)
	}
}

func TestEncodeStringInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, NoCompression, func(e *Encoder) error {
		return e.EncodeString(string([]byte{0xFF, 0xFE}))
	})
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("error = %v, want ErrInvalidUTF8", err)
	}
}

func TestEncodeBytes(t *testing.T) {
	got := encodeBody(t, func(e *Encoder) error { return e.EncodeBytes([]byte{0xDE, 0xAD}) })
	want := []byte{byte(TagBytes), 0, 0, 0, 2, 0xDE, 0xAD}
	if !bytes.Equal(got, want) {
		t.Errorf("encode bytes = % x, want % x", got, want)
	}
}

// The null sentinel covers an absent option, the unit value and a
// zero-field unit struct alike: all three are a single Null tag.
func TestEncodeNullCollapse(t *testing.T) {
	want := []byte{byte(TagNull)}

	got := encodeBody(t, func(e *Encoder) error { return e.EncodeNull() })
	if !bytes.Equal(got, want) {
		t.Errorf("encode null = % x, want % x", got, want)
	}

	got = encodeBody(t, func(e *Encoder) error { return EncodeValue(e, Null()) })
	if !bytes.Equal(got, want) {
		t.Errorf("encode Null() = % x, want % x", got, want)
	}
}

// An option's presence is inferred from the absence of the Null tag:
// Some(v) is just v's own encoding with no wrapper.
func TestEncodeOptionUnwrapped(t *testing.T) {
	got := encodeBody(t, func(e *Encoder) error { return e.EncodeUint8(1) })
	want := []byte{byte(TagU8), 1}
	if !bytes.Equal(got, want) {
		t.Errorf("encode Some(1u8) = % x, want % x", got, want)
	}
}

func TestEncodeSeq(t *testing.T) {
	got := encodeBody(t, func(e *Encoder) error {
		if err := e.EncodeSeq(2); err != nil {
			return err
		}
		if err := e.EncodeUint8(1); err != nil {
			return err
		}
		return e.EncodeUint8(2)
	})
	want := []byte{byte(TagSeq), 0, 0, 0, 2, byte(TagU8), 1, byte(TagU8), 2}
	if !bytes.Equal(got, want) {
		t.Errorf("encode seq = % x, want % x", got, want)
	}
}

func TestEncodeSeqUnknownLength(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, NoCompression, func(e *Encoder) error {
		return e.EncodeSeq(-1)
	})
	if !errors.Is(err, ErrLengthRequired) {
		t.Errorf("error = %v, want ErrLengthRequired", err)
	}
}

func TestEncodeTupleStruct(t *testing.T) {
	got := encodeBody(t, func(e *Encoder) error {
		if err := e.EncodeTupleStruct(2); err != nil {
			return err
		}
		if err := e.EncodeUint8(1); err != nil {
			return err
		}
		return e.EncodeUint8(2)
	})
	want := []byte{byte(TagTupleStruct), 0, 0, 0, 2, byte(TagU8), 1, byte(TagU8), 2}
	if !bytes.Equal(got, want) {
		t.Errorf("encode tuple struct = % x, want % x", got, want)
	}
}

func TestEncodeEnumVariants(t *testing.T) {
	t.Run("unit", func(t *testing.T) {
		got := encodeBody(t, func(e *Encoder) error { return e.EncodeUnitVariant(0) })
		want := []byte{byte(TagUnitVariant), 0, 0, 0, 0}
		if !bytes.Equal(got, want) {
			t.Errorf("body = % x, want % x", got, want)
		}
	})

	t.Run("newtype", func(t *testing.T) {
		got := encodeBody(t, func(e *Encoder) error {
			if err := e.EncodeNewtypeVariant(1); err != nil {
				return err
			}
			return e.EncodeUint8(1)
		})
		want := []byte{byte(TagDataVariant), 0, 0, 0, 1, byte(TagU8), 1}
		if !bytes.Equal(got, want) {
			t.Errorf("body = % x, want % x", got, want)
		}
	})

	t.Run("tuple", func(t *testing.T) {
		got := encodeBody(t, func(e *Encoder) error {
			if err := e.EncodeTupleVariant(2, 2); err != nil {
				return err
			}
			if err := e.EncodeUint8(1); err != nil {
				return err
			}
			return e.EncodeUint8(2)
		})
		want := []byte{byte(TagDataVariant), 0, 0, 0, 2, 0, 0, 0, 2, byte(TagU8), 1, byte(TagU8), 2}
		if !bytes.Equal(got, want) {
			t.Errorf("body = % x, want % x", got, want)
		}
	})

	t.Run("struct", func(t *testing.T) {
		got := encodeBody(t, func(e *Encoder) error {
			if err := e.EncodeStructVariant(3, 2); err != nil {
				return err
			}
			if err := e.EncodeString("a"); err != nil {
				return err
			}
			if err := e.EncodeUint8(1); err != nil {
				return err
			}
			if err := e.EncodeString("b"); err != nil {
				return err
			}
			return e.EncodeUint8(2)
		})
		want := []byte{
			byte(TagDataVariant), 0, 0, 0, 3, // variant index
			0, 0, 0, 2, // field count
			byte(TagStr), 0, 0, 0, 1, 'a', byte(TagU8), 1,
			byte(TagStr), 0, 0, 0, 1, 'b', byte(TagU8), 2,
		}
		if !bytes.Equal(got, want) {
			t.Errorf("body = % x, want % x", got, want)
		}
	})
}

// A struct is wire-identical to a map with string keys, fields in
// declaration order.
func TestStructMapEquivalence(t *testing.T) {
	structVal := Struct(Field("a", Uint8(1)), Field("b", Uint8(2)))
	mapVal := Map(
		Entry(Str("a"), Uint8(1)),
		Entry(Str("b"), Uint8(2)),
	)

	sb, err := Marshal(structVal, NoCompression)
	if err != nil {
		t.Fatalf("Marshal(struct) error = %v", err)
	}
	mb, err := Marshal(mapVal, NoCompression)
	if err != nil {
		t.Fatalf("Marshal(map) error = %v", err)
	}
	if !bytes.Equal(sb, mb) {
		t.Errorf("struct bytes % x != map bytes % x", sb, mb)
	}

	want := []byte{
		byte(TagMap), 0, 0, 0, 2,
		byte(TagStr), 0, 0, 0, 1, 'a', byte(TagU8), 1,
		byte(TagStr), 0, 0, 0, 1, 'b', byte(TagU8), 2,
	}
	if !bytes.Equal(sb[len(plainHeader):], want) {
		t.Errorf("struct body = % x, want % x", sb[len(plainHeader):], want)
	}
}

func TestEncoderCloseIdempotent(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, DefaultCompression())
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	if err := enc.EncodeBool(true); err != nil {
		t.Fatalf("EncodeBool() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
}

// An unclosed compressor truncates the stream: the value bytes stay
// buffered and the decoder sees a premature end.
func TestUncloseTruncates(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, DefaultCompression())
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	if err := enc.EncodeBool(true); err != nil {
		t.Fatalf("EncodeBool() error = %v", err)
	}

	truncated := make([]byte, buf.Len())
	copy(truncated, buf.Bytes())

	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := Unmarshal(buf.Bytes(), nil); err != nil {
		t.Errorf("finalized stream failed to decode: %v", err)
	}
	if _, err := Unmarshal(truncated, nil); err == nil {
		t.Error("truncated stream decoded without error")
	}
}
