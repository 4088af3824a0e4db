package sbif

import (
	"bytes"
	"testing"
)

var roundTripCompressions = []struct {
	name string
	c    Compression
}{
	{"none", NoCompression},
	{"deflate", Compression{Kind: CompressionDeflate, Level: 6}},
	{"gzip", Compression{Kind: CompressionGzip, Level: 6}},
	{"zlib", Compression{Kind: CompressionZlib, Level: 6}},
}

var roundTripTable = VariantTable{
	{Name: "Idle", Kind: VariantUnit},
	{Name: "Score", Kind: VariantNewtype},
	{Name: "Move", Kind: VariantTuple, Arity: 2},
	{Name: "Spawn", Kind: VariantStruct},
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
	}{
		{"null", Null()},
		{"bool", Bool(true)},
		{"i8", Int8(-100)},
		{"i16", Int16(-30000)},
		{"i32", Int32(-2000000000)},
		{"i64", Int64(-9000000000000000000)},
		{"u8", Uint8(200)},
		{"u16", Uint16(60000)},
		{"u32", Uint32(4000000000)},
		{"u64", Uint64(18000000000000000000)},
		{"f32", Float32(3.5)},
		{"f64", Float64(-2.25)},
		{"char_ascii", Char('a')},
		{"char_wide", Char('\U0001F3A8')},
		{"string", Str("Hello World!")},
		{"string_empty", Str("")},
		{"bytes", Bytes([]byte{0, 1, 2, 254, 255})},
		{"seq", Seq(Uint8(1), Uint8(2), Uint8(3))},
		{"seq_empty", Seq()},
		{"seq_mixed", Seq(Bool(true), Str("x"), Null())},
		{"tuple", Tuple(Uint8(0), Char('a'), Str("Hello World!"))},
		{"tuple_struct", TupleStruct(Uint8(1), Char('a'), Str("s"))},
		{"map", Map(
			Entry(Uint8(1), Uint8(2)),
			Entry(Uint8(3), Uint8(4)),
		)},
		{"map_string_keys", Map(
			Entry(Str("k"), Seq(Int32(1), Int32(2))),
		)},
		{"struct", Struct(
			Field("a", Uint8(1)),
			Field("b", Char('a')),
			Field("c", Str("Hello World!")),
		)},
		{"nested", Struct(
			Field("inner", Struct(Field("deep", Seq(Tuple(Bool(false), Float64(1)))))),
		)},
		{"variant_unit", UnitVariant(0, "Idle")},
		{"variant_newtype", NewtypeVariant(1, "Score", Uint32(77))},
		{"variant_tuple", TupleVariant(2, "Move", Int8(-1), Int8(1))},
		{"variant_struct", StructVariant(3, "Spawn",
			Field("x", Float32(0.5)),
			Field("y", Float32(1.5)),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, cc := range roundTripCompressions {
				data, err := Marshal(tt.v, cc.c)
				if err != nil {
					t.Fatalf("%s: Marshal() error = %v", cc.name, err)
				}
				got, err := Unmarshal(data, roundTripTable)
				if err != nil {
					t.Fatalf("%s: Unmarshal() error = %v", cc.name, err)
				}
				if !got.Equal(tt.v) {
					t.Errorf("%s: round trip = %v, want %v", cc.name, got, tt.v)
				}
			}
		})
	}
}

// The four transports produce different bytes for the same value but
// all decode back to it.
func TestCompressionOpacity(t *testing.T) {
	v := Struct(
		Field("name", Str("opacity check with enough text to compress")),
		Field("numbers", Seq(Int64(1), Int64(2), Int64(3), Int64(4), Int64(5))),
	)

	streams := make(map[string][]byte, len(roundTripCompressions))
	for _, cc := range roundTripCompressions {
		data, err := Marshal(v, cc.c)
		if err != nil {
			t.Fatalf("%s: Marshal() error = %v", cc.name, err)
		}
		streams[cc.name] = data

		got, err := Unmarshal(data, nil)
		if err != nil {
			t.Fatalf("%s: Unmarshal() error = %v", cc.name, err)
		}
		if !got.Equal(v) {
			t.Errorf("%s: round trip mismatch", cc.name)
		}
	}

	for _, a := range roundTripCompressions {
		for _, b := range roundTripCompressions {
			if a.name >= b.name {
				continue
			}
			if bytes.Equal(streams[a.name], streams[b.name]) {
				t.Errorf("%s and %s produced identical streams", a.name, b.name)
			}
		}
	}
}

// A decoded value re-encodes to the identical byte stream.
func TestReEncodeStable(t *testing.T) {
	v := Struct(
		Field("id", Uint64(12345)),
		Field("tags", Seq(Str("a"), Str("b"))),
		Field("state", TupleVariant(2, "Move", Int8(1), Int8(0))),
	)

	first, err := Marshal(v, NoCompression)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	decoded, err := Unmarshal(first, roundTripTable)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	second, err := Marshal(decoded, NoCompression)
	if err != nil {
		t.Fatalf("re-Marshal() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("re-encoded stream differs:\n first % x\nsecond % x", first, second)
	}
}

// Generic decode without a table handles everything except
// data-carrying variants.
func TestUnmarshalWithoutTable(t *testing.T) {
	v := Seq(UnitVariant(4, ""), Uint8(1))
	data, err := Marshal(v, NoCompression)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Unmarshal(data, nil)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !got.Equal(v) {
		t.Errorf("round trip = %v, want %v", got, v)
	}

	data, err = Marshal(NewtypeVariant(1, "", Uint8(9)), NoCompression)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if _, err := Unmarshal(data, nil); err == nil {
		t.Error("Unmarshal() of a data-carrying variant without a table succeeded")
	}
}
