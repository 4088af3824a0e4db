package sbif

import "testing"

func TestValueKind(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		want Kind
	}{
		{"null", Null(), KindNull},
		{"bool", Bool(true), KindBool},
		{"i8", Int8(0), KindInt8},
		{"i64", Int64(0), KindInt64},
		{"u8", Uint8(0), KindUint8},
		{"u64", Uint64(0), KindUint64},
		{"f32", Float32(0), KindFloat32},
		{"f64", Float64(0), KindFloat64},
		{"char", Char('a'), KindChar},
		{"str", Str(""), KindString},
		{"bytes", Bytes(nil), KindBytes},
		{"seq", Seq(), KindSeq},
		{"tuple", Tuple(), KindTuple},
		{"tuple_struct", TupleStruct(), KindTupleStruct},
		{"map", Map(), KindMap},
		{"struct", Struct(), KindMap},
		{"variant", UnitVariant(0, "A"), KindVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueAccessors(t *testing.T) {
	if !Bool(true).AsBool() {
		t.Error("AsBool() = false")
	}
	if got := Int16(-7).AsInt(); got != -7 {
		t.Errorf("AsInt() = %d, want -7", got)
	}
	if got := Uint32(7).AsUint(); got != 7 {
		t.Errorf("AsUint() = %d, want 7", got)
	}
	if got := Float64(1.5).AsFloat(); got != 1.5 {
		t.Errorf("AsFloat() = %v, want 1.5", got)
	}
	if got := Char('x').AsChar(); got != 'x' {
		t.Errorf("AsChar() = %q, want 'x'", got)
	}
	if got := Str("s").AsStr(); got != "s" {
		t.Errorf("AsStr() = %q, want \"s\"", got)
	}
	if got := Bytes([]byte{9}).AsBytes(); len(got) != 1 || got[0] != 9 {
		t.Errorf("AsBytes() = %v, want [9]", got)
	}
	if got := len(Seq(Null(), Null()).Elems()); got != 2 {
		t.Errorf("len(Elems()) = %d, want 2", got)
	}
	if got := len(Map(Entry(Str("k"), Null())).Entries()); got != 1 {
		t.Errorf("len(Entries()) = %d, want 1", got)
	}

	ev := TupleVariant(3, "Move", Int8(0), Int8(1))
	if got := ev.VariantIndex(); got != 3 {
		t.Errorf("VariantIndex() = %d, want 3", got)
	}
	if got := ev.VariantName(); got != "Move" {
		t.Errorf("VariantName() = %q, want \"Move\"", got)
	}
	if got := ev.VariantKind(); got != VariantTuple {
		t.Errorf("VariantKind() = %v, want tuple", got)
	}
}

func TestValueAccessorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AsStr() on a bool did not panic")
		}
	}()
	Bool(true).AsStr()
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *Value
		want bool
	}{
		{"same_u8", Uint8(1), Uint8(1), true},
		{"diff_u8", Uint8(1), Uint8(2), false},
		{"width_matters", Uint8(1), Uint16(1), false},
		{"sign_matters", Int8(1), Uint8(1), false},
		{"float_width_matters", Float32(1), Float64(1), false},
		{"null_null", Null(), Null(), true},
		{"null_vs_bool", Null(), Bool(false), false},
		{"str", Str("a"), Str("a"), true},
		{"bytes", Bytes([]byte{1, 2}), Bytes([]byte{1, 2}), true},
		{"bytes_diff", Bytes([]byte{1, 2}), Bytes([]byte{1, 3}), false},
		{"seq", Seq(Uint8(1)), Seq(Uint8(1)), true},
		{"seq_len", Seq(Uint8(1)), Seq(Uint8(1), Uint8(2)), false},
		{"seq_vs_tuple", Seq(Uint8(1)), Tuple(Uint8(1)), false},
		{
			"struct_is_map",
			Struct(Field("a", Uint8(1))),
			Map(Entry(Str("a"), Uint8(1))),
			true,
		},
		{
			"map_order_matters",
			Map(Entry(Str("a"), Uint8(1)), Entry(Str("b"), Uint8(2))),
			Map(Entry(Str("b"), Uint8(2)), Entry(Str("a"), Uint8(1))),
			false,
		},
		{
			"variant_name_ignored",
			UnitVariant(2, "Left"),
			UnitVariant(2, ""),
			true,
		},
		{"variant_index", UnitVariant(0, "A"), UnitVariant(1, "A"), false},
		{
			"variant_kind",
			UnitVariant(1, "A"),
			NewtypeVariant(1, "A", Null()),
			false,
		},
		{
			"variant_payload",
			NewtypeVariant(1, "A", Uint8(1)),
			NewtypeVariant(1, "A", Uint8(2)),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    *Value
		want string
	}{
		{Null(), "null"},
		{Bool(true), "true"},
		{Int8(-5), "i8(-5)"},
		{Uint16(9), "u16(9)"},
		{Str("hi"), `"hi"`},
		{Char('a'), "char('a')"},
		{Bytes([]byte{1, 2, 3}), "bytes(3)"},
		{Seq(Uint8(1), Uint8(2)), "seq[2]"},
		{Tuple(Bool(false), Null()), "tuple[2]"},
		{Map(Entry(Str("k"), Uint8(1))), "map[1]"},
		{UnitVariant(2, "Left"), "variant 2 (unit)"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
