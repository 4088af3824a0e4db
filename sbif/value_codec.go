package sbif

import (
	"bytes"
	"fmt"
	"io"
)

// EncodeValue walks a Value depth first, issuing one encoder call per
// node.
func EncodeValue(e *Encoder, v *Value) error {
	if v == nil {
		return e.EncodeNull()
	}
	switch v.kind {
	case KindNull:
		return e.EncodeNull()
	case KindBool:
		return e.EncodeBool(v.boolVal)
	case KindInt8:
		return e.EncodeInt8(int8(v.intVal))
	case KindInt16:
		return e.EncodeInt16(int16(v.intVal))
	case KindInt32:
		return e.EncodeInt32(int32(v.intVal))
	case KindInt64:
		return e.EncodeInt64(v.intVal)
	case KindUint8:
		return e.EncodeUint8(uint8(v.uintVal))
	case KindUint16:
		return e.EncodeUint16(uint16(v.uintVal))
	case KindUint32:
		return e.EncodeUint32(uint32(v.uintVal))
	case KindUint64:
		return e.EncodeUint64(v.uintVal)
	case KindFloat32:
		return e.EncodeFloat32(float32(v.floatVal))
	case KindFloat64:
		return e.EncodeFloat64(v.floatVal)
	case KindChar:
		return e.EncodeChar(v.charVal)
	case KindString:
		return e.EncodeString(v.strVal)
	case KindBytes:
		return e.EncodeBytes(v.bytesVal)
	case KindSeq:
		if err := e.EncodeSeq(len(v.elems)); err != nil {
			return err
		}
		return encodeElems(e, v.elems)
	case KindTuple:
		if err := e.EncodeTuple(len(v.elems)); err != nil {
			return err
		}
		return encodeElems(e, v.elems)
	case KindTupleStruct:
		if err := e.EncodeTupleStruct(len(v.elems)); err != nil {
			return err
		}
		return encodeElems(e, v.elems)
	case KindMap:
		if err := e.EncodeMap(len(v.entries)); err != nil {
			return err
		}
		return encodeEntries(e, v.entries)
	case KindVariant:
		return encodeVariant(e, v)
	default:
		return fmt.Errorf("sbif: cannot encode value kind %s", v.kind)
	}
}

func encodeElems(e *Encoder, elems []*Value) error {
	for _, el := range elems {
		if err := EncodeValue(e, el); err != nil {
			return err
		}
	}
	return nil
}

func encodeEntries(e *Encoder, entries []MapEntry) error {
	for _, en := range entries {
		if err := EncodeValue(e, en.Key); err != nil {
			return err
		}
		if err := EncodeValue(e, en.Value); err != nil {
			return err
		}
	}
	return nil
}

func encodeVariant(e *Encoder, v *Value) error {
	switch v.variant.kind {
	case VariantUnit:
		return e.EncodeUnitVariant(v.variant.index)
	case VariantNewtype:
		if len(v.elems) != 1 {
			return &LengthError{What: "newtype variant", Expected: 1, Actual: len(v.elems)}
		}
		if err := e.EncodeNewtypeVariant(v.variant.index); err != nil {
			return err
		}
		return EncodeValue(e, v.elems[0])
	case VariantTuple:
		if err := e.EncodeTupleVariant(v.variant.index, len(v.elems)); err != nil {
			return err
		}
		return encodeElems(e, v.elems)
	case VariantStruct:
		if err := e.EncodeStructVariant(v.variant.index, len(v.entries)); err != nil {
			return err
		}
		return encodeEntries(e, v.entries)
	default:
		return &VariantError{Index: v.variant.index, Detail: "unknown variant kind"}
	}
}

// DecodeValue rebuilds one value generically via tag-directed dispatch.
// The table resolves enum variant indices to names and payload shapes;
// it may be nil for enum-free data (a data-carrying variant then fails,
// since its payload framing is not self-describing).
func DecodeValue(d *Decoder, table VariantTable) (*Value, error) {
	vv := &valueVisitor{d: d, table: table}
	if err := d.DecodeAny(vv); err != nil {
		return nil, err
	}
	return vv.out, nil
}

// valueVisitor is the Visitor that materializes a Value tree.
type valueVisitor struct {
	d     *Decoder
	table VariantTable
	out   *Value
}

func (vv *valueVisitor) VisitNull() error { vv.out = Null(); return nil }

func (vv *valueVisitor) VisitBool(v bool) error { vv.out = Bool(v); return nil }

func (vv *valueVisitor) VisitInt8(v int8) error { vv.out = Int8(v); return nil }

func (vv *valueVisitor) VisitInt16(v int16) error { vv.out = Int16(v); return nil }

func (vv *valueVisitor) VisitInt32(v int32) error { vv.out = Int32(v); return nil }

func (vv *valueVisitor) VisitInt64(v int64) error { vv.out = Int64(v); return nil }

func (vv *valueVisitor) VisitUint8(v uint8) error { vv.out = Uint8(v); return nil }

func (vv *valueVisitor) VisitUint16(v uint16) error { vv.out = Uint16(v); return nil }

func (vv *valueVisitor) VisitUint32(v uint32) error { vv.out = Uint32(v); return nil }

func (vv *valueVisitor) VisitUint64(v uint64) error { vv.out = Uint64(v); return nil }

func (vv *valueVisitor) VisitFloat32(v float32) error { vv.out = Float32(v); return nil }

func (vv *valueVisitor) VisitFloat64(v float64) error { vv.out = Float64(v); return nil }

func (vv *valueVisitor) VisitChar(v rune) error { vv.out = Char(v); return nil }

func (vv *valueVisitor) VisitString(v string) error { vv.out = Str(v); return nil }

func (vv *valueVisitor) VisitBytes(v []byte) error { vv.out = Bytes(v); return nil }

func (vv *valueVisitor) decodeElems(s *SeqAccess) ([]*Value, error) {
	elems := make([]*Value, 0, s.Len())
	for s.Next() {
		el, err := DecodeValue(s.Decoder(), vv.table)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	return elems, nil
}

func (vv *valueVisitor) decodeEntries(m *MapAccess) ([]MapEntry, error) {
	entries := make([]MapEntry, 0, m.Len())
	for {
		ok, err := m.NextKey()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		key, err := DecodeValue(m.Decoder(), vv.table)
		if err != nil {
			return nil, err
		}
		if err := m.NextValue(); err != nil {
			return nil, err
		}
		val, err := DecodeValue(m.Decoder(), vv.table)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: key, Value: val})
	}
	return entries, nil
}

func (vv *valueVisitor) VisitSeq(s *SeqAccess) error {
	elems, err := vv.decodeElems(s)
	if err != nil {
		return err
	}
	vv.out = Seq(elems...)
	return nil
}

func (vv *valueVisitor) VisitTuple(s *SeqAccess) error {
	elems, err := vv.decodeElems(s)
	if err != nil {
		return err
	}
	vv.out = Tuple(elems...)
	return nil
}

func (vv *valueVisitor) VisitTupleStruct(s *SeqAccess) error {
	elems, err := vv.decodeElems(s)
	if err != nil {
		return err
	}
	vv.out = TupleStruct(elems...)
	return nil
}

func (vv *valueVisitor) VisitMap(m *MapAccess) error {
	entries, err := vv.decodeEntries(m)
	if err != nil {
		return err
	}
	vv.out = Map(entries...)
	return nil
}

func (vv *valueVisitor) VisitEnum(e *EnumAccess) error {
	if vv.table == nil {
		if err := e.Unit(); err != nil {
			return &VariantError{Index: e.Index(), Detail: "cannot decode a data-carrying variant without a variant table"}
		}
		vv.out = UnitVariant(e.Index(), "")
		return nil
	}

	variant, err := e.Resolve(vv.table)
	if err != nil {
		return err
	}

	switch variant.Kind {
	case VariantUnit:
		if err := e.Unit(); err != nil {
			return err
		}
		vv.out = UnitVariant(e.Index(), variant.Name)
		return nil
	case VariantNewtype:
		if err := e.Newtype(); err != nil {
			return err
		}
		inner, err := DecodeValue(vv.d, vv.table)
		if err != nil {
			return err
		}
		vv.out = NewtypeVariant(e.Index(), variant.Name, inner)
		return nil
	case VariantTuple:
		sa, err := e.Tuple(variant.Arity)
		if err != nil {
			return err
		}
		elems, err := vv.decodeElems(sa)
		if err != nil {
			return err
		}
		vv.out = TupleVariant(e.Index(), variant.Name, elems...)
		return nil
	case VariantStruct:
		ma, err := e.Struct()
		if err != nil {
			return err
		}
		fields, err := vv.decodeEntries(ma)
		if err != nil {
			return err
		}
		vv.out = StructVariant(e.Index(), variant.Name, fields...)
		return nil
	default:
		return &VariantError{Index: e.Index(), Detail: "unknown variant kind in table"}
	}
}

// Marshal encodes a value into a byte slice under the given transport.
func Marshal(v *Value, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	err := Encode(&buf, c, func(e *Encoder) error {
		return EncodeValue(e, v)
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes one value from a byte slice. The table may be nil
// for enum-free data.
func Unmarshal(data []byte, table VariantTable) (*Value, error) {
	return UnmarshalReader(bytes.NewReader(data), table)
}

// UnmarshalReader decodes one value from a reader.
func UnmarshalReader(r io.Reader, table VariantTable) (*Value, error) {
	d, err := NewDecoder(r)
	if err != nil {
		return nil, err
	}
	return DecodeValue(d, table)
}
