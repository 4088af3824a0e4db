package sbif

// Visitor receives decoded structure from Decoder.DecodeAny, one method
// per value kind. The codec calls exactly one method per value; for
// composites the visitor pulls elements through the access object, and
// for enums it resolves the variant shape (via its own VariantTable)
// before committing to a payload read.
//
// A binding layer implements this interface once per target
// representation; the codec never inspects native type metadata.
type Visitor interface {
	VisitNull() error
	VisitBool(v bool) error
	VisitInt8(v int8) error
	VisitInt16(v int16) error
	VisitInt32(v int32) error
	VisitInt64(v int64) error
	VisitUint8(v uint8) error
	VisitUint16(v uint16) error
	VisitUint32(v uint32) error
	VisitUint64(v uint64) error
	VisitFloat32(v float32) error
	VisitFloat64(v float64) error
	VisitChar(v rune) error
	VisitString(v string) error
	VisitBytes(v []byte) error
	VisitSeq(s *SeqAccess) error
	VisitTuple(s *SeqAccess) error
	VisitTupleStruct(s *SeqAccess) error
	VisitMap(m *MapAccess) error
	VisitEnum(e *EnumAccess) error
}
