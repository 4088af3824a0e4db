package sbif

// VariantKind classifies an enum variant's payload shape. The wire
// carries only a unit/data distinction; the concrete data shape comes
// from the caller's variant table, never from the stream.
type VariantKind uint8

const (
	VariantUnit VariantKind = iota
	VariantNewtype
	VariantTuple
	VariantStruct
)

// String returns the kind name.
func (k VariantKind) String() string {
	switch k {
	case VariantUnit:
		return "unit"
	case VariantNewtype:
		return "newtype"
	case VariantTuple:
		return "tuple"
	case VariantStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Variant describes one alternative of a sum type: its name, payload
// shape, and for tuple payloads the declared arity.
type Variant struct {
	Name  string
	Kind  VariantKind
	Arity int
}

// VariantTable resolves numeric variant indices to declared variants.
// Index i resolves to entry i.
type VariantTable []Variant

// Resolve returns the variant declared at index.
func (t VariantTable) Resolve(index uint32) (Variant, error) {
	if uint64(index) >= uint64(len(t)) {
		return Variant{}, &VariantError{Index: index, Detail: "not in variant table"}
	}
	return t[index], nil
}

// EnumAccess holds a peeked enum head: the variant index is consumed,
// the payload is not. The caller resolves the variant's declared shape
// and commits with exactly one of Unit, Newtype, Tuple or Struct; a
// shape call that contradicts the wire fails with a VariantError.
type EnumAccess struct {
	d        *Decoder
	index    uint32
	variant  Variant
	resolved bool
	unit     bool // wire tag was the unit-variant tag
}

// Index returns the numeric variant index read from the wire.
func (a *EnumAccess) Index() uint32 { return a.index }

// Variant returns the resolved variant, if a table has been applied.
func (a *EnumAccess) Variant() (Variant, bool) {
	return a.variant, a.resolved
}

// Resolve looks the index up in the table and cross-checks the table's
// declared shape against the wire's unit/data distinction.
func (a *EnumAccess) Resolve(table VariantTable) (Variant, error) {
	v, err := table.Resolve(a.index)
	if err != nil {
		return Variant{}, err
	}
	if a.unit != (v.Kind == VariantUnit) {
		return Variant{}, &VariantError{Index: a.index, Detail: "table shape " + v.Kind.String() + " contradicts the wire"}
	}
	a.variant = v
	a.resolved = true
	return v, nil
}

// Unit commits to a payload-free variant.
func (a *EnumAccess) Unit() error {
	if !a.unit {
		return &VariantError{Index: a.index, Detail: "unit access to a data-carrying variant"}
	}
	return nil
}

// Newtype commits to a single-value payload. The caller decodes the
// inner value next; it carries no extra framing.
func (a *EnumAccess) Newtype() error {
	if a.unit {
		return &VariantError{Index: a.index, Detail: "data access to a unit variant"}
	}
	return nil
}

// Tuple commits to a fixed-arity payload, checking the encoded count
// against the declared arity.
func (a *EnumAccess) Tuple(arity int) (*SeqAccess, error) {
	if a.unit {
		return nil, &VariantError{Index: a.index, Detail: "data access to a unit variant"}
	}
	return a.d.checkedSeq("tuple variant", arity)
}

// Struct commits to a named-field payload, stepped through like any
// map.
func (a *EnumAccess) Struct() (*MapAccess, error) {
	if a.unit {
		return nil, &VariantError{Index: a.index, Detail: "data access to a unit variant"}
	}
	n, err := a.d.readU32()
	if err != nil {
		return nil, err
	}
	return &MapAccess{d: a.d, n: int(n)}, nil
}
