// Package sbif implements SBIF, a self-describing tagged binary codec.
//
// SBIF encodes structured values into a compact byte stream and decodes
// that stream back without a fixed schema: every value is preceded by a
// one-byte tag identifying its kind, and composite values carry their
// element count up front. The stream may be compressed; the compression
// choice is recorded in the file header, so an encoder and decoder never
// need to agree out of band.
//
// # Stream Layout
//
//	Stream := Header Body
//	Header := u16 magic_len, magic bytes ("SBIF"), u8 version (=1),
//	          u8 compression kind, [u32 level]   // level iff kind != 0
//	Body   := transport(TaggedValue)             // identity, Deflate, Gzip or Zlib
//	TaggedValue := u8 tag, <tag-specific payload>
//
// All multi-byte integers are big-endian.
//
// # Data Model
//
// Scalars: null, bool, i8..i64, u8..u64, f32, f64, char, str, bytes
// Containers: seq, tuple, tuple struct, map, struct (a string-keyed map)
// Sums: unit variant, data-carrying variant (newtype/tuple/struct payload)
//
// Two wire collapses are deliberate and load-bearing:
//
//   - An absent option, the unit value and a zero-field unit struct all
//     encode as the single Null tag. Presence of an option is inferred
//     from the absence of Null, never from a wrapper tag.
//   - A struct encodes byte-identically to a map with string keys, fields
//     emitted in declaration order.
//
// All data-carrying enum variants share one generic tag. Their payload
// framing is therefore not self-describing: decoding (or skipping) one
// requires the caller-supplied variant table that maps the numeric
// variant index to a name and shape.
//
// # Usage
//
// Encoding is push-driven: the caller walks its value depth first and
// issues one Encoder call per node, declaring every composite's count
// before its first element.
//
//	err := sbif.Encode(w, sbif.DefaultCompression(), func(e *sbif.Encoder) error {
//	    if err := e.EncodeStruct(2); err != nil {
//	        return err
//	    }
//	    e.EncodeString("a")
//	    e.EncodeUint8(1)
//	    e.EncodeString("b")
//	    return e.EncodeUint8(2)
//	})
//
// Decoding is pull-driven: the caller declares the expected shape per
// node, or asks for "any" and receives the structure through a Visitor.
//
//	dec, err := sbif.NewDecoder(r)
//	ma, err := dec.DecodeStruct()
//	for {
//	    ok, err := ma.NextKey()
//	    ...
//	}
//
// The Value tree (see Value) implements both sides of this boundary and
// is the package's reference binding; Marshal and Unmarshal round-trip
// arbitrary Values through it.
//
// A Decoder and Encoder each bind to exactly one stream and one
// top-level value; they are single-threaded and not reusable.
package sbif
