package sbif

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// CompressionKind identifies the transport wrapped around the value
// bytes. The numeric values are written to the header verbatim and are
// part of the wire contract; the four-way set is closed, not an
// extension point.
type CompressionKind uint8

const (
	CompressionNone    CompressionKind = 0
	CompressionDeflate CompressionKind = 1
	CompressionGzip    CompressionKind = 2
	CompressionZlib    CompressionKind = 3
)

// String returns the human-readable name of a compression kind.
func (k CompressionKind) String() string {
	switch k {
	case CompressionNone:
		return "none"
	case CompressionDeflate:
		return "deflate"
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ParseCompressionKind parses a compression kind from its string
// representation.
func ParseCompressionKind(name string) (CompressionKind, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "deflate":
		return CompressionDeflate, nil
	case "gzip":
		return CompressionGzip, nil
	case "zlib":
		return CompressionZlib, nil
	default:
		return 0, fmt.Errorf("sbif: unknown compression kind: %q", name)
	}
}

// Compression selects the transport for a stream. Level is the
// compression effort, carried verbatim in the header; it is meaningless
// for CompressionNone and used only on the encode side otherwise (the
// decoder needs only the kind to pick the matching decompressor).
type Compression struct {
	Kind  CompressionKind
	Level uint32
}

// DefaultCompression returns the default transport: gzip at level 6.
func DefaultCompression() Compression {
	return Compression{Kind: CompressionGzip, Level: 6}
}

// NoCompression is the identity transport.
var NoCompression = Compression{Kind: CompressionNone}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// newWriter wraps w in the streaming compressor for c. The returned
// writer must be closed exactly once to flush buffered compressor
// state; skipping the close truncates the stream.
func (c Compression) newWriter(w io.Writer) (io.WriteCloser, error) {
	switch c.Kind {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionDeflate:
		fw, err := flate.NewWriter(w, int(c.Level))
		if err != nil {
			return nil, fmt.Errorf("sbif: deflate writer: %w", err)
		}
		return fw, nil
	case CompressionGzip:
		gw, err := gzip.NewWriterLevel(w, int(c.Level))
		if err != nil {
			return nil, fmt.Errorf("sbif: gzip writer: %w", err)
		}
		return gw, nil
	case CompressionZlib:
		zw, err := zlib.NewWriterLevel(w, int(c.Level))
		if err != nil {
			return nil, fmt.Errorf("sbif: zlib writer: %w", err)
		}
		return zw, nil
	default:
		return nil, &CompressionError{Kind: uint8(c.Kind)}
	}
}

// newReader wraps r in the streaming decompressor for c.Kind.
func (c Compression) newReader(r io.Reader) (io.Reader, error) {
	switch c.Kind {
	case CompressionNone:
		return r, nil
	case CompressionDeflate:
		return flate.NewReader(r), nil
	case CompressionGzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("sbif: gzip reader: %w", err)
		}
		return gr, nil
	case CompressionZlib:
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("sbif: zlib reader: %w", err)
		}
		return zr, nil
	default:
		return nil, &CompressionError{Kind: uint8(c.Kind)}
	}
}
