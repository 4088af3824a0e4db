package sbif

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

const (
	headerMagic   = "SBIF"
	formatVersion = 1
)

// fileHeader is the fixed preamble written once per stream, before any
// value bytes: length-prefixed magic, version byte, compression
// descriptor.
type fileHeader struct {
	magic       string
	version     uint8
	compression Compression
}

func newFileHeader(c Compression) fileHeader {
	return fileHeader{
		magic:       headerMagic,
		version:     formatVersion,
		compression: c,
	}
}

func (h fileHeader) writeTo(w io.Writer) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(len(h.magic)))
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := io.WriteString(w, h.magic); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	tail := []byte{h.version, byte(h.compression.Kind)}
	if _, err := w.Write(tail); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if h.compression.Kind != CompressionNone {
		var level [4]byte
		binary.BigEndian.PutUint32(level[:], h.compression.Level)
		if _, err := w.Write(level[:]); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	return nil
}

// readFileHeader mirrors writeTo. It rejects compression kinds outside
// the fixed set; magic and version validation is left to the caller so
// the error can report what was actually found.
func readFileHeader(r io.Reader) (fileHeader, error) {
	var h fileHeader

	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	magicLen := binary.BigEndian.Uint16(lenBuf[:])

	magic := make([]byte, magicLen)
	if _, err := io.ReadFull(r, magic); err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if !utf8.Valid(magic) {
		return h, fmt.Errorf("read header: %w", ErrInvalidUTF8)
	}
	h.magic = string(magic)

	var tail [2]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	h.version = tail[0]

	kind := CompressionKind(tail[1])
	switch kind {
	case CompressionNone:
		h.compression = Compression{Kind: kind}
	case CompressionDeflate, CompressionGzip, CompressionZlib:
		var level [4]byte
		if _, err := io.ReadFull(r, level[:]); err != nil {
			return h, fmt.Errorf("read header: %w", err)
		}
		h.compression = Compression{Kind: kind, Level: binary.BigEndian.Uint32(level[:])}
	default:
		return h, &CompressionError{Kind: tail[1]}
	}

	return h, nil
}
