package sbif

import "io"

// peekReader layers a bounded unread buffer over a reader so the next
// few bytes can be inspected without consuming them. The underlying
// source may be a decompressor, so no seeking is assumed; peeked bytes
// are held until reads drain them.
type peekReader struct {
	r   io.Reader
	buf []byte // peeked but unconsumed bytes
	off int    // read position within buf
}

func newPeekReader(r io.Reader) *peekReader {
	return &peekReader{r: r}
}

// peek returns the next n bytes without advancing the read position.
// The returned slice is valid until the next call on the reader.
func (p *peekReader) peek(n int) ([]byte, error) {
	buffered := len(p.buf) - p.off
	if buffered >= n {
		return p.buf[p.off : p.off+n], nil
	}

	// Compact before growing so drained bytes are not retained.
	if p.off > 0 {
		p.buf = append(p.buf[:0], p.buf[p.off:]...)
		p.off = 0
	}

	need := n - len(p.buf)
	fill := make([]byte, need)
	if _, err := io.ReadFull(p.r, fill); err != nil {
		if err == io.EOF && len(p.buf) > 0 {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	p.buf = append(p.buf, fill...)
	return p.buf[:n], nil
}

func (p *peekReader) Read(b []byte) (int, error) {
	if p.off < len(p.buf) {
		n := copy(b, p.buf[p.off:])
		p.off += n
		if p.off == len(p.buf) {
			p.buf = p.buf[:0]
			p.off = 0
		}
		return n, nil
	}
	return p.r.Read(b)
}

func (p *peekReader) readByte() (byte, error) {
	var b [1]byte
	if err := p.readFull(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *peekReader) readFull(b []byte) error {
	_, err := io.ReadFull(p, b)
	return err
}

// discard consumes and drops exactly n bytes.
func (p *peekReader) discard(n int64) error {
	_, err := io.CopyN(io.Discard, p, n)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
