// Package codec implements the little-endian field stream shared by the
// entity snapshot format and component payloads.
package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"strings"
)

// Reader reads fields from a byte stream. Like Writer it keeps the first
// error; reads after a failure return zero values.
type Reader struct {
	r   *bufio.Reader
	buf [8]byte
	off int64
	err error
}

func NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br}
}

func (r *Reader) fill(n int) []byte {
	if r.err != nil {
		return nil
	}
	got, err := io.ReadFull(r.r, r.buf[:n])
	r.off += int64(got)
	if err != nil {
		r.err = err
		return nil
	}
	return r.buf[:n]
}

// ReadC reads 1 byte.
func (r *Reader) ReadC() byte {
	if r.err != nil {
		return 0
	}
	b, err := r.r.ReadByte()
	if err != nil {
		r.err = err
		return 0
	}
	r.off++
	return b
}

// ReadH reads 2 bytes as little-endian uint16.
func (r *Reader) ReadH() uint16 {
	b := r.fill(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadD reads 4 bytes as little-endian uint32.
func (r *Reader) ReadD() uint32 {
	b := r.fill(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadQ reads 8 bytes as little-endian uint64.
func (r *Reader) ReadQ() uint64 {
	b := r.fill(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadF reads an IEEE-754 float32.
func (r *Reader) ReadF() float32 {
	return math.Float32frombits(r.ReadD())
}

// ReadS reads a zero-terminated string. A stream that ends before the
// terminator yields io.ErrUnexpectedEOF.
func (r *Reader) ReadS() string {
	if r.err != nil {
		return ""
	}
	var sb strings.Builder
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			r.err = err
			return ""
		}
		r.off++
		if b == 0 {
			return sb.String()
		}
		sb.WriteByte(b)
	}
}

// ReadBytes reads exactly n raw bytes.
func (r *Reader) ReadBytes(n int) []byte {
	if r.err != nil || n <= 0 {
		return nil
	}
	p := make([]byte, n)
	got, err := io.ReadFull(r.r, p)
	r.off += int64(got)
	if err != nil {
		r.err = err
		return nil
	}
	return p
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 { return r.off }

// Err returns the first error encountered.
func (r *Reader) Err() error { return r.err }
