package codec

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
)

// Writer streams little-endian fields to an underlying writer.
// The first write error is kept and every later write becomes a no-op,
// so callers may emit a whole record and check Err once.
type Writer struct {
	w   *bufio.Writer
	buf [8]byte
	n   int64
	err error
}

func NewWriter(w io.Writer) *Writer {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &Writer{w: bw}
}

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(p)
	w.n += int64(n)
	w.err = err
}

// WriteC writes 1 byte.
func (w *Writer) WriteC(v byte) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

// WriteH writes 2 bytes as little-endian uint16.
func (w *Writer) WriteH(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.write(w.buf[:2])
}

// WriteD writes 4 bytes as little-endian uint32.
func (w *Writer) WriteD(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

// WriteQ writes 8 bytes as little-endian uint64.
func (w *Writer) WriteQ(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:8], v)
	w.write(w.buf[:8])
}

// WriteF writes an IEEE-754 float32.
func (w *Writer) WriteF(v float32) {
	w.WriteD(math.Float32bits(v))
}

// WriteS writes s followed by a zero byte. s must not contain a zero byte.
func (w *Writer) WriteS(s string) {
	if w.err != nil {
		return
	}
	n, err := w.w.WriteString(s)
	w.n += int64(n)
	w.err = err
	w.WriteC(0)
}

// WriteBytes writes raw bytes with no length prefix.
func (w *Writer) WriteBytes(p []byte) {
	w.write(p)
}

// Flush pushes buffered bytes to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int64 { return w.n }

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }
