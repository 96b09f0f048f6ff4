package codec

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestWriterLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteC('{')
	w.WriteH(0x0102)
	w.WriteD(0x03040506)
	w.WriteS("ab")
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	want := []byte{'{', 0x02, 0x01, 0x06, 0x05, 0x04, 0x03, 'a', 'b', 0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("layout mismatch:\n got %v\nwant %v", buf.Bytes(), want)
	}
	if w.Len() != int64(len(want)) {
		t.Errorf("Len() = %d, want %d", w.Len(), len(want))
	}
}

func TestReaderFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteC(7)
	w.WriteH(65535)
	w.WriteD(1 << 31)
	w.WriteQ(1 << 40)
	w.WriteF(-32.5)
	w.WriteS("game.Transform")
	w.WriteBytes([]byte{9, 8})
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	r := NewReader(&buf)
	if got := r.ReadC(); got != 7 {
		t.Errorf("ReadC = %d", got)
	}
	if got := r.ReadH(); got != 65535 {
		t.Errorf("ReadH = %d", got)
	}
	if got := r.ReadD(); got != 1<<31 {
		t.Errorf("ReadD = %d", got)
	}
	if got := r.ReadQ(); got != 1<<40 {
		t.Errorf("ReadQ = %d", got)
	}
	if got := r.ReadF(); got != -32.5 {
		t.Errorf("ReadF = %v", got)
	}
	if got := r.ReadS(); got != "game.Transform" {
		t.Errorf("ReadS = %q", got)
	}
	if got := r.ReadBytes(2); !bytes.Equal(got, []byte{9, 8}) {
		t.Errorf("ReadBytes = %v", got)
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
	if r.ReadC(); !errors.Is(r.Err(), io.EOF) {
		t.Errorf("expected io.EOF at end of stream, got %v", r.Err())
	}
}

func TestReaderTruncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(r *Reader)
		want error
	}{
		{"uint32", []byte{1, 2}, func(r *Reader) { r.ReadD() }, io.ErrUnexpectedEOF},
		{"string", []byte("abc"), func(r *Reader) { r.ReadS() }, io.ErrUnexpectedEOF},
		{"empty", nil, func(r *Reader) { r.ReadH() }, io.EOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(tt.data))
			tt.read(r)
			if !errors.Is(r.Err(), tt.want) {
				t.Fatalf("got %v, want %v", r.Err(), tt.want)
			}
			// sticky: later reads stay zero
			if v := r.ReadC(); v != 0 {
				t.Errorf("read after error returned %d", v)
			}
		})
	}
}
