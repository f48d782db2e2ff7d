package bitio

import (
	"bytes"
	"testing"
)

func TestReader_ReadBitsMSBFirst(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x07, 0x20}))
	m, err := r.ReadBits(8)
	if err != nil || m != 0x07 {
		t.Fatalf("m = %v, %v; want 0x07, nil", m, err)
	}
	e, err := r.ReadBits(2)
	if err != nil || e != 0 {
		t.Fatalf("e = %v, %v; want 0, nil", e, err)
	}
	u, err := r.ReadBit()
	if err != nil || u != 1 {
		t.Fatalf("u = %v, %v; want 1, nil", u, err)
	}
}

func TestReader_UnexpectedEOF(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xFF}))
	if _, err := r.ReadBits(8); err != nil {
		t.Fatalf("first byte: unexpected error %v", err)
	}
	if _, err := r.ReadBit(); err != ErrUnexpectedEOF {
		t.Fatalf("err = %v, want %v", err, ErrUnexpectedEOF)
	}
	// Sticky.
	if _, err := r.ReadBit(); err != ErrUnexpectedEOF {
		t.Fatalf("err on second call = %v, want %v", err, ErrUnexpectedEOF)
	}
}

func TestReader_InvalidBitCount(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x00}))
	if _, err := r.ReadBits(9); err != ErrBitCount {
		t.Fatalf("err = %v, want %v", err, ErrBitCount)
	}
}

func TestReader_ReadBits32(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x12, 0x34, 0x56, 0x78}))
	v, err := r.ReadBits32(32)
	if err != nil {
		t.Fatal(err)
	}
	if want := uint32(0x12345678); v != want {
		t.Fatalf("v = %#x, want %#x", v, want)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBits(0b10110, 5)
	w.WriteBits(0xAB, 8)
	w.WriteBit(1)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(bytes.NewReader(buf.Bytes()))
	v1, err := r.ReadBits(5)
	if err != nil || v1 != 0b10110 {
		t.Fatalf("v1 = %v, %v", v1, err)
	}
	v2, err := r.ReadBits(8)
	if err != nil || v2 != 0xAB {
		t.Fatalf("v2 = %v, %v", v2, err)
	}
	v3, err := r.ReadBit()
	if err != nil || v3 != 1 {
		t.Fatalf("v3 = %v, %v", v3, err)
	}
}
