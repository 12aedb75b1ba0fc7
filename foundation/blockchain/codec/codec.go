// Package codec implements the deterministic, big-endian binary framing used
// to persist transactions and blocks to disk. It is the wire format that
// foundation/blockchain/database, block and chain all build on: every byte
// written here is read back byte-for-byte, in the same order, by the reader
// half of this package.
package codec

import (
	"encoding/binary"

	"github.com/gorbak25/simple-blockchain/foundation/blockchain/chainerr"
)

// Writer accumulates an encoded byte stream. The zero value is ready to use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with buf pre-sized to the given capacity hint.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends v as two big-endian bytes.
func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteUint64 appends v as eight big-endian bytes.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteFixed appends b verbatim. Callers are responsible for b having the
// width the decoder on the other end expects.
func (w *Writer) WriteFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteBitLengthPrefixed writes len(sig)*8 as a u16 bit-length prefix
// followed by sig itself. Every signature this codec produces is
// byte-aligned, so the stored bit length is always a multiple of eight; see
// Reader.ReadBitLengthPrefixed for the decode side of that contract.
func (w *Writer) WriteBitLengthPrefixed(sig []byte) {
	w.WriteUint16(uint16(len(sig)) * 8)
	w.WriteFixed(sig)
}

// Reader consumes an encoded byte stream left to right, erroring with
// chainerr.DecodeError on truncation.
type Reader struct {
	buf []byte
}

// NewReader wraps b for decoding. b is not copied or mutated.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Remaining reports how many bytes are left to read.
func (r *Reader) Remaining() int {
	return len(r.buf)
}

// Leftover returns whatever bytes have not yet been consumed.
func (r *Reader) Leftover() []byte {
	return r.buf
}

func (r *Reader) need(n int) error {
	if len(r.buf) < n {
		return chainerr.New(chainerr.DecodeError, "need %d bytes, have %d", n, len(r.buf))
	}
	return nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[0]
	r.buf = r.buf[1:]
	return v, nil
}

// ReadUint16 reads two big-endian bytes.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[:2])
	r.buf = r.buf[2:]
	return v, nil
}

// ReadUint64 reads eight big-endian bytes.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[:8])
	r.buf = r.buf[8:]
	return v, nil
}

// ReadFixed reads exactly n bytes.
func (r *Reader) ReadFixed(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := make([]byte, n)
	copy(v, r.buf[:n])
	r.buf = r.buf[n:]
	return v, nil
}

// ReadBitLengthPrefixed reads a u16 bit-length followed by that many bits of
// signature data. This implementation only ever writes byte-aligned
// signatures, so a stored bit length that is not a multiple of eight is
// rejected as DecodeError rather than reassembled at sub-byte granularity —
// see SPEC_FULL.md §D.5.
func (r *Reader) ReadBitLengthPrefixed() ([]byte, error) {
	bits, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	if bits%8 != 0 {
		return nil, chainerr.New(chainerr.DecodeError, "signature bit length %d is not byte-aligned", bits)
	}
	return r.ReadFixed(int(bits / 8))
}
