// Package streams implements the two byte-buffer primitives the chunk codec
// is built on: a forward-only write buffer with geometric growth, and a
// random-access read buffer with a position cursor (spec §4.1). All
// multi-byte integers are little-endian on the wire; UUID and hash values are
// treated as raw contiguous bytes with no reordering.
package streams

import (
	"encoding/binary"
	"math/bits"
)

// DefaultInitialReservation is the default up-front allocation for a fresh
// WriteStream, matching spec §4.1's "default on order of 64 MiB".
const DefaultInitialReservation = 64 * 1024 * 1024

// WriteStream is an append-only byte buffer. It is single-writer: no
// internal synchronization is performed.
type WriteStream struct {
	buf []byte
	pos int
}

// NewWriteStream creates a WriteStream reserving at least initialReservation
// bytes up front. A non-positive value falls back to DefaultInitialReservation.
func NewWriteStream(initialReservation int) *WriteStream {
	if initialReservation <= 0 {
		initialReservation = DefaultInitialReservation
	}
	return &WriteStream{buf: make([]byte, 0, initialReservation)}
}

// Position returns the current write cursor.
func (w *WriteStream) Position() int { return w.pos }

// Len returns the logical size of the stream, which may exceed Position if
// SetPosition previously grew the buffer past the last write.
func (w *WriteStream) Len() int { return len(w.buf) }

// Bytes returns the accumulated bytes. The returned slice aliases the
// stream's internal buffer and must not be retained across further writes.
func (w *WriteStream) Bytes() []byte { return w.buf }

// reserve grows the backing array, if needed, to hold at least n more bytes
// past the current logical length, doubling capacity or jumping straight to
// the requested size, whichever is larger.
func (w *WriteStream) reserve(n int) {
	need := len(w.buf) + n
	if need <= cap(w.buf) {
		return
	}
	newCap := cap(w.buf) * 2
	if newCap < need {
		newCap = need
	}
	grown := make([]byte, len(w.buf), newCap)
	copy(grown, w.buf)
	w.buf = grown
}

// SetPosition moves the write cursor. Moving beyond the logical end grows
// the stream, zero-filling the gap, the same as a sparse write would.
func (w *WriteStream) SetPosition(pos int) {
	if pos > len(w.buf) {
		w.reserve(pos - len(w.buf))
		w.buf = w.buf[:pos]
	}
	w.pos = pos
}

// grow ensures the buffer has n more writable bytes starting at pos and
// advances the logical length to cover them.
func (w *WriteStream) grow(n int) []byte {
	end := w.pos + n
	if end > len(w.buf) {
		w.reserve(end - len(w.buf))
		w.buf = w.buf[:end]
	}
	dst := w.buf[w.pos:end]
	w.pos = end
	return dst
}

// WriteBytes appends raw bytes verbatim (used for UUID/hash/string payloads
// and key bytes, which are never byte-swapped).
func (w *WriteStream) WriteBytes(b []byte) {
	dst := w.grow(len(b))
	copy(dst, b)
}

// WriteByte appends a single byte.
func (w *WriteStream) WriteByte(b byte) error {
	dst := w.grow(1)
	dst[0] = b
	return nil
}

// WriteUint16 appends a little-endian uint16.
func (w *WriteStream) WriteUint16(v uint16) {
	dst := w.grow(2)
	binary.LittleEndian.PutUint16(dst, v)
}

// WriteUint32 appends a little-endian uint32.
func (w *WriteStream) WriteUint32(v uint32) {
	dst := w.grow(4)
	binary.LittleEndian.PutUint32(dst, v)
}

// WriteUint64 appends a little-endian uint64.
func (w *WriteStream) WriteUint64(v uint64) {
	dst := w.grow(8)
	binary.LittleEndian.PutUint64(dst, v)
}

// OverwriteUint64At rewrites 8 bytes already present at byte offset pos,
// used to backfill block sizes and array element sizes after the fact.
// pos must lie within the already-written range.
func (w *WriteStream) OverwriteUint64At(pos int, v uint64) {
	binary.LittleEndian.PutUint64(w.buf[pos:pos+8], v)
}

// OverwriteByteAt rewrites a single byte already present at byte offset pos.
func (w *WriteStream) OverwriteByteAt(pos int, v byte) {
	w.buf[pos] = v
}

// ReadStream is an immutable, random-access byte view with a position
// cursor. Reads are saturating: reading past the end returns a short
// result rather than an error; the chunk codec is responsible for detecting
// the resulting mismatch.
type ReadStream struct {
	buf []byte
	pos int
}

// NewReadStream wraps buf for reading. buf is not copied.
func NewReadStream(buf []byte) *ReadStream {
	return &ReadStream{buf: buf}
}

// Position returns the current read cursor.
func (r *ReadStream) Position() int { return r.pos }

// SetPosition moves the read cursor to an arbitrary offset, including past
// the end of the buffer (subsequent reads then report zero bytes read).
func (r *ReadStream) SetPosition(pos int) { r.pos = pos }

// Len returns the total number of bytes in the underlying buffer.
func (r *ReadStream) Len() int { return len(r.buf) }

// Remaining returns the number of bytes between the cursor and the end of
// the buffer, or 0 if the cursor is at or past the end.
func (r *ReadStream) Remaining() int {
	if r.pos >= len(r.buf) {
		return 0
	}
	return len(r.buf) - r.pos
}

// Peek returns the byte at the cursor, or 0 if the cursor is at or past EOF.
func (r *ReadStream) Peek() byte {
	if r.pos >= len(r.buf) {
		return 0
	}
	return r.buf[r.pos]
}

// ReadBytes copies up to len(dst) bytes starting at the cursor into dst and
// advances the cursor by the number of bytes actually copied, which may be
// short at EOF.
func (r *ReadStream) ReadBytes(dst []byte) int {
	n := copy(dst, r.sliceFromCursor(len(dst)))
	r.pos += n
	return n
}

// ReadByte reads one byte, returning ok=false at EOF without advancing.
func (r *ReadStream) ReadByte() (b byte, ok bool) {
	if r.pos >= len(r.buf) {
		return 0, false
	}
	b = r.buf[r.pos]
	r.pos++
	return b, true
}

// ReadUint16 reads a little-endian uint16, returning ok=false if fewer than
// 2 bytes remain (the cursor is left unadvanced in that case).
func (r *ReadStream) ReadUint16() (v uint16, ok bool) {
	if r.Remaining() < 2 {
		return 0, false
	}
	v = binary.LittleEndian.Uint16(r.buf[r.pos : r.pos+2])
	r.pos += 2
	return v, true
}

// ReadUint32 reads a little-endian uint32.
func (r *ReadStream) ReadUint32() (v uint32, ok bool) {
	if r.Remaining() < 4 {
		return 0, false
	}
	v = binary.LittleEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, true
}

// ReadUint64 reads a little-endian uint64.
func (r *ReadStream) ReadUint64() (v uint64, ok bool) {
	if r.Remaining() < 8 {
		return 0, false
	}
	v = binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, true
}

func (r *ReadStream) sliceFromCursor(max int) []byte {
	if r.pos >= len(r.buf) {
		return nil
	}
	end := r.pos + max
	if end > len(r.buf) {
		end = len(r.buf)
	}
	return r.buf[r.pos:end]
}

// BitsForCount returns the number of bytes needed to hold count packed
// bits, used for the boolean array wire encoding (⌈count/8⌉).
func BitsForCount(count uint64) uint64 {
	return (count + 7) / 8
}

// PopCountBytes counts the set bits in b, e.g. in a packed bool array.
func PopCountBytes(b []byte) int {
	n := 0
	for _, v := range b {
		n += bits.OnesCount8(v)
	}
	return n
}
