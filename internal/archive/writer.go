package archive

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// Writer is a sequential binary cursor with a sticky error.
type Writer struct {
	w   io.Writer
	n   int64
	err error
}

// NewWriter returns a Writer appending to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error recorded by the Writer, if any.
func (w *Writer) Err() error { return w.err }

// Written returns the number of bytes written so far.
func (w *Writer) Written() int64 { return w.n }

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}

func (w *Writer) write(b []byte) error {
	if w.err != nil {
		return w.err
	}
	n, err := w.w.Write(b)
	w.n += int64(n)
	if err != nil {
		return w.fail(fmt.Errorf("archive: write at offset %d: %w", w.n, err))
	}
	return nil
}

// WriteChunkVersion writes a chunk-version marker.
func (w *Writer) WriteChunkVersion(major, minor int) error {
	if w.err != nil {
		return w.err
	}
	b, err := packVersion(major, minor)
	if err != nil {
		return w.fail(err)
	}
	return w.write([]byte{b})
}

// WriteInt writes a 32-bit integer field.
func (w *Writer) WriteInt(v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return w.write(b[:])
}

// WriteCompressedBuffer writes raw as a length-prefixed, checksummed and
// possibly deflated buffer.
func (w *Writer) WriteCompressedBuffer(raw []byte) error {
	if w.err != nil {
		return w.err
	}
	if len(raw) > MaxBufferSize {
		return w.fail(fmt.Errorf("%w: %d bytes", ErrTooLarge, len(raw)))
	}
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(raw)))
	binary.BigEndian.PutUint32(hdr[4:8], crc32.Checksum(raw, castagnoli))
	if err := w.write(hdr[:]); err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	method, payload, err := encodeBuffer(raw)
	if err != nil {
		return w.fail(fmt.Errorf("archive: compress: %w", err))
	}
	var tail [5]byte
	tail[0] = method
	binary.BigEndian.PutUint32(tail[1:5], uint32(len(payload)))
	if err := w.write(tail[:]); err != nil {
		return err
	}
	return w.write(payload)
}
