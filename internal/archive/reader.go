package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Reader is a sequential binary cursor with a sticky error.
type Reader struct {
	r   io.Reader
	n   int64
	err error
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error recorded by the Reader, if any.
func (r *Reader) Err() error { return r.err }

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 { return r.n }

func (r *Reader) fail(err error) error {
	if r.err == nil {
		r.err = fmt.Errorf("archive: read at offset %d: %w", r.n, err)
	}
	return r.err
}

func (r *Reader) read(b []byte) error {
	if r.err != nil {
		return r.err
	}
	n, err := io.ReadFull(r.r, b)
	r.n += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return r.fail(ErrTruncated)
		}
		return r.fail(err)
	}
	return nil
}

// ReadChunkVersion reads a chunk-version marker.
func (r *Reader) ReadChunkVersion() (Version, error) {
	var b [1]byte
	if err := r.read(b[:]); err != nil {
		return Version{}, err
	}
	return unpackVersion(b[0]), nil
}

// ReadInt reads a 32-bit integer field.
func (r *Reader) ReadInt() (int32, error) {
	var b [4]byte
	if err := r.read(b[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

// ReadCompressedBuffer reads a buffer written by Writer.WriteCompressedBuffer.
func (r *Reader) ReadCompressedBuffer() ([]byte, error) {
	var hdr [8]byte
	if err := r.read(hdr[:]); err != nil {
		return nil, err
	}
	rawLen := binary.BigEndian.Uint32(hdr[0:4])
	crc := binary.BigEndian.Uint32(hdr[4:8])
	if rawLen > MaxBufferSize {
		return nil, r.fail(fmt.Errorf("%w: %d bytes", ErrTooLarge, rawLen))
	}
	if rawLen == 0 {
		if crc != 0 {
			return nil, r.fail(ErrChecksum)
		}
		return []byte{}, nil
	}
	var tail [5]byte
	if err := r.read(tail[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(tail[1:5])
	if n > MaxBufferSize {
		return nil, r.fail(fmt.Errorf("%w: payload %d bytes", ErrTooLarge, n))
	}
	payload := make([]byte, n)
	if err := r.read(payload); err != nil {
		return nil, err
	}
	raw, err := decodeBuffer(tail[0], payload, rawLen, crc)
	if err != nil {
		return nil, r.fail(err)
	}
	return raw, nil
}
