package archive

import "errors"

var (
	// ErrTruncated is returned when the stream ends before a field is complete.
	ErrTruncated = errors.New("archive: truncated")
	// ErrCorrupt is returned for structurally invalid data.
	ErrCorrupt = errors.New("archive: corrupt data")
	// ErrChecksum is returned when a buffer's crc32c does not match its contents.
	ErrChecksum = errors.New("archive: checksum mismatch")
	// ErrTooLarge is returned when a buffer length exceeds MaxBufferSize.
	ErrTooLarge = errors.New("archive: buffer too large")
	// ErrVersionRange is returned when a chunk version does not fit in 4 bits.
	ErrVersionRange = errors.New("archive: chunk version out of range")
)
