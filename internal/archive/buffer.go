package archive

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"
)

const (
	methodStored  byte = 0
	methodDeflate byte = 1

	// compressThreshold is the smallest raw size worth trying to deflate.
	compressThreshold = 64
)

// MaxBufferSize bounds the raw and payload lengths a Reader will accept.
const MaxBufferSize = 64 << 20

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// encodeBuffer picks a method for raw and returns it with the payload bytes.
func encodeBuffer(raw []byte) (byte, []byte, error) {
	if len(raw) < compressThreshold {
		return methodStored, raw, nil
	}
	var out bytes.Buffer
	fw, err := flate.NewWriter(&out, flate.BestCompression)
	if err != nil {
		return 0, nil, err
	}
	if _, err := fw.Write(raw); err != nil {
		return 0, nil, err
	}
	if err := fw.Close(); err != nil {
		return 0, nil, err
	}
	if out.Len() >= len(raw) {
		return methodStored, raw, nil
	}
	return methodDeflate, out.Bytes(), nil
}

// decodeBuffer reverses encodeBuffer and verifies length and checksum.
func decodeBuffer(method byte, payload []byte, rawLen uint32, crc uint32) ([]byte, error) {
	var raw []byte
	switch method {
	case methodStored:
		raw = payload
	case methodDeflate:
		fr := flate.NewReader(bytes.NewReader(payload))
		defer fr.Close()
		out, err := io.ReadAll(io.LimitReader(fr, int64(rawLen)+1))
		if err != nil {
			return nil, fmt.Errorf("%w: inflate: %v", ErrCorrupt, err)
		}
		raw = out
	default:
		return nil, fmt.Errorf("%w: unknown buffer method %d", ErrCorrupt, method)
	}
	if uint32(len(raw)) != rawLen {
		return nil, fmt.Errorf("%w: buffer length %d, want %d", ErrCorrupt, len(raw), rawLen)
	}
	if crc32.Checksum(raw, castagnoli) != crc {
		return nil, ErrChecksum
	}
	return raw, nil
}
