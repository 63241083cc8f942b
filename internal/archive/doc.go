// Package archive implements the sequential binary cursors used to persist
// plug-in user data inside a document.
//
// # Format
//
// All integers are big-endian.
//
//   - chunk version: 1 byte, major<<4 | minor (each 0..15)
//   - int:           4 bytes, int32
//   - buffer:        u32 rawLen | u32 crc32c(raw) [| u8 method | u32 n | payload]
//
// The method/payload tail is omitted for empty buffers. Method 0 stores the
// bytes as-is, method 1 is raw deflate.
//
// # Errors
//
// Writer and Reader keep a sticky error. The first failure is recorded and
// every later call becomes a no-op that returns it, so callers may run a whole
// sequence of operations and check Err once:
//
//	w := archive.NewWriter(&buf)
//	w.WriteChunkVersion(1, 0)
//	w.WriteInt(3)
//	w.WriteCompressedBuffer([]byte("hello"))
//	if err := w.Err(); err != nil { /* handle */ }
package archive
