// Package id provides 16-byte identifiers that sort by creation time.
//
// Layout is [8 bytes unix ms][8 bytes sequence], big-endian, so byte-wise
// comparison matches generation order. Document revisions use them as keys.
package id
