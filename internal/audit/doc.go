// Package audit records who saved a document, where and when.
//
// Every save appends a Record (machine name, user name, timestamp) to the
// document session's Table, and the whole table is written into the
// document's user-data chunk. Loading reads the chunk back.
//
// Chunk layout (see package archive for field encodings):
//
//	table:  version(1.0) | int count | count x record
//	record: version(1.0) | buffer machine | buffer user | buffer timestamp
//
// Readers accept any minor version under major 1. A different major skips the
// section: the whole list at table level, the three fields at record level.
//
// A Table is not safe for concurrent use. The host serialises save, load and
// close callbacks for a document.
package audit
