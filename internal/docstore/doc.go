// Package docstore is the document container the host saves into.
//
// A document is a named sequence of revisions. Each save writes one revision
// holding the user-data chunk of every plug-in that took part, keyed by
// plug-in id. Loading reads chunks from the latest revision.
//
// Keys (Pebble, byte-wise ordered):
//   - doc/{name}/m                      document metadata (msgpack)
//   - doc/{name}/r/{rev_id16}/{plugin}  user-data chunk
//
// Revision ids come from package id, so a prefix scan returns revisions
// oldest first.
package docstore
