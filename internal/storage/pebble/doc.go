// Package pebblestore wraps Pebble with an fsync policy and the few helpers
// the document store needs: point reads, batches and bounded iterators.
//
//	db, err := pebblestore.Open(pebblestore.Options{DataDir: "./store", Fsync: pebblestore.FsyncModeAlways})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(ctx, b)
//	b.Close()
package pebblestore
