// Package host drives the audit table the way a CAD host drives a plug-in.
//
// Host opens documents from a docstore.Store. Each open document is a
// Session that owns its own audit.Table and calls into it on the four
// plug-in hooks: should-write and write on save, read on load, clear on
// close. Close handlers are registered on the Session explicitly.
//
//	h := host.New(store, host.Options{PluginID: "raccoon"})
//	s, _ := h.Open(ctx, "bracket", audit.ReadOptions{})
//	_ = s.Save(ctx, audit.WriteOptions{})
//	lines := s.Table().DisplayLines()
//	_ = s.Close()
//
// A Session is not safe for concurrent use; Host is.
package host
