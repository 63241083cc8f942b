// Package runtime wires configuration, storage and the document host into a
// single local instance. It exposes Open/Close, a basic health check and
// accessors used by the CLI.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	s, _ := rt.Host().Open(ctx, "bracket", audit.ReadOptions{})
//	_ = s.Save(ctx, audit.WriteOptions{})
//	_ = s.Close()
package runtime
