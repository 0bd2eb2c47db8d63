// Package shutdown coordinates graceful process termination.
//
// A Handler collects cleanup hooks and runs them, newest first, under a
// shared deadline once SIGINT or SIGTERM arrives or the wait context is
// cancelled.
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	return h.Wait(ctx)
package shutdown
