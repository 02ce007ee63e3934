// Package httpserver runs an http.Handler with graceful shutdown.
//
// The server binds its listener before running start hooks, so a hook (or a
// test) can read the bound address from Addr, which matters when listening
// on port 0. Run returns when ctx is cancelled, when the process receives
// SIGINT or SIGTERM, or after Shutdown. Stop hooks run once the server has
// drained, with a context bounded by the shutdown timeout. Drain hooks run
// as soon as shutdown begins; the push daemon uses one to close its router
// and end open event streams.
//
//	srv := httpserver.New(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithDrainHook(func(ctx context.Context) { _ = stream.Close() }),
//	)
//	if err := srv.Run(ctx, mux); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler serve the usual probe endpoints.
package httpserver
