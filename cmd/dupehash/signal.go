package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// setupSignalContext returns a context that is cancelled on SIGINT, SIGTERM
// or SIGPIPE. Hash workers notice between buffer reads and stop.
func setupSignalContext(parent context.Context, stderr io.Writer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGPIPE)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			if sig != syscall.SIGPIPE {
				fmt.Fprintf(stderr, "\nReceived signal: %v, stopping...\n", sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
