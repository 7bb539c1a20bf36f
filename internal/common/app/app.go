package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/armadaproject/searchbench/internal/common/logging"
)

// CreateContextWithShutdown returns a context that is cancelled on the first SIGINT or SIGTERM, letting a run in
// progress stop its workers and still report what was collected. A second signal exits immediately.
func CreateContextWithShutdown() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-c
		logging.Infof("Received %s, stopping. Send it again to exit immediately", sig)
		cancel()
		sig = <-c
		logging.Errorf("Received %s again, exiting", sig)
		os.Exit(1)
	}()
	return ctx
}
