// Package interrupt turns termination signals into context cancellation
// without letting them reach helper processes.
//
// A terminal Ctrl+C is delivered to every process in the foreground process
// group. Helper processes such as a stay-open exiftool would die with the
// file in progress still unwritten, so they are started with the signals
// ignored and only this process reacts to them.
package interrupt

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Signals stop a batch after the file in progress.
var Signals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Shield calls start with sigs ignored, so every child process launched
// during the call inherits the ignored disposition across exec. Once start
// returns, the returned context is cancelled when one of sigs reaches this
// process.
//
// Parameters:
//   - parent: Context the returned context derives from.
//   - start: Launches the helper processes. It runs on the calling goroutine.
//   - sigs: Signals to shield from children and watch for. With none, start
//     runs unshielded and nothing is watched.
//
// Returns:
//   - context.Context: Cancelled on the first watched signal.
//   - context.CancelFunc: Stops watching. Call it when the work is done.
//   - error: The error from start. No context is returned in that case.
//
// The signals remain ignored after the CancelFunc is called; Shield is meant
// to be used once per process run.
func Shield(parent context.Context, start func() error, sigs ...os.Signal) (context.Context, context.CancelFunc, error) {
	if len(sigs) == 0 {
		if err := start(); err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithCancel(parent)
		return ctx, cancel, nil
	}

	signal.Ignore(sigs...)
	err := start()
	ctx, stop := signal.NotifyContext(parent, sigs...)
	if err != nil {
		stop()
		return nil, nil, err
	}
	return ctx, stop, nil
}
