package mcp

import (
	"context"
	"os"
	"time"

	"github.com/77QAlab/LogMiner-QA/internal/logging"
)

// parentPollInterval is how often the watchdog checks the parent PID.
const parentPollInterval = 2 * time.Second

// WatchParent monitors for parent process death in a background
// goroutine and calls cancelFn when the parent PID changes, so orphaned
// stdio servers do not accumulate after the spawning agent exits.
//
// IMPORTANT: this must NOT read from stdin — the MCP SDK's stdio
// transport owns stdin exclusively, and stealing bytes from it would
// corrupt the JSON-RPC stream. Polling the PPID is the only signal
// used.
//
// The goroutine exits when ctx is canceled or parent death is detected.
func WatchParent(ctx context.Context, cancelFn context.CancelFunc) {
	log := logging.New("mcp")
	ppid := os.Getppid()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(parentPollInterval):
				if os.Getppid() != ppid {
					log.Warn("parent process died, initiating shutdown", "was_pid", ppid)
					cancelFn()
					return
				}
			}
		}
	}()
}
