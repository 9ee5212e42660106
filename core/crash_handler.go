package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

// CrashResetter restores an output device before the crash report is printed
type CrashResetter interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashResetter CrashResetter
	crashExit     = os.Exit
)

// RegisterCrashResetter sets the device to restore on panic (the terminal screen), nil clears it
func RegisterCrashResetter(r CrashResetter) {
	crashMu.Lock()
	crashResetter = r
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the screen and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	resetter := crashResetter
	crashResetter = nil
	crashMu.Unlock()

	// Screen must be restored first or the report is drawn into the alternate buffer
	if resetter != nil {
		resetter.Fini()
	}

	os.Stdout.Sync()
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mVUMETER CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	crashExit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword so a crash never leaves the terminal in raw mode
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
