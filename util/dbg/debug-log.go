//go:build debug
// +build debug

package dbg

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type entry struct {
	tag     string
	message string
}

type debugLoggerImpl struct {
	logger *log.Logger

	mu      sync.Mutex
	entries []entry
}

// init function for the debug build.
// This will be called when the 'debug' tag is active.
func init() {
	// Initialize the global debugLog variable with the actual logging implementation.
	// We use log.New to create a logger that writes to stderr (or any io.Writer)
	// and includes file/line number for easy debugging.
	debugLog = &debugLoggerImpl{
		logger: log.New(os.Stderr, "", log.Lshortfile),
	}
}

// Printf implements the Printf method of the DebugLogger interface.
func (d *debugLoggerImpl) Printf(format string, a ...interface{}) {
	d.logger.Output(3, fmt.Sprintf(format, a...)) // calldepth 3 to get caller's file/line
}

// Println implements the Println method of the DebugLogger interface.
func (d *debugLoggerImpl) Println(a ...interface{}) {
	d.logger.Output(3, fmt.Sprintln(a...)) // calldepth 3 to get caller's file/line
}

func (d *debugLoggerImpl) Logf(tag, format string, a ...interface{}) {
	d.Log(tag, fmt.Sprintf(format, a...))
}

func (d *debugLoggerImpl) Log(tag, message string) {
	d.mu.Lock()
	d.entries = append(d.entries, entry{tag: tag, message: message})
	d.mu.Unlock()
	d.logger.Output(3, fmt.Sprintf("%s: %s", tag, message))
}

func (d *debugLoggerImpl) Write(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.entries {
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.tag, e.message); err != nil {
			return err
		}
	}
	return nil
}
