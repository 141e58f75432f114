// Package dbg is the emulator's internal trace logger. Logging is compiled
// in only for `-tags debug` builds; a release build carries the same call
// sites but they cost a single no-op method call each.
package dbg

import "io"

// DebugLogger is an interface that defines our debug logging functions.
// This allows us to have different implementations based on build tags.
type DebugLogger interface {
	Printf(format string, a ...interface{})
	Println(a ...interface{})
	Logf(tag, format string, a ...interface{})
	Log(tag, message string)
	Write(w io.Writer) error
}

// Global variable for our debug logger instance.
// This will be initialized by either debug-log.go or nodebug-log.go depending on build tags.
var debugLog DebugLogger

func Printf(format string, a ...interface{}) {
	debugLog.Printf(format, a...)
}

func Println(a ...interface{}) {
	debugLog.Println(a...)
}

// Logf records a tagged, formatted trace entry (eg. "dma", "fired channel %d").
func Logf(tag, format string, a ...interface{}) {
	debugLog.Logf(tag, format, a...)
}

// Log records a tagged trace entry verbatim.
func Log(tag, message string) {
	debugLog.Log(tag, message)
}

// Write dumps every entry recorded so far to w, oldest first.
func Write(w io.Writer) error {
	return debugLog.Write(w)
}
