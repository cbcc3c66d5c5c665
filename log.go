package modbus

import (
	"fmt"
	"os"
)

// InfoLogFunc and DebugLogFunc receive the package's diagnostic lines
// (serial port open, per-exchange Tx/Rx frame bytes). Assign
// your own, e.g. log.Printf, to route them elsewhere; the defaults
// write to stderr. DebugLogFunc is only invoked when SetDebug(true) has
// been called.
var (
	InfoLogFunc  = func(format string, a ...any) { fmt.Fprintf(os.Stderr, format+"\n", a...) }
	DebugLogFunc = func(format string, a ...any) { fmt.Fprintf(os.Stderr, format+"\n", a...) }
)

var debugEnabled = false

// SetDebug turns on per-transaction debug logging (the raw bytes of
// every transmitted and received frame).
func SetDebug(on bool) {
	debugEnabled = on
}

func logf(format string, a ...any) {
	InfoLogFunc(format, a...)
}

func debugLog(format string, a ...any) {
	if debugEnabled {
		DebugLogFunc("D:"+format, a...)
	}
}

// Log captures the messages produced through InfoLogFunc/DebugLogFunc
// while it is active. Tests install one with NewLog to assert on the
// exact diagnostic output of an exchange.
type Log struct {
	Msgs []string
}

// NewLog installs recording InfoLogFunc/DebugLogFunc and returns the
// handle that accumulates every message logged from this point on.
func NewLog() *Log {
	l := &Log{}
	InfoLogFunc = func(format string, a ...any) {
		l.Msgs = append(l.Msgs, fmt.Sprintf(format, a...))
	}
	DebugLogFunc = func(format string, a ...any) {
		l.Msgs = append(l.Msgs, fmt.Sprintf(format, a...))
	}
	return l
}
