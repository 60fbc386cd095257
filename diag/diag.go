// Package diag provides the diagnostics context threaded through the codec:
// a call-chain of frame names for log messages, plus a caller-supplied
// severity sink. It replaces the process-wide verbosity level and
// last-error statics of the original C implementation with a value that
// the caller owns, so concurrent callers never share mutable state.
package diag

import "fmt"

// Severity mirrors the six levels of the original syslog-style sink.
type Severity int

// Severity levels, in increasing verbosity.
const (
	Nothing Severity = 0
	Error   Severity = 1
	Warning Severity = 2
	Info    Severity = 3
	Message Severity = 4
	All     Severity = 99
)

func (s Severity) String() string {
	switch s {
	case Nothing:
		return "nothing"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Message:
		return "message"
	case All:
		return "all"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Sink receives a diagnostic message. chain is the call chain from the
// innermost frame to the outermost, oldest last. Message text is
// informational only; no property of the codec depends on it.
type Sink func(severity Severity, message string, chain []string)

// A Frame is one stack-allocated entry in the call chain. Frames are
// pushed by Context.Push and are only ever referenced by the Context that
// created them and its descendants; the codec never retains a Frame past
// the return of the call that pushed it.
type Frame struct {
	name   string
	parent *Frame
}

// Context is the diagnostics context passed down the call tree. The zero
// value is a valid, silent context: a nil Sink is simply never invoked.
type Context struct {
	frame      *Frame
	sink       Sink
	exitCode   int
	shouldExit bool
}

// New returns a root Context reporting to sink. sink may be nil.
func New(sink Sink) *Context {
	return &Context{sink: sink}
}

// Push returns a child Context with name appended to the call chain. The
// original call chain is unaffected; callers typically shadow their local
// ctx variable with the result, scoping the frame to the current function.
func (c *Context) Push(name string) *Context {
	if c == nil {
		return &Context{frame: &Frame{name: name}}
	}
	return &Context{
		frame:      &Frame{name: name, parent: c.frame},
		sink:       c.sink,
		exitCode:   c.exitCode,
		shouldExit: c.shouldExit,
	}
}

// Chain returns the call chain from innermost to outermost frame name.
func (c *Context) Chain() []string {
	if c == nil {
		return nil
	}
	var chain []string
	for f := c.frame; f != nil; f = f.parent {
		chain = append(chain, f.name)
	}
	return chain
}

// Logf reports a formatted diagnostic message at the given severity. It is
// a no-op if c is nil or c's sink is nil.
func (c *Context) Logf(severity Severity, format string, args ...interface{}) {
	if c == nil || c.sink == nil {
		return
	}
	c.sink(severity, fmt.Sprintf(format, args...), c.Chain())
}

// RequestExit records that the caller's diagnostic sink asked for the host
// process to exit with the given code. The codec never calls this itself;
// it exists so a sink invoked via Logf can signal intent without the
// library terminating the process on the caller's behalf (the original C
// logerror_exit called exit() directly).
func (c *Context) RequestExit(code int) {
	if c == nil {
		return
	}
	c.shouldExit = true
	c.exitCode = code
}

// ShouldExit reports whether RequestExit was called on this Context, or on
// an ancestor before this Context was derived from it, and the code it was
// called with. A request made on an ancestor after the derivation, or on a
// descendant, is not seen here.
func (c *Context) ShouldExit() (code int, ok bool) {
	if c == nil {
		return 0, false
	}
	return c.exitCode, c.shouldExit
}
