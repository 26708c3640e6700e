package engine

import (
	"log"
	"time"
)

// RealClock is the production Clock implementation, satisfying
// genqueue.Clock by structural typing.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// StdLogger adapts the standard library's log package to every
// package's small Logger interface (Debug/Warn/Error with variadic
// key-value pairs), the teacher's own log.Printf-based style
// (network/broadcast.go) generalized into a structured call shape.
type StdLogger struct{}

func (StdLogger) Debug(msg string, kv ...any) { logKV("DEBUG", msg, kv) }
func (StdLogger) Warn(msg string, kv ...any)  { logKV("WARN", msg, kv) }
func (StdLogger) Error(msg string, kv ...any) { logKV("ERROR", msg, kv) }

func logKV(level, msg string, kv []any) {
	log.Printf("[%s] %s %v", level, msg, kv)
}
