// Package log is a small level-based logger in the style of onet's own
// log package: numbered debug levels instead of named ones, optional
// color, and a pluggable Logger interface so additional sinks (e.g. the
// telemetry span logger) can piggy-back on every log call without every
// caller knowing about them.
package log

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	ct "github.com/daviddengcn/go-colortext"
)

// Logger is the interface additional log sinks implement. Log receives
// the already-formatted message along with the numeric level that
// produced it (negative levels are reserved for Info/Warn/Error/Fatal/Panic,
// see the lvl* constants below).
type Logger interface {
	Log(level int, msg string)
	Close()
}

const (
	lvlPrint = 0
	lvlInfo  = -1
	lvlWarn  = -2
	lvlError = -3
	lvlFatal = -4
	lvlPanic = -5
)

var (
	mu         sync.Mutex
	debugLvl   int32 = 1
	useColors  bool
	showTime   bool
	extra      = map[int]Logger{}
	extraNext  int
	stdOut     = os.Stdout
	stdErr     = os.Stderr
)

// SetDebugVisible sets the process-wide debug level. Calls at Lvl(n) with
// n > lvl are discarded.
func SetDebugVisible(lvl int) {
	atomic.StoreInt32(&debugLvl, int32(lvl))
}

// DebugVisible returns the current process-wide debug level.
func DebugVisible() int {
	return int(atomic.LoadInt32(&debugLvl))
}

// SetUseColors turns colorized output on or off. Off by default, matching
// the teacher's default for non-interactive use.
func SetUseColors(on bool) {
	mu.Lock()
	defer mu.Unlock()
	useColors = on
}

// SetShowTime turns a leading RFC3339 timestamp on each line on or off.
func SetShowTime(on bool) {
	mu.Lock()
	defer mu.Unlock()
	showTime = on
}

// RegisterLogger adds l as an additional sink that receives a copy of
// every formatted message. It returns a key usable with UnregisterLogger.
func RegisterLogger(l Logger) int {
	mu.Lock()
	defer mu.Unlock()
	key := extraNext
	extraNext++
	extra[key] = l
	return key
}

// UnregisterLogger closes and removes the sink registered under key.
func UnregisterLogger(key int) {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := extra[key]; ok {
		l.Close()
		delete(extra, key)
	}
}

func emit(level int, msg string) {
	line := msg
	if showTime {
		line = time.Now().Format(time.RFC3339) + " " + line
	}
	mu.Lock()
	color := colorFor(level)
	if useColors && color != 0 {
		bright := level < 0
		ct.Foreground(color, bright)
	}
	w := stdOut
	if level < lvlInfo {
		w = stdErr
	}
	fmt.Fprintln(w, line)
	if useColors && color != 0 {
		ct.ResetColor()
	}
	sinks := make([]Logger, 0, len(extra))
	for _, l := range extra {
		sinks = append(sinks, l)
	}
	mu.Unlock()

	for _, l := range sinks {
		l.Log(level, line)
	}
}

func colorFor(level int) ct.Color {
	switch {
	case level == lvlWarn:
		return ct.Yellow
	case level == lvlError, level == lvlFatal, level == lvlPanic:
		return ct.Red
	case level == lvlInfo, level == lvlPrint:
		return ct.White
	case level > 0 && level <= 5:
		colors := []ct.Color{ct.Cyan, ct.Blue, ct.Green, ct.Magenta, ct.Cyan}
		return colors[level-1]
	}
	return 0
}

func sprint(args ...interface{}) string {
	return fmt.Sprint(args...)
}

func sprintf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// Lvl1..Lvl5 log at increasing verbosity; a call is discarded unless
// DebugVisible() >= level.
func Lvl1(args ...interface{}) { lvl(1, args...) }
func Lvl2(args ...interface{}) { lvl(2, args...) }
func Lvl3(args ...interface{}) { lvl(3, args...) }
func Lvl4(args ...interface{}) { lvl(4, args...) }
func Lvl5(args ...interface{}) { lvl(5, args...) }

// Lvlf1..Lvlf5 are the Printf-style counterparts of Lvl1..Lvl5.
func Lvlf1(format string, args ...interface{}) { lvl(1, sprintf(format, args...)) }
func Lvlf2(format string, args ...interface{}) { lvl(2, sprintf(format, args...)) }
func Lvlf3(format string, args ...interface{}) { lvl(3, sprintf(format, args...)) }
func Lvlf4(format string, args ...interface{}) { lvl(4, sprintf(format, args...)) }
func Lvlf5(format string, args ...interface{}) { lvl(5, sprintf(format, args...)) }

func lvl(level int, args ...interface{}) {
	if level > DebugVisible() {
		return
	}
	emit(level, sprint(args...))
}

// Info logs unconditionally at the informational level.
func Info(args ...interface{}) { emit(lvlInfo, sprint(args...)) }

// Warn logs a recoverable condition.
func Warn(args ...interface{}) { emit(lvlWarn, sprint(args...)) }

// Warnf is the Printf-style counterpart of Warn.
func Warnf(format string, args ...interface{}) { emit(lvlWarn, sprintf(format, args...)) }

// Error logs a dropped frame or failed operation. Per spec.md §7,
// control-plane and dispatcher errors are logged here and then dropped;
// they never propagate.
func Error(args ...interface{}) { emit(lvlError, sprint(args...)) }

// Errorf is the Printf-style counterpart of Error.
func Errorf(format string, args ...interface{}) { emit(lvlError, sprintf(format, args...)) }

// Fatal logs and terminates the process.
func Fatal(args ...interface{}) {
	emit(lvlFatal, sprint(args...))
	os.Exit(1)
}

// Fatalf is the Printf-style counterpart of Fatal.
func Fatalf(format string, args ...interface{}) {
	emit(lvlFatal, sprintf(format, args...))
	os.Exit(1)
}

// Panic logs and then panics with the same message.
func Panic(args ...interface{}) {
	msg := sprint(args...)
	emit(lvlPanic, msg)
	panic(msg)
}
