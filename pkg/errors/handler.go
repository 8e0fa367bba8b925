package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type handlerSlot struct{ h ErrorHandler }

var current atomic.Pointer[handlerSlot]

func init() { current.Store(&handlerSlot{h: &LogHandler{}}) }

// Handler returns the handler that Report and ReportPanic deliver to.
func Handler() ErrorHandler { return current.Load().h }

// SetHandler installs h and returns the handler it replaces, so tests can
// restore it with a deferred call. Nil installs a fresh LogHandler.
func SetHandler(h ErrorHandler) (previous ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	return current.Swap(&handlerSlot{h: h}).h
}

// Report stamps err with the current time if it has none and hands it to
// the installed handler. Nil is ignored.
func Report(err *StageError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandleError(err)
}

// ReportPanic is Report for recovered panics.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandlePanic(err)
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

// Recover reports a panic in progress. Call it deferred:
//
//	defer errors.Recover("node.Load")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(recovered(op, r))
	}
}

// RecoverWithCallback reports a panic in progress and then passes it to fn,
// which typically turns it into the surrounding function's error result.
func RecoverWithCallback(op string, fn func(err *PanicError)) {
	r := recover()
	if r == nil {
		return
	}
	pe := recovered(op, r)
	ReportPanic(pe)
	if fn != nil {
		fn(pe)
	}
}

func recovered(op string, value any) *PanicError {
	return &PanicError{Op: op, Value: value, StackTrace: CaptureStack(), Timestamp: time.Now()}
}

// stackDepth bounds the frames CaptureStack records.
const stackDepth = 32

// recoverHelpers are left out of captured stacks.
var recoverHelpers = map[string]bool{
	"github.com/go-drift/stage/pkg/errors.recovered":           true,
	"github.com/go-drift/stage/pkg/errors.Recover":             true,
	"github.com/go-drift/stage/pkg/errors.RecoverWithCallback": true,
}

// CaptureStack formats the caller's stack, one "function (file:line)" per
// line, starting with the caller.
func CaptureStack() string {
	pcs := make([]uintptr, stackDepth)
	pcs = pcs[:runtime.Callers(2, pcs)]

	var sb strings.Builder
	frames := runtime.CallersFrames(pcs)
	for more := len(pcs) > 0; more; {
		var f runtime.Frame
		f, more = frames.Next()
		if recoverHelpers[f.Function] {
			continue
		}
		fmt.Fprintf(&sb, "%s (%s:%d)\n", f.Function, f.File, f.Line)
	}
	return sb.String()
}
