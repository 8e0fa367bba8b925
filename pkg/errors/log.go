package errors

import (
	"log/slog"
)

// LogHandler is an ErrorHandler that writes errors through slog.
type LogHandler struct {
	// Logger receives the records. Nil uses slog.Default().
	Logger *slog.Logger
	// Verbose adds stack traces to the records.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleError logs a StageError at error level.
func (h *LogHandler) HandleError(err *StageError) {
	if err == nil {
		return
	}
	attrs := []any{
		slog.String("op", err.Op),
		slog.String("kind", err.Kind.String()),
	}
	if err.Key != "" {
		attrs = append(attrs, slog.String("key", err.Key))
	}
	if err.Err != nil {
		attrs = append(attrs, slog.String("err", err.Err.Error()))
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	h.logger().Error("stage error", attrs...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{slog.Any("value", err.Value)}
	if err.Op != "" {
		attrs = append(attrs, slog.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	h.logger().Error("stage panic", attrs...)
}
