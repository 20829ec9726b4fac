package telemetry

import (
	"fmt"
	"log/slog"
)

// SlogAPI implements API using the log/slog package.
//
// A nil Logger falls back to slog.Default() at call time, so handlers installed
// after construction are still honored.
type SlogAPI struct {
	Logger *slog.Logger
}

func (s SlogAPI) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (SlogAPI) formatParams(out *[]any, params []any) {
	for i, p := range params {
		*out = append(
			*out,
			fmt.Sprintf("params.%d", i),
			p,
		)
	}
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	s.logger().Error("broken component", remainingPairs...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	s.logger().Warn("warning", remainingPairs...)
}

func (s SlogAPI) ReportInfo(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	s.logger().Info("info", remainingPairs...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	remainingPairs := []any{}
	s.formatParams(&remainingPairs, params)
	s.logger().Debug(message, remainingPairs...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	s.logger().Info("count", "id", id, "n", count)
}
