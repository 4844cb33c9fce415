package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// envLogFormat selects the log encoding: "text" (default), "json" or
// "logfmt". Machine formats are meant for serve running under a supervisor.
const envLogFormat = "ARCHGRAPH_LOG_FORMAT"

// newLogger creates the CLI logger. Text output carries a short wall-clock
// timestamp ("14:32:01.45"); json and logfmt carry the full RFC 3339 time.
func newLogger(w io.Writer, level log.Level, format string) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	}
	switch f := parseLogFormat(format); f {
	case log.JSONFormatter, log.LogfmtFormatter:
		opts.Formatter = f
		opts.TimeFormat = "2006-01-02T15:04:05.000Z07:00"
	}
	return log.NewWithOptions(w, opts)
}

func parseLogFormat(s string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
