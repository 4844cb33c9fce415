package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("scanned") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("scanner run") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("scanner run") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level, ""))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel, "JSON").Info("merged", "nodes", 4)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %q (%v)", buf.String(), err)
	}
	if entry["msg"] != "merged" {
		t.Errorf("msg = %v, want merged", entry["msg"])
	}
	if entry["nodes"] != float64(4) {
		t.Errorf("nodes = %v, want 4", entry["nodes"])
	}
}

func TestNewLoggerLogfmt(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel, "logfmt").Info("rendered", "format", "svg")
	if !strings.Contains(buf.String(), "format=svg") {
		t.Errorf("logfmt output = %q, want format=svg", buf.String())
	}
}

func TestParseLogFormat(t *testing.T) {
	tests := map[string]log.Formatter{
		"":        log.TextFormatter,
		"text":    log.TextFormatter,
		" json ":  log.JSONFormatter,
		"LOGFMT":  log.LogfmtFormatter,
		"unknown": log.TextFormatter,
	}
	for in, want := range tests {
		if got := parseLogFormat(in); got != want {
			t.Errorf("parseLogFormat(%q) = %v, want %v", in, got, want)
		}
	}
}
