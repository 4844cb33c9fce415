package cli

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSpinnerSilentOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Scanning shop")
	s.Update("Laying out 3 components")
	if got := s.Message(); got != "Laying out 3 components" {
		t.Errorf("Message() = %q", got)
	}
	s.Stop()
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q to a non-terminal writer", buf.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinner(ctx, &bytes.Buffer{}, "Rendering")
	cancel()

	select {
	case <-s.finished:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
	s.Stop()
}

func TestSpinnerDrawPadsShorterMessages(t *testing.T) {
	var buf bytes.Buffer
	s := &spinner{w: &buf, message: "Scanning a long project name"}
	s.draw("⠋")
	s.Update("Done")
	buf.Reset()
	s.draw("⠙")
	if !bytes.Contains(buf.Bytes(), []byte("Done")) {
		t.Errorf("frame %q does not contain the new message", buf.String())
	}
	if !bytes.HasSuffix(buf.Bytes(), bytes.Repeat([]byte(" "), len("Scanning a long project name")-len("Done"))) {
		t.Errorf("frame %q is not padded over the previous message", buf.String())
	}
}
