package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner shows the current pipeline stage on a single terminal line while
// a command runs. On a writer that is not a terminal it stays silent, so
// piped output and tests see only the final result lines.
type spinner struct {
	w    io.Writer
	live bool

	mu      sync.Mutex
	message string
	drawn   int // width of the last frame, for clearing

	stop     chan struct{}
	finished chan struct{}
	once     sync.Once
	ctx      context.Context
}

// startSpinner starts a spinner on w. It stops on its own when ctx is
// cancelled; callers still call Stop to wait for the line to be cleared.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	s := &spinner{
		w:        w,
		live:     isTerminal(w),
		message:  message,
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
		ctx:      ctx,
	}
	go s.run()
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (s *spinner) run() {
	defer close(s.finished)
	if !s.live {
		select {
		case <-s.stop:
		case <-s.ctx.Done():
		}
		return
	}

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		s.draw(spinnerFrames[i%len(spinnerFrames)])
		select {
		case <-s.stop:
			s.clear()
			return
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
		}
	}
}

// Update replaces the message shown next to the spinner.
func (s *spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Message returns the current message.
func (s *spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stop halts the animation and clears the line. It is safe to call more
// than once.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.finished
}

// Cancelled reports whether the spinner ended because its context was
// cancelled.
func (s *spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := StyleHighlight.Render(frame) + " " + StyleDim.Render(s.message)
	pad := ""
	if n := len(s.message) + 2; n < s.drawn {
		pad = strings.Repeat(" ", s.drawn-n)
	}
	fmt.Fprintf(s.w, "\r%s%s", line, pad)
	s.drawn = len(s.message) + 2
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
}
