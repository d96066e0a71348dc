package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on w while a pipeline run is in flight and
// replaces it with a result line carrying the elapsed time. The animation
// stops on its own when ctx is cancelled.
type spinner struct {
	w       io.Writer
	message string
	start   time.Time

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// startSpinner starts animating message on w.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	s := &spinner{
		w:       w,
		message: message,
		start:   time.Now(),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

// halt stops the animation and clears the line. It is safe to call more
// than once.
func (s *spinner) halt() time.Duration {
	s.once.Do(func() { close(s.stop) })
	<-s.stopped

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	return time.Since(s.start).Round(time.Millisecond)
}

// succeed replaces the animation with msg and the elapsed time,
// e.g. "✓ Generated pill (12ms)".
func (s *spinner) succeed(msg string) {
	d := s.halt()
	fmt.Fprintf(s.w, "%s %s %s\n", styleIconSuccess.Render(iconSuccess), msg, StyleDim.Render("("+d.String()+")"))
}

// fail replaces the animation with msg.
func (s *spinner) fail(msg string) {
	s.halt()
	fmt.Fprintf(s.w, "%s %s\n", styleIconError.Render(iconError), msg)
}
