package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// elapsedAfter is how long a stage runs before the spinner starts showing
// elapsed time. Crossing reduction on large graphs can take a while; the
// suffix shows the run is alive without cluttering quick stages.
const elapsedAfter = 2 * time.Second

// Spinner is a single-line progress indicator for pipeline stages. The
// message can be relabeled while the spinner runs, so commands that walk
// several graphs or stages (layout, write, each gallery example) reuse one
// spinner instead of flickering through many.
type Spinner struct {
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	start   time.Time

	mu      sync.Mutex
	message string
	width   int // widest line drawn so far, for clearing
}

// newSpinnerWithContext creates a spinner that stops when ctx is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		start:   time.Now(),
		message: message,
	}
}

// SetMessage relabels the spinner for the next stage or graph. The new text
// appears on the next animation frame.
func (s *Spinner) SetMessage(format string, args ...any) {
	s.mu.Lock()
	s.message = fmt.Sprintf(format, args...)
	s.mu.Unlock()
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.render(s.frames[i%len(s.frames)])
				i++
			}
		}
	}()
}

// render draws one frame: icon, current message, and the elapsed time once
// the run has been going long enough to warrant it.
func (s *Spinner) render(frame string) {
	s.mu.Lock()
	line := styleIconSpinner.Render(frame) + " " + styleDim.Render(s.message)
	plainWidth := len(s.message) + 2
	if elapsed := time.Since(s.start); elapsed >= elapsedAfter {
		suffix := fmt.Sprintf(" %s", elapsed.Truncate(time.Second))
		line += styleDim.Render(suffix)
		plainWidth += len(suffix)
	}
	if plainWidth > s.width {
		s.width = plainWidth
	}
	fmt.Fprintf(os.Stderr, "\r%s", line)
	s.mu.Unlock()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

// StopWithError stops the spinner and prints an error message in its place.
func (s *Spinner) StopWithError(msg string) {
	s.Stop()
	printError("%s", msg)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", s.width+2))
}
