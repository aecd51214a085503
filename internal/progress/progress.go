// Package progress shows a terminal spinner while a pipeline stage runs and
// reports the stage's wall time when it finishes.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Reporter runs one spinner at a time, one per stage.
type Reporter struct {
	ctx     context.Context
	writer  io.Writer
	enabled bool
	observe func(stage string, elapsed time.Duration)

	mu      sync.Mutex
	current *spinner
}

// New creates a reporter writing to w. When enabled is false no output is
// written but stages are still timed.
func New(ctx context.Context, w io.Writer, enabled bool) *Reporter {
	return &Reporter{ctx: ctx, writer: w, enabled: enabled}
}

// Interactive reports whether w is a terminal, the only place a spinner makes sense.
func Interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// OnStage registers fn to receive the duration of every finished stage.
func (r *Reporter) OnStage(fn func(stage string, elapsed time.Duration)) {
	r.observe = fn
}

// Stage starts the spinner with message and returns the function that
// stops it. A stage still running when a new one starts is stopped first.
func (r *Reporter) Stage(name, message string) (done func()) {
	r.mu.Lock()
	if r.current != nil {
		r.current.stop()
	}
	var s *spinner
	if r.enabled {
		s = newSpinner(r.ctx, r.writer, message)
		s.start()
	}
	r.current = s
	r.mu.Unlock()

	start := time.Now()
	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			if s != nil {
				s.stop()
			}
			if r.current == s {
				r.current = nil
			}
			r.mu.Unlock()
			if r.observe != nil {
				r.observe(name, time.Since(start))
			}
		})
	}
}

type spinner struct {
	frames  []string
	delay   time.Duration
	writer  io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped bool
}

func newSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &spinner{
		frames:  []string{"◜", "◠", "◝", "◞", "◡", "◟"},
		delay:   100 * time.Millisecond,
		writer:  w,
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
	}
}

func (s *spinner) start() {
	s.wg.Add(1)
	go s.run()
}

// stop ends the animation and clears the line; callers hold Reporter.mu.
func (s *spinner) stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.cancel()
	s.wg.Wait()

	if f, ok := s.writer.(*os.File); ok && isTerminal(f) {
		fmt.Fprint(s.writer, "\r\033[2K")
	} else {
		fmt.Fprint(s.writer, "\r")
	}
}

func (s *spinner) run() {
	defer s.wg.Done()

	frameIndex := 0
	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			frame := s.frames[frameIndex%len(s.frames)]
			fmt.Fprintf(s.writer, "\r%s %s", frame, s.message)
			frameIndex++
		}
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
