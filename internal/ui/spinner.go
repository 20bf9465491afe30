package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner is a lightweight loading indicator for non-TUI contexts.
type Spinner struct {
	w      io.Writer
	frames []string

	mu   sync.Mutex
	msg  string
	stop chan struct{}
	done chan struct{}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner that draws msg on w.
func NewSpinner(w io.Writer, msg string) *Spinner {
	return &Spinner{
		w:      w,
		frames: spinnerFrames,
		msg:    msg,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start begins the animation in a goroutine.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			s.mu.Lock()
			msg := s.msg
			s.mu.Unlock()
			frame := StyleChain.Render(s.frames[i%len(s.frames)])
			fmt.Fprintf(s.w, "\r%s  %s", frame, msg)

			select {
			case <-s.stop:
				fmt.Fprintf(s.w, "\r%-60s\r", "") // clear line
				return
			case <-ticker.C:
			}
		}
	}()
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop halts the spinner and waits for it to clear the line.
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}
