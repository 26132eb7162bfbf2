package console

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner animates a single status line on stderr while a network call runs.
// On non-terminals and in accessible mode Start and Stop are no-ops.
type Spinner struct {
	message string
	frames  []string
	fps     time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewSpinner creates a spinner showing message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		frames:  spinner.Dot.Frames,
		fps:     spinner.Dot.FPS,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !isTTY() || IsAccessibleMode() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()
	<-done
}

func (s *Spinner) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.fps)
	defer ticker.Stop()
	for i := 0; ; i++ {
		fmt.Fprintf(os.Stderr, "\r%s %s", applyStyle(infoStyle, s.frames[i%len(s.frames)]), s.message)
		select {
		case <-stop:
			fmt.Fprint(os.Stderr, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}
