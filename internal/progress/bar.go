package progress

import (
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// BarSink renders progress events on a terminal progress bar.
type BarSink struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewBarSink creates a sink backed by a full-width progress bar.
func NewBarSink(total int, description string) *BarSink {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
	return &BarSink{bar: bar}
}

func (s *BarSink) Progress(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.bar.Set(ev.Done)
}

// Done finishes the bar; the command prints its own summary line.
func (s *BarSink) Done(int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.bar.Finish()
	fmt.Println()
}

func (s *BarSink) Cancelled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Println("\nCancelled")
}
