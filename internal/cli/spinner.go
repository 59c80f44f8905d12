package cli

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// spinnerStyle is the braille dot set of progressbar's spinner types.
const spinnerStyle = 14

// Spinner is a progress indicator for long steps (layout, rendering) that
// stops when its context is cancelled.
type Spinner struct {
	bar     *progressbar.ProgressBar
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	started bool
	once    sync.Once
}

// newSpinner creates an indeterminate progress bar writing to w.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(spinnerStyle),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
	)
	return &Spinner{
		bar:     bar,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				_ = s.bar.Clear()
				return
			case <-ticker.C:
				_ = s.bar.Add(1)
			}
		}
	}()
}

// Stop halts the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}
	})
}

// Cancelled reports whether the spinner's context has ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// withSpinner runs fn while a spinner shows message on the CLI's error writer.
func (c *CLI) withSpinner(ctx context.Context, message string, fn func() error) error {
	s := newSpinner(ctx, c.Err, message)
	s.Start()
	err := fn()
	s.Stop()
	return err
}
