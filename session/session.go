// Package session tracks one editing workspace: the uploaded source image,
// the operation in flight and the latest result.
//
//	Idle -> Uploaded -> Processing -> Result -> Uploaded (EditMore)
//	                        |                -> Idle (Reset)
//	                        +-> Uploaded on failure or cancellation
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"pixelstudio/eraser"
	"pixelstudio/pixbuf"
	"pixelstudio/upscale"

	"github.com/pkg/errors"
)

type State int

const (
	Idle State = iota
	Uploaded
	Processing
	Result
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Uploaded:
		return "uploaded"
	case Processing:
		return "processing"
	case Result:
		return "result"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrBusy is returned when an operation is requested while another one
	// is still running.
	ErrBusy = errors.New("an operation is already in progress")
	// ErrState is returned when the requested transition is not allowed
	// from the current state.
	ErrState = errors.New("operation not allowed in current state")
)

// Operation turns the current source into a result.
type Operation func(src *pixbuf.Buffer) (*pixbuf.Buffer, error)

type Session struct {
	mu     sync.Mutex
	logger *slog.Logger

	state  State
	source *pixbuf.Buffer
	result *pixbuf.Buffer
	err    error

	// gen invalidates in-flight operations when the source changes.
	gen uint64
}

func New(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{logger: logger}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error of the last failed upload or operation, cleared by
// the next successful transition.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Source() *pixbuf.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *Session) Result() *pixbuf.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Upload decodes r and makes it the new source. Any result or in-flight
// operation is discarded. On failure the session keeps its previous state.
func (s *Session) Upload(ctx context.Context, r io.Reader) error {
	buf, format, err := pixbuf.Decode(ctx, r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err
		s.logger.Error("could not load image", "error", err)
		return err
	}

	s.gen++
	s.state = Uploaded
	s.source = buf
	s.result = nil
	s.err = nil
	s.logger.Info("image loaded", "format", format, "width", buf.Width, "height", buf.Height)
	return nil
}

// Load installs an already decoded buffer as the source.
func (s *Session) Load(buf *pixbuf.Buffer) error {
	if err := buf.Validate(); err != nil {
		return pixbuf.Reclassify(pixbuf.ErrInvalidImage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.state = Uploaded
	s.source = buf
	s.result = nil
	s.err = nil
	return nil
}

func (s *Session) Upscale(ctx context.Context, opts upscale.Options) (*pixbuf.Buffer, error) {
	return s.Run(ctx, "upscale", func(src *pixbuf.Buffer) (*pixbuf.Buffer, error) {
		return upscale.Upscale(src, opts)
	})
}

func (s *Session) Erase(ctx context.Context, mask *eraser.Mask, brushSize int) (*pixbuf.Buffer, error) {
	return s.Run(ctx, "erase", func(src *pixbuf.Buffer) (*pixbuf.Buffer, error) {
		return eraser.Erase(src, mask, brushSize)
	})
}

// Run applies op to the current source. The operation runs on its own
// goroutine so that cancelling ctx returns immediately; a result that
// arrives after cancellation or after a new upload is dropped.
func (s *Session) Run(ctx context.Context, name string, op Operation) (*pixbuf.Buffer, error) {
	s.mu.Lock()
	switch s.state {
	case Processing:
		s.mu.Unlock()
		return nil, ErrBusy
	case Idle:
		s.mu.Unlock()
		return nil, errors.Wrapf(ErrState, "%s: no image loaded", name)
	}
	s.state = Processing
	s.err = nil
	gen := s.gen
	src := s.source
	s.mu.Unlock()

	logger := s.logger.With("op", name)
	logger.Info("processing", "width", src.Width, "height", src.Height)

	type outcome struct {
		buf *pixbuf.Buffer
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		buf, err := op(src)
		done <- outcome{buf, err}
	}()

	var res outcome
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		logger.Info("discarding stale result")
		if res.err == nil {
			res.err = errors.Wrapf(ErrState, "%s: source replaced while processing", name)
		}
		return nil, res.err
	}

	if res.err != nil {
		s.state = Uploaded
		s.err = res.err
		logger.Error("could not process image", "error", res.err)
		return nil, res.err
	}

	s.state = Result
	s.result = res.buf
	logger.Info("processed", "width", res.buf.Width, "height", res.buf.Height)
	return res.buf, nil
}

// EditMore promotes the latest result to be the source of the next
// operation.
func (s *Session) EditMore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Result {
		return errors.Wrapf(ErrState, "edit more from %s", s.state)
	}

	s.gen++
	s.source = s.result
	s.result = nil
	s.state = Uploaded
	return nil
}

// Reset drops every buffer and returns to Idle.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.state = Idle
	s.source = nil
	s.result = nil
	s.err = nil
}
