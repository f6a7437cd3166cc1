// File: internal/agent/stream.go
package agent

import (
	"context"
	"io"
	"time"
)

// Streamer writes assistant text to the user one character at a time, the
// way a person types. Cancellation is honored between characters, so a stop
// request never waits for a long reply to finish printing.
type Streamer struct {
	w     io.Writer
	sleep func(context.Context, time.Duration) error
}

// NewStreamer builds a streamer over the output sink.
func NewStreamer(w io.Writer) *Streamer {
	return &Streamer{w: w, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Stream prints the text rune by rune with the given per-character delay,
// followed by a newline. Returns the context error if interrupted.
func (s *Streamer) Stream(ctx context.Context, text string, delay time.Duration) error {
	for _, r := range text {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := io.WriteString(s.w, string(r)); err != nil {
			return err
		}
		if err := s.sleep(ctx, delay); err != nil {
			return err
		}
	}
	_, err := io.WriteString(s.w, "\n")
	return err
}

// Print writes the text at once, for progress notices that are not assistant
// speech.
func (s *Streamer) Print(text string) {
	io.WriteString(s.w, text+"\n")
}
