package scheduling

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunner_AddRejectsNonPositiveInterval(t *testing.T) {
	r := NewRunner(zerolog.Nop())
	err := r.Add(Job{Name: "sweep", Run: func(context.Context, time.Time) error { return nil }})
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestRunner_RunsUntilCancelled(t *testing.T) {
	r := NewRunner(zerolog.Nop())

	var runs atomic.Int32
	if err := r.Add(Job{
		Name:     "sweep",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context, time.Time) error {
			runs.Add(1)
			return nil
		},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	deadline := time.After(2 * time.Second)
	for runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("job ran %d times, expected at least 2", runs.Load())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	r.Wait()
}

func TestRunner_RunOnceSurvivesErrors(t *testing.T) {
	r := NewRunner(zerolog.Nop())
	fixed := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	var got time.Time
	r.RunOnce(context.Background(), Job{
		Name: "sweep",
		Run: func(_ context.Context, now time.Time) error {
			got = now
			return errors.New("storage unavailable")
		},
	})

	if !got.Equal(fixed) {
		t.Errorf("expected job to receive %v, got %v", fixed, got)
	}
}
