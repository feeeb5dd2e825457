package workouts

import (
	"context"
	"time"
)

// Elapsed is recomputed from the persisted start so it survives reloads.
// For a completed workout it is the stored duration.
func Elapsed(w Workout, now time.Time) time.Duration {
	if w.CompletedAt != nil {
		if w.DurationSeconds != nil {
			return time.Duration(*w.DurationSeconds) * time.Second
		}
		return w.CompletedAt.Sub(w.StartedAt)
	}
	elapsed := now.Sub(w.StartedAt)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Tick calls fn with the time elapsed since startedAt right away and then every interval,
// until ctx is done or fn fails.
func Tick(ctx context.Context, startedAt time.Time, every time.Duration, fn func(elapsed time.Duration) error) error {
	elapsed := func() time.Duration {
		if d := time.Since(startedAt); d > 0 {
			return d
		}
		return 0
	}

	if err := fn(elapsed()); err != nil {
		return err
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := fn(elapsed()); err != nil {
				return err
			}
		}
	}
}
