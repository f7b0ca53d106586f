package engine

import (
	"context"
	"time"
)

// SleepFunc is injectable so tests run without wall-clock waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Until polls pred once per interval for at most attempts tries and
// reports whether it ever held. Transient pred errors keep the poll
// alive; only cancellation surfaces as an error. Every "wait for the
// zone/interface/phase to flip" site goes through here.
func Until(ctx context.Context, attempts int, interval time.Duration, sleep SleepFunc, pred func(context.Context) (bool, error)) (bool, error) {
	for i := 0; i < attempts; i++ {
		ok, err := pred(ctx)
		if err == nil && ok {
			return true, nil
		}
		if err := sleep(ctx, interval); err != nil {
			return false, err
		}
	}
	return false, nil
}
