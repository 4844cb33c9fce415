package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrNetwork marks backend connection failures.
	ErrNetwork = errors.New("network error")
)

// transient wraps an error that [Backoff.Retry] should try again. The
// message and the chain are those of the wrapped error.
type transient struct{ error }

func (t transient) Unwrap() error { return t.error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return transient{err}
}

// IsRetryable reports whether err was marked with [Retryable] anywhere in
// its chain.
func IsRetryable(err error) bool {
	return errors.As(err, new(transient))
}

// Backoff is a retry policy. Pauses start at Base and double after every
// failed attempt.
type Backoff struct {
	Attempts int
	Base     time.Duration
}

// DefaultBackoff is what the Redis backend uses: up to three attempts with
// 100ms and 200ms pauses in between.
var DefaultBackoff = Backoff{Attempts: 3, Base: 100 * time.Millisecond}

// Retry runs fn until it returns nil or a non-retryable error, or until the
// attempts are used up, and returns fn's last error. Cancelling ctx ends a
// pause early with ctx.Err().
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	err := fn()
	for left, pause := max(b.Attempts, 1)-1, b.Base; left > 0 && IsRetryable(err); left, pause = left-1, pause*2 {
		if werr := sleep(ctx, pause); werr != nil {
			return werr
		}
		err = fn()
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
