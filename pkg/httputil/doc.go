// Package httputil provides retry support shared by engine consumers.
//
// # Retry
//
// [Retry] wraps an operation with automatic retry for transient failures.
// Only errors wrapped in [RetryableError] are retried; everything else
// returns immediately. The http engine transport marks connection failures
// and 5xx answers retryable, so callers opt in like this:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    _, err := transport.Exchange(ctx, doc)
//	    return err
//	})
//
// The delay doubles after each failed attempt.
//
// # Who retries
//
// The layout core never retries on its own: a layout run is not implicitly
// idempotent work to repeat behind the caller's back. Retry is an explicit
// choice at the edges. The pipeline runner wraps engine exchanges in [Retry]
// only when the caller asked for attempts via its retry option, which is
// where the CLI's --retries flag ends up.
package httputil
