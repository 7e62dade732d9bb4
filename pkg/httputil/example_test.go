package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/elkscene/elkscene/pkg/httputil"
)

func ExampleRetry() {
	ctx := context.Background()

	calls := 0
	err := httputil.Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return &httputil.RetryableError{Err: fmt.Errorf("engine warming up")}
		}
		return nil
	})

	fmt.Println("calls:", calls)
	fmt.Println("err:", err)
	// Output:
	// calls: 2
	// err: <nil>
}

func ExampleRetry_permanentError() {
	ctx := context.Background()

	// Errors not wrapped in RetryableError fail immediately.
	calls := 0
	err := httputil.Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return fmt.Errorf("graph is malformed")
	})

	fmt.Println("calls:", calls)
	fmt.Println("err:", err)
	// Output:
	// calls: 1
	// err: graph is malformed
}
