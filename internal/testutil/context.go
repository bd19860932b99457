// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds a test context when the caller passes zero.
const DefaultTimeout = 5 * time.Second

// Context returns a context cancelled at test cleanup. It expires after
// timeout, or earlier when the test binary's own deadline is closer.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	if deadline, ok := t.Deadline(); ok {
		// Leave a second for the runner to report the failure.
		var cancelDeadline context.CancelFunc
		ctx, cancelDeadline = context.WithDeadline(ctx, deadline.Add(-time.Second))
		t.Cleanup(cancelDeadline)
	}
	return ctx
}
