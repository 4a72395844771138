// Package goroutine launches background work that must never take the process down.
package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"coursegate/internal/shared/logger"
)

// SafeGo runs fn in a goroutine, logging instead of crashing on panic.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer recoverAndLog(log, name)
		fn()
	}()
}

// Detached runs fn in a goroutine with a fresh context bounded by timeout.
// The caller's context is not inherited, so the work outlives the request
// that triggered it.
func Detached(log logger.Interface, name string, timeout time.Duration, fn func(ctx context.Context)) {
	SafeGo(log, name, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		fn(ctx)
	})
}

func recoverAndLog(log logger.Interface, name string) {
	if r := recover(); r != nil {
		log.Errorw("goroutine panicked",
			"goroutine", name,
			"panic", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		)
	}
}
