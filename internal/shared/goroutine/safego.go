// Package goroutine provides utilities for launching goroutines with panic
// recovery, used for best-effort side effects that must not crash the process.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"sokofiti/internal/shared/logger"
)

// SafeGo launches fn in a goroutine with panic recovery. A panic is logged
// with its stack trace instead of taking the process down.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
