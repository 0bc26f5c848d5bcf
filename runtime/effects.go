package runtime

import (
	"context"
	"time"

	"github.com/odvcencio/furry-grid/store"
)

// PostFunc sends a message into the loop.
// It returns false if the message could not be queued.
type PostFunc func(Message) bool

// Effect runs work in a background goroutine.
// Use the provided context for cancellation and PostFunc to emit messages.
type Effect struct {
	Run func(ctx context.Context, post PostFunc)
}

// After posts msg once delay has elapsed. A non-positive delay posts
// immediately on the effect goroutine.
func After(delay time.Duration, msg Message) Effect {
	return Effect{
		Run: func(ctx context.Context, post PostFunc) {
			if msg == nil || post == nil {
				return
			}
			if delay <= 0 {
				post(msg)
				return
			}
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
			case <-timer.C:
				post(msg)
			}
		},
	}
}

// Every calls fn on a fixed interval and posts the message it returns.
// Returning nil from fn skips posting.
func Every(interval time.Duration, fn func(time.Time) Message) Effect {
	return Effect{
		Run: func(ctx context.Context, post PostFunc) {
			if interval <= 0 || fn == nil || post == nil {
				return
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-ticker.C:
					if msg := fn(now); msg != nil {
						post(msg)
					}
				}
			}
		},
	}
}

// Repeat dispatches action on a fixed interval.
func Repeat(interval time.Duration, action store.Action) Effect {
	return Every(interval, func(time.Time) Message {
		return ActionMsg{Action: action}
	})
}
