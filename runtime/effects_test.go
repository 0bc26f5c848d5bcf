package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/odvcencio/furry-grid/store"
)

func TestAfter_Immediate(t *testing.T) {
	calls := 0
	effect := After(0, InvalidateMsg{})
	effect.Run(context.Background(), func(Message) bool {
		calls++
		return true
	})
	if calls != 1 {
		t.Fatalf("expected immediate post, got %d", calls)
	}
}

func TestAfter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	After(time.Hour, InvalidateMsg{}).Run(ctx, func(Message) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Fatalf("expected no post after cancellation, got %d", calls)
	}
}

func TestEvery_Invalid(t *testing.T) {
	calls := 0
	effect := Every(0, func(time.Time) Message { return InvalidateMsg{} })
	effect.Run(context.Background(), func(Message) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Fatalf("expected no posts for invalid interval, got %d", calls)
	}

	calls = 0
	effect = Every(10*time.Millisecond, nil)
	effect.Run(context.Background(), func(Message) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Fatalf("expected no posts for nil callback, got %d", calls)
	}
}

func TestRepeat_PostsActions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan Message, 1)
	go Repeat(time.Millisecond, store.RandomizeAll{}).Run(ctx, func(msg Message) bool {
		select {
		case got <- msg:
		default:
		}
		return true
	})

	select {
	case msg := <-got:
		am, ok := msg.(ActionMsg)
		if !ok || am.Action != (store.RandomizeAll{}) {
			t.Fatalf("expected RandomizeAll action message, got %#v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("expected repeat to post")
	}
}
