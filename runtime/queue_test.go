package runtime

import "testing"

func TestShouldFlushQueue(t *testing.T) {
	cases := []struct {
		policy QueueFlushPolicy
		msg    Message
		want   bool
	}{
		{FlushManual, ResizeMsg{Width: 1, Height: 1}, false},
		{FlushManual, QueueFlushMsg{}, true},
		{FlushOnTick, TickMsg{}, true},
		{FlushOnTick, ActionMsg{}, false},
		{FlushOnTick, QueueFlushMsg{}, true},
		{FlushOnMessage, TickMsg{}, false},
		{FlushOnMessage, ActionMsg{}, true},
		{FlushOnMessageAndTick, TickMsg{}, true},
		{FlushOnMessageAndTick, ResizeMsg{Width: 1, Height: 1}, true},
	}

	for i, tc := range cases {
		if got := shouldFlushQueue(tc.policy, tc.msg); got != tc.want {
			t.Fatalf("case %d policy=%s msg=%T got %v want %v", i, tc.policy, tc.msg, got, tc.want)
		}
	}
}

func TestParseFlushPolicy(t *testing.T) {
	for _, policy := range []QueueFlushPolicy{FlushOnMessageAndTick, FlushOnMessage, FlushOnTick, FlushManual} {
		got, err := ParseFlushPolicy(policy.String())
		if err != nil || got != policy {
			t.Fatalf("expected %s to round trip, got %s, %v", policy, got, err)
		}
	}
	if got, err := ParseFlushPolicy(" TICK "); err != nil || got != FlushOnTick {
		t.Fatalf("expected case-insensitive parse, got %s, %v", got, err)
	}
	if _, err := ParseFlushPolicy("sometimes"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
	if s := QueueFlushPolicy(42).String(); s != "QueueFlushPolicy(42)" {
		t.Fatalf("unexpected name %q", s)
	}
}
