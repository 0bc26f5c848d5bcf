package runtime

import (
	"fmt"
	"strings"
)

// QueueFlushPolicy configures when the loop flushes the state queue.
type QueueFlushPolicy int

const (
	// FlushOnMessageAndTick flushes on any message or tick.
	FlushOnMessageAndTick QueueFlushPolicy = iota
	// FlushOnMessage flushes on messages except TickMsg.
	FlushOnMessage
	// FlushOnTick flushes only on TickMsg.
	FlushOnTick
	// FlushManual flushes only on QueueFlushMsg.
	FlushManual
)

var policyNames = map[QueueFlushPolicy]string{
	FlushOnMessageAndTick: "message_and_tick",
	FlushOnMessage:        "message",
	FlushOnTick:           "tick",
	FlushManual:           "manual",
}

func (p QueueFlushPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("QueueFlushPolicy(%d)", int(p))
}

// ParseFlushPolicy parses a policy name as written in configuration.
func ParseFlushPolicy(name string) (QueueFlushPolicy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for policy, candidate := range policyNames {
		if candidate == name {
			return policy, nil
		}
	}
	return FlushOnMessageAndTick, fmt.Errorf("unknown flush policy %q", name)
}

func shouldFlushQueue(policy QueueFlushPolicy, msg Message) bool {
	if _, ok := msg.(QueueFlushMsg); ok {
		return true
	}
	if policy == FlushManual {
		return false
	}
	_, isTick := msg.(TickMsg)
	switch policy {
	case FlushOnMessage:
		return !isTick
	case FlushOnTick:
		return isTick
	default:
		return true
	}
}
