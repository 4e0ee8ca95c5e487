package events

import "time"

// Outcome is how an operation settled.
type Outcome string

const (
	Fulfilled Outcome = "fulfilled"
	Rejected  Outcome = "rejected"
)

// Event records the settlement of one engine operation.
type Event struct {
	Op        string    `json:"op"`
	Arg       string    `json:"arg,omitempty"` // site id, actor id, album id, ...
	Outcome   Outcome   `json:"outcome"`
	Value     any       `json:"-"`
	Err       error     `json:"-"`
	Timestamp time.Time `json:"occurred_at"`
}

// NewFulfilled creates a fulfilled event for op.
func NewFulfilled(op, arg string, value any) Event {
	return Event{Op: op, Arg: arg, Outcome: Fulfilled, Value: value, Timestamp: time.Now()}
}

// NewRejected creates a rejected event for op.
func NewRejected(op, arg string, err error) Event {
	return Event{Op: op, Arg: arg, Outcome: Rejected, Err: err, Timestamp: time.Now()}
}
