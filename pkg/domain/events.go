package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDispatch      EventType = "dispatch"
	EventCommit        EventType = "commit"
	EventReducerError  EventType = "reducer_error"
	EventNotify        EventType = "notify"
	EventListenerPanic EventType = "listener_panic"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	Store      string    `json:"store,omitempty"` // Name given with WithName, if any
	ActionType string    `json:"action_type"`
}

// DispatchEvent is emitted before the reducer runs.
type DispatchEvent struct {
	EventBase
}

// CommitEvent is emitted once the new state replaced the old one.
type CommitEvent struct {
	EventBase
	Duration time.Duration `json:"duration"`
	// Diff is only computed for stores holding a State; nil otherwise or when nothing changed.
	Diff *StateDiff `json:"diff,omitempty"`
}

// ErrorEvent is emitted when the reducer failed and the dispatch was discarded.
type ErrorEvent struct {
	EventBase
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// NotifyEvent is emitted after every listener ran.
type NotifyEvent struct {
	EventBase
	Listeners int `json:"listeners"`
}

// PanicEvent is emitted when an isolated listener panicked.
type PanicEvent struct {
	EventBase
	Recovered any `json:"recovered"`
}

// LifecycleHooks defines callbacks for store observability.
// Hooks observe dispatches; they cannot change or stop them.
type LifecycleHooks struct {
	OnDispatch      func(context.Context, *DispatchEvent)
	OnCommit        func(context.Context, *CommitEvent)
	OnReducerError  func(context.Context, *ErrorEvent)
	OnNotify        func(context.Context, *NotifyEvent)
	OnListenerPanic func(context.Context, *PanicEvent)
}
