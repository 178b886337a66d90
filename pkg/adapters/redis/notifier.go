package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/strata/internal/logging"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "strata:changes"

// Message is the payload published after every dispatch that changed state.
type Message struct {
	Store string            `json:"store"`
	Diff  *domain.StateDiff `json:"diff"`
}

// Notifier publishes state changes of composed stores to a Redis channel.
// It only broadcasts diffs; state itself never leaves the process.
type Notifier struct {
	client  backend.UniversalClient
	channel string
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*Notifier)

// WithChannel sets the pub/sub channel.
func WithChannel(channel string) Option {
	return func(n *Notifier) {
		if channel != "" {
			n.channel = channel
		}
	}
}

// WithTimeout bounds each PUBLISH call.
func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		n.timeout = d
	}
}

// WithLogger configures a logger for publish failures.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New creates a notifier connected to address.
func New(address, password string, db int, opts ...Option) *Notifier {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a notifier from an existing client.
func NewFromClient(client backend.UniversalClient, opts ...Option) *Notifier {
	n := &Notifier{
		client:  client,
		channel: DefaultChannel,
		timeout: 2 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Close releases the underlying client.
func (n *Notifier) Close() error {
	return n.client.Close()
}

// Channel returns the channel messages are published to.
func (n *Notifier) Channel() string {
	return n.channel
}

// Attach subscribes to store and publishes a Message for every dispatch
// that changed its state. Publish errors are logged and never reach the
// dispatching caller.
func (n *Notifier) Attach(name string, store ports.StateStore) ports.Unsubscribe {
	var mu sync.Mutex
	last := store.GetState()

	return store.Subscribe(func(ctx context.Context) {
		current := store.GetState()

		mu.Lock()
		diff := domain.Diff(last, current)
		last = current
		mu.Unlock()

		if diff == nil {
			return
		}
		if err := n.Publish(ctx, Message{Store: name, Diff: diff}); err != nil {
			n.logger.Warn("Failed to publish state change", "store", name, "channel", n.channel, "err", err)
		}
	})
}

// Publish sends msg to the configured channel.
func (n *Notifier) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}
	return n.client.Publish(ctx, n.channel, data).Err()
}

// Listen subscribes to channel and streams decoded messages until ctx is
// done. Malformed payloads are skipped.
func Listen(ctx context.Context, client backend.UniversalClient, channel string) (<-chan Message, error) {
	if channel == "" {
		channel = DefaultChannel
	}

	pubsub := client.Subscribe(ctx, channel)
	// Wait for the subscription to be confirmed so no message published
	// after Listen returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %q: %w", channel, err)
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		defer pubsub.Close()

		in := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-in:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
