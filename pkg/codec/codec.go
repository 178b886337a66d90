package codec

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/strata/pkg/domain"
)

// Envelope is the wire representation of an action.
type Envelope struct {
	Type    string `json:"type" yaml:"type" mapstructure:"type"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty" mapstructure:"payload"`
}

// DecodeFunc rebuilds an action from a generic payload.
type DecodeFunc func(payload any) (domain.Action, error)

// Registry manages the known action types.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]DecodeFunc
	strict   bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithStrict makes Decode reject unregistered action types.
// By default they are passed through untyped and reach the reducers' default branch.
func WithStrict() Option {
	return func(r *Registry) {
		r.strict = true
	}
}

// NewRegistry creates a new empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		decoders: make(map[string]DecodeFunc),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a decoder for an action type.
// If the type is already registered, it is overwritten.
func (r *Registry) Register(actionType string, fn DecodeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[actionType] = fn
}

// Register declares an action type whose payload decodes into P.
func Register[P any](r *Registry, actionType string) {
	r.Register(actionType, func(payload any) (domain.Action, error) {
		p, err := domain.Decode[P](payload)
		if err != nil {
			return nil, fmt.Errorf("payload of %q: %w", actionType, err)
		}
		return domain.NewAction(actionType, p), nil
	})
}

// RegisterBare declares an action type without payload. Any payload sent
// along is ignored.
func RegisterBare(r *Registry, actionType string) {
	r.Register(actionType, func(any) (domain.Action, error) {
		return domain.Bare{Kind: actionType}, nil
	})
}

// Types returns the registered action types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.decoders))
	for t := range r.decoders {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Decode rebuilds the action described by env.
func (r *Registry) Decode(env Envelope) (domain.Action, error) {
	r.mu.RLock()
	fn, ok := r.decoders[env.Type]
	r.mu.RUnlock()

	if ok {
		return fn(env.Payload)
	}
	if r.strict {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAction, env.Type)
	}
	if env.Payload == nil {
		return domain.Bare{Kind: env.Type}, nil
	}
	return domain.NewAction(env.Type, env.Payload), nil
}

// DecodeAll decodes a sequence of envelopes, stopping at the first error.
func (r *Registry) DecodeAll(envs []Envelope) ([]domain.Action, error) {
	actions := make([]domain.Action, 0, len(envs))
	for i, env := range envs {
		a, err := r.Decode(env)
		if err != nil {
			return nil, fmt.Errorf("action #%d: %w", i+1, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Encode returns the wire representation of an action.
func Encode(a domain.Action) Envelope {
	env := Envelope{Type: domain.TypeOf(a)}
	if p, ok := a.(interface{ AnyPayload() any }); ok {
		env.Payload = p.AnyPayload()
	}
	return env
}
