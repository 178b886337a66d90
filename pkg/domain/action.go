package domain

// ActionInit is the type of the action a store dispatches to itself once, at
// construction, to obtain its initial state.
const ActionInit = "INIT"

// Init is the seeding action. Reducers never need to match it explicitly:
// their default branch returns the (initial) state they were given.
var Init Action = Bare{Kind: ActionInit}

// Action describes a state-changing event.
// The only requirement is a discriminator string; payloads are carried by the
// concrete type so reducers can switch on it without runtime shape checks.
type Action interface {
	ActionType() string
}

// Typed is an action carrying a strongly-typed payload.
type Typed[P any] struct {
	Kind    string `json:"type" yaml:"type" mapstructure:"type"`
	Payload P      `json:"payload" yaml:"payload" mapstructure:"payload"`
}

// ActionType implements Action.
func (a Typed[P]) ActionType() string { return a.Kind }

// AnyPayload returns the payload as an untyped value, for encoders.
func (a Typed[P]) AnyPayload() any { return a.Payload }

// Bare is an action without payload.
type Bare struct {
	Kind string `json:"type" yaml:"type" mapstructure:"type"`
}

// ActionType implements Action.
func (a Bare) ActionType() string { return a.Kind }

// NewAction builds a Typed action.
func NewAction[P any](kind string, payload P) Typed[P] {
	return Typed[P]{Kind: kind, Payload: payload}
}

// TypeOf returns the discriminator of a, or "" for a nil action.
// A nil action is not rejected anywhere: it simply matches no reducer case.
func TypeOf(a Action) string {
	if a == nil {
		return ""
	}
	return a.ActionType()
}

// PayloadOf extracts the payload of a Typed[P] action.
func PayloadOf[P any](a Action) (P, bool) {
	switch t := a.(type) {
	case Typed[P]:
		return t.Payload, true
	case *Typed[P]:
		if t != nil {
			return t.Payload, true
		}
	}
	var zero P
	return zero, false
}
