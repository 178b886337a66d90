package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// State is an immutable snapshot of a composed store: an insertion-ordered
// mapping from slice name to slice value.
//
// The zero value is an empty state ready to use. Methods never modify the
// receiver; With returns a fresh State sharing no mutable structure with it.
type State struct {
	keys   []string
	values map[string]any
}

// NewState creates an empty state.
func NewState() State {
	return State{}
}

// Get returns the value of a slice.
func (s State) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether the state holds a slice with the given name.
func (s State) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Keys returns the slice names in insertion order.
func (s State) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of slices.
func (s State) Len() int {
	return len(s.keys)
}

// With returns a copy of s where the slice name holds value.
// A new name is appended after the existing ones.
func (s State) With(name string, value any) State {
	var b StateBuilder
	for _, k := range s.keys {
		b.Set(k, s.values[k])
	}
	b.Set(name, value)
	return b.Build()
}

// Map returns a copy of the slices as a plain map.
func (s State) Map() map[string]any {
	out := make(map[string]any, len(s.keys))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Equal reports whether both states hold the same slices with deeply equal
// values. Key order is not significant.
func (s State) Equal(other State) bool {
	if len(s.keys) != len(other.keys) {
		return false
	}
	for k, v := range s.values {
		ov, ok := other.values[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// StateBuilder assembles a State in one pass.
// A builder must not be reused after Build.
type StateBuilder struct {
	keys   []string
	values map[string]any
}

// Set assigns a slice. Setting an existing name replaces its value in place.
func (b *StateBuilder) Set(name string, value any) {
	if b.values == nil {
		b.values = make(map[string]any)
	}
	if _, exists := b.values[name]; !exists {
		b.keys = append(b.keys, name)
	}
	b.values[name] = value
}

// Build returns the assembled State.
func (b *StateBuilder) Build() State {
	st := State{keys: b.keys, values: b.values}
	b.keys, b.values = nil, nil
	return st
}

// MarshalJSON encodes the state as a JSON object, keeping slice order.
func (s State) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal slice %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
// Slice values are decoded generically (numbers as json.Number); use SliceOf
// to read them back as concrete types.
func (s *State) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("state must be a JSON object, got %v", tok)
	}

	var b StateBuilder
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected state key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("failed to decode slice %q: %w", key, err)
		}
		b.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = b.Build()
	return nil
}

// MarshalYAML encodes the state as a YAML mapping, keeping slice order.
func (s State) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range s.keys {
		var val yaml.Node
		if err := val.Encode(s.values[k]); err != nil {
			return nil, fmt.Errorf("failed to encode slice %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, keeping key order.
func (s *State) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("state must be a YAML mapping (line %d)", value.Line)
	}
	var b StateBuilder
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		var v any
		if err := value.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("failed to decode slice %q: %w", key, err)
		}
		b.Set(key, v)
	}
	*s = b.Build()
	return nil
}
