package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// SliceOf reads the slice name from state as an S.
func SliceOf[S any](state State, name string) (S, error) {
	v, ok := state.Get(name)
	if !ok {
		var zero S
		return zero, fmt.Errorf("%w: %q", ErrSliceNotFound, name)
	}
	out, err := Decode[S](v)
	if err != nil {
		return out, fmt.Errorf("slice %q: %w", name, err)
	}
	return out, nil
}

// Decode converts a slice value to S.
// Values that already are an S are returned as is. Generic values (maps,
// json.Number, YAML scalars) produced by decoding a serialized State are
// converted with mapstructure, using the "mapstructure" struct tags.
func Decode[S any](v any) (S, error) {
	var out S
	if v == nil {
		return out, nil
	}
	if typed, ok := v.(S); ok {
		return typed, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(v); err != nil {
		var zero S
		return zero, fmt.Errorf("%w: want %T, got %T: %v", ErrSliceType, zero, v, err)
	}
	return out, nil
}
