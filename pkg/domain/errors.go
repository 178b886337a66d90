package domain

import "errors"

// ErrNilReducer is returned when a store or a slice is declared without a reducer.
var ErrNilReducer = errors.New("nil reducer")

// ErrEmptySliceName is returned when a slice is declared with an empty name.
var ErrEmptySliceName = errors.New("empty slice name")

// ErrDuplicateSlice is returned when two slices share the same name.
var ErrDuplicateSlice = errors.New("duplicate slice")

// ErrSliceNotFound is returned when a state has no slice with the requested name.
var ErrSliceNotFound = errors.New("slice not found")

// ErrSliceType is returned when a slice value cannot be converted to the type its reducer expects.
var ErrSliceType = errors.New("slice has unexpected type")

// ErrUnknownAction is returned by strict action codecs for unregistered action types.
var ErrUnknownAction = errors.New("unknown action type")

// ErrStoreNotFound is returned when a named store does not exist in a session manager.
var ErrStoreNotFound = errors.New("store not found")
