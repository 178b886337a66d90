/*
Package codec translates actions to and from their wire shape.

On the wire an action is an Envelope, {"type": "...", "payload": ...}. A
Registry maps each action type to a decoder that rebuilds the strongly-typed
action reducers expect; payloads are converted with mapstructure so that
generic JSON or YAML values (float64, json.Number, map[string]any) land in the
declared payload type.
*/
package codec
