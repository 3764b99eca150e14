package order

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Identifiable is implemented by entities that can appear behind a Reference
type Identifiable interface {
	GetID() string
}

// Reference is a tagged union over a bare id and a populated record.
// The backend returns either form for the same field depending on whether
// the relation was populated, so every access goes through this type.
type Reference[T Identifiable] struct {
	id       string
	value    T
	resolved bool
}

// RefID builds an unresolved reference
func RefID[T Identifiable](id string) Reference[T] {
	return Reference[T]{id: id}
}

// RefResolved builds a reference holding the full record
func RefResolved[T Identifiable](v T) Reference[T] {
	return Reference[T]{id: v.GetID(), value: v, resolved: true}
}

// ID returns the referenced id regardless of form
func (r Reference[T]) ID() string {
	if r.resolved {
		if id := r.value.GetID(); id != "" {
			return id
		}
	}
	return r.id
}

// Value returns the populated record and whether it is present
func (r Reference[T]) Value() (T, bool) {
	return r.value, r.resolved
}

// IsResolved reports whether the reference carries a populated record
func (r Reference[T]) IsResolved() bool {
	return r.resolved
}

// IsZero reports whether neither an id nor a record is present
func (r Reference[T]) IsZero() bool {
	return !r.resolved && r.id == ""
}

// Or returns r when it is resolved, otherwise other if other is resolved,
// otherwise whichever carries an id. A resolved record without an id of its
// own keeps the id of the other side.
func (r Reference[T]) Or(other Reference[T]) Reference[T] {
	switch {
	case r.resolved:
		if r.id == "" {
			r.id = other.ID()
		}
		return r
	case other.resolved:
		if other.id == "" {
			other.id = r.id
		}
		return other
	case r.id != "":
		return r
	default:
		return other
	}
}

// MarshalJSON writes the record when resolved and the bare id otherwise
func (r Reference[T]) MarshalJSON() ([]byte, error) {
	if r.resolved {
		return json.Marshal(r.value)
	}
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

// UnmarshalJSON accepts a string id, a populated object, or null
func (r *Reference[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*r = Reference[T]{}
		return nil
	case data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Reference[T]{id: id}
		return nil
	case data[0] == '{':
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode populated reference: %w", err)
		}
		*r = RefResolved(v)
		return nil
	}
	return fmt.Errorf("reference must be a string id or an object, got %s", string(data[:1]))
}
