package database

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Field is one entry of a partial update. It has three states: absent (the
// zero value, leave the column alone), null (clear the column) and set.
type Field[T any] struct {
	present bool
	null    bool
	value   T
}

// Set returns a field carrying v
func Set[T any](v T) Field[T] {
	return Field[T]{present: true, value: v}
}

// Null returns a field that clears its column
func Null[T any]() Field[T] {
	return Field[T]{present: true, null: true}
}

// Present reports whether the field appeared in the update at all
func (f Field[T]) Present() bool { return f.present }

// IsNull reports whether the field explicitly clears its column
func (f Field[T]) IsNull() bool { return f.present && f.null }

// Value returns the carried value and whether there is one
func (f Field[T]) Value() (T, bool) {
	return f.value, f.present && !f.null
}

// arg converts the field to a SQL argument
func (f Field[T]) arg() any {
	if f.null {
		return nil
	}
	return f.value
}

// UnmarshalJSON is only invoked for keys present in the document, which is
// what separates absent from null.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.value)
}

// MarshalJSON renders absent and null fields as null
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.present || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// assignments accumulates the SET clause of an UPDATE
type assignments struct {
	cols []string
	args []any
}

func (a *assignments) set(col string, arg any) {
	a.cols = append(a.cols, col+" = ?")
	a.args = append(a.args, arg)
}

func (a *assignments) empty() bool {
	return len(a.cols) == 0
}

func (a *assignments) update(table, id string) (string, []any) {
	query := "UPDATE " + table + " SET " + strings.Join(a.cols, ", ") + " WHERE id = ?"
	return query, append(a.args, id)
}

// addField appends col when f is present
func addField[T any](a *assignments, col string, f Field[T]) {
	if f.Present() {
		a.set(col, f.arg())
	}
}
