package task

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/example/task-manager/domain/apperr"
)

// Field is an optional JSON value that remembers whether it was sent at all
// and whether it was sent as null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a Field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field that was explicitly cleared.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// IsZero lets `omitzero` drop fields that were never set.
func (f Field[T]) IsZero() bool {
	return !f.Set
}

// Patch is a partial update. Absent fields are left untouched.
type Patch struct {
	Title       Field[string] `json:"title,omitzero"`
	Description Field[string] `json:"description,omitzero"`
	DueDate     Field[string] `json:"dueDate,omitzero"`
	Priority    Field[string] `json:"priority,omitzero"`
	Status      Field[string] `json:"status,omitzero"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.DueDate.Set && !p.Priority.Set && !p.Status.Set
}

// Fields names the attributes the patch sets, in a fixed order.
func (p Patch) Fields() []string {
	var fields []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"title", p.Title.Set},
		{"description", p.Description.Set},
		{"dueDate", p.DueDate.Set},
		{"priority", p.Priority.Set},
		{"status", p.Status.Set},
	} {
		if f.set {
			fields = append(fields, f.name)
		}
	}
	return fields
}

// Changes validates every present field and returns the column updates to
// apply. A null or empty dueDate clears it; a null description empties it.
func (p Patch) Changes() (map[string]any, error) {
	changes := make(map[string]any)

	if p.Title.Set {
		title, err := NormalizeTitle(p.Title.Value)
		if err != nil {
			return nil, err
		}
		changes["title"] = title
	}

	if p.Description.Set {
		description, err := NormalizeDescription(p.Description.Value)
		if err != nil {
			return nil, err
		}
		changes["description"] = description
	}

	if p.DueDate.Set {
		if p.DueDate.Null || strings.TrimSpace(p.DueDate.Value) == "" {
			changes["due_date"] = nil
		} else {
			due, _, err := ParseDate(p.DueDate.Value)
			if err != nil {
				return nil, apperr.Validation("Invalid dueDate")
			}
			changes["due_date"] = due
		}
	}

	if p.Priority.Set {
		priority, err := ParsePriority(p.Priority.Value)
		if err != nil {
			return nil, err
		}
		changes["priority"] = priority
	}

	if p.Status.Set {
		status, err := ParseStatus(p.Status.Value)
		if err != nil {
			return nil, err
		}
		changes["status"] = status
	}

	return changes, nil
}
