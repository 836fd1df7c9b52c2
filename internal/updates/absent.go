package updates

import (
	"encoding/json"
	"fmt"
)

// Field is a property of an access object that is either Present with a value
// or explicitly Absent because it does not belong to the matched update kind.
//
// Absent is a state of its own: Present[*telegram.Message](nil) is present, and
// the zero Field is absent.
type Field[T any] struct {
	value T
	ok    bool
}

// Present wraps v as a present field.
func Present[T any](v T) Field[T] {
	return Field[T]{value: v, ok: true}
}

// Absent returns the absent marker for T.
func Absent[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether the field is present.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.ok
}

// IsPresent reports whether the field holds a value.
func (f Field[T]) IsPresent() bool { return f.ok }

// IsAbsent reports whether the field is the absent marker.
func (f Field[T]) IsAbsent() bool { return !f.ok }

// MustGet returns the value of a present field and panics on the absent marker.
// Use it in code already narrowed to the kind the field belongs to.
func (f Field[T]) MustGet() T {
	if !f.ok {
		var zero T
		panic(fmt.Sprintf("updates: MustGet on absent %T field", zero))
	}
	return f.value
}

// OrElse returns the value, or def when the field is absent.
func (f Field[T]) OrElse(def T) T {
	if !f.ok {
		return def
	}
	return f.value
}

// Any erases the value type.
func (f Field[T]) Any() Field[any] {
	if !f.ok {
		return Absent[any]()
	}
	return Present[any](f.value)
}

// String renders the field for logs.
func (f Field[T]) String() string {
	if !f.ok {
		return "<absent>"
	}
	return fmt.Sprintf("%v", f.value)
}

// MarshalJSON encodes an absent field as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.ok {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// As narrows an erased field back to T. A present value of another type
// yields Absent.
func As[T any](f Field[any]) Field[T] {
	v, ok := f.Get()
	if !ok {
		return Absent[T]()
	}
	t, ok := v.(T)
	if !ok {
		return Absent[T]()
	}
	return Present(t)
}
