// Package changedetect decides whether a section needs to be sent again.
package changedetect

import (
	"reflect"
	"time"

	"employee-onboarding/internal/onboarding/section"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	attachmentType = reflect.TypeOf(&section.Attachment{})
)

// IsUnchanged reports whether current structurally equals baseline. A
// missing baseline always counts as changed. Times compare by instant,
// attachments by name, size and modification time, and nil and empty
// maps or slices are equal.
func IsUnchanged(current, baseline interface{}) bool {
	if isNil(baseline) {
		return false
	}
	return equal(reflect.ValueOf(current), reflect.ValueOf(baseline))
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func equal(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Type() {
	case timeType:
		if a.CanInterface() && b.CanInterface() {
			return a.Interface().(time.Time).Equal(b.Interface().(time.Time))
		}
	case attachmentType:
		return sameFile(a, b)
	}

	switch a.Kind() {
	case reflect.Ptr, reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return equal(a.Elem(), b.Elem())
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !equal(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !equal(iter.Value(), bv) {
				return false
			}
		}
		return true
	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !equal(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.String:
		return a.String() == b.String()
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() == b.Float()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	}
	// funcs, channels and unsafe pointers compare by identity
	return a.Pointer() == b.Pointer()
}

func sameFile(a, b reflect.Value) bool {
	if a.IsNil() || b.IsNil() {
		return a.IsNil() == b.IsNil()
	}
	fa := a.Interface().(*section.Attachment)
	fb := b.Interface().(*section.Attachment)
	return fa.Name == fb.Name && fa.Size == fb.Size && fa.ModTime.Equal(fb.ModTime)
}
