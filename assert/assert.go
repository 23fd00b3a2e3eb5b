// Package assert provides the small set of test assertions used across the repo.
// Every helper takes a trailing message that names the checked value.
package assert

import (
	"cmp"
	"reflect"
	"strings"
	"testing"
)

func Equal[T any](t testing.TB, expected, actual T, msg string) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("%s: expected %#v, got %#v", msg, expected, actual)
	}
}

func NotEqual[T any](t testing.TB, unexpected, actual T, msg string) {
	t.Helper()
	if reflect.DeepEqual(unexpected, actual) {
		t.Errorf("%s: expected value different from %#v", msg, actual)
	}
}

func True(t testing.TB, cond bool, msg string) {
	t.Helper()
	if !cond {
		t.Errorf("%s: expected true", msg)
	}
}

func False(t testing.TB, cond bool, msg string) {
	t.Helper()
	if cond {
		t.Errorf("%s: expected false", msg)
	}
}

func Nil(t testing.TB, v any, msg string) {
	t.Helper()
	if !isNil(v) {
		t.Errorf("%s: expected nil, got %#v", msg, v)
	}
}

func NotNil(t testing.TB, v any, msg string) {
	t.Helper()
	if isNil(v) {
		t.Fatalf("%s: expected non-nil", msg)
	}
}

func NoError(t testing.TB, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

func Error(t testing.TB, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error", msg)
	}
}

// Len checks the length of a slice, map, string or channel.
func Len(t testing.TB, expected int, collection any, msg string) {
	t.Helper()
	v := reflect.ValueOf(collection)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.String, reflect.Array, reflect.Chan:
		if v.Len() != expected {
			t.Fatalf("%s: expected length %d, got %d", msg, expected, v.Len())
		}
	default:
		t.Fatalf("%s: value of kind %s has no length", msg, v.Kind())
	}
}

func Contains(t testing.TB, s, substr string, msg string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("%s: %q does not contain %q", msg, s, substr)
	}
}

func Greater[T cmp.Ordered](t testing.TB, a, b T, msg string) {
	t.Helper()
	if !(a > b) {
		t.Errorf("%s: expected %v > %v", msg, a, b)
	}
}

func GreaterOrEqual[T cmp.Ordered](t testing.TB, a, b T, msg string) {
	t.Helper()
	if !(a >= b) {
		t.Errorf("%s: expected %v >= %v", msg, a, b)
	}
}

func InDelta(t testing.TB, expected, actual, delta float64, msg string) {
	t.Helper()
	d := expected - actual
	if d < 0 {
		d = -d
	}
	if d > delta {
		t.Errorf("%s: expected %v within %v of %v", msg, actual, delta, expected)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
