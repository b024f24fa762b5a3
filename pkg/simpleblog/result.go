package simpleblog

// Result is the outcome of a ContentService operation. OK distinguishes a
// successful call (whose Value may be empty) from a failed one.
type Result[T any] struct {
	Value T
	OK    bool
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, OK: true}
}

// Failed is the failure sentinel.
func Failed[T any]() Result[T] {
	return Result[T]{}
}

// Get returns the value and whether the operation succeeded.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.OK
}
