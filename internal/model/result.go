package model

// Result is the outcome of normalizing one raw record.
// Exactly one of Value or Err is meaningful.
type Result[T any] struct {
	Value T
	Raw   RawRecord
	Err   error
}

// OK reports whether the record normalized successfully.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Succeeded wraps a normalized value.
func Succeeded[T any](raw RawRecord, v T) Result[T] {
	return Result[T]{Value: v, Raw: raw}
}

// Failed wraps a rejected raw record with its reason.
func Failed[T any](raw RawRecord, err error) Result[T] {
	return Result[T]{Raw: raw, Err: err}
}
