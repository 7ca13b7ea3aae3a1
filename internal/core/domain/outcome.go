package domain

// Outcome is the tagged result of a document operation: either a value
// or a *DocumentError, never both. Callers must not assume partial success.
type Outcome[T any] struct {
	value T
	err   *DocumentError
}

// Success wraps a value.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// Failure wraps an error. A nil error is treated as a transport failure
// so an Outcome can never be both empty and successful by accident.
func Failure[T any](err *DocumentError) Outcome[T] {
	if err == nil {
		err = NewTransportError(0, nil)
	}
	return Outcome[T]{err: err}
}

// Ok returns true for a successful outcome.
func (o Outcome[T]) Ok() bool {
	return o.err == nil
}

// Value returns the wrapped value. It is the zero value on failure.
func (o Outcome[T]) Value() T {
	return o.value
}

// Err returns the failure, or nil on success.
func (o Outcome[T]) Err() *DocumentError {
	return o.err
}

// Unwrap returns the value and a plain error for callers that prefer
// the usual Go shape.
func (o Outcome[T]) Unwrap() (T, error) {
	if o.err != nil {
		var zero T
		return zero, o.err
	}
	return o.value, nil
}

// MapOutcome converts the value of a successful outcome, passing failures through.
func MapOutcome[T, U any](o Outcome[T], fn func(T) U) Outcome[U] {
	if o.err != nil {
		return Failure[U](o.err)
	}
	return Success(fn(o.value))
}
