package diag

import "errors"

// Output is the result of a lexing, parsing or building step.
// Value is meaningful only when Err is nil. Diagnostics holds every
// recoverable problem found, whether or not the step succeeded.
type Output[T any] struct {
	Value       T
	Err         error
	Diagnostics []*Error
}

// Ok returns a successful output.
func Ok[T any](value T, diagnostics []*Error) Output[T] {
	return Output[T]{Value: value, Diagnostics: diagnostics}
}

// Fail returns a failed output.
func Fail[T any](err error, diagnostics []*Error) Output[T] {
	return Output[T]{Err: err, Diagnostics: diagnostics}
}

// OK reports whether the step produced a value.
func (o Output[T]) OK() bool {
	return o.Err == nil
}

// HasDiagnostics reports whether any problems were recorded.
func (o Output[T]) HasDiagnostics() bool {
	return len(o.Diagnostics) > 0
}

// Unwrap returns the value and the error, with every diagnostic joined into
// the error when the step failed.
func (o Output[T]) Unwrap() (T, error) {
	if o.Err == nil {
		return o.Value, nil
	}

	errs := make([]error, 0, len(o.Diagnostics)+1)
	errs = append(errs, o.Err)
	for _, d := range o.Diagnostics {
		if d != nil && !errors.Is(o.Err, d) {
			errs = append(errs, d)
		}
	}
	return o.Value, errors.Join(errs...)
}

// Map transforms the value of a successful output, keeping diagnostics.
func Map[T, U any](o Output[T], fn func(T) (U, error)) Output[U] {
	if o.Err != nil {
		return Fail[U](o.Err, o.Diagnostics)
	}

	v, err := fn(o.Value)
	if err != nil {
		return Fail[U](err, o.Diagnostics)
	}
	return Ok(v, o.Diagnostics)
}
