package to

func Ptr[T any](v T) *T {
	return &v
}

// Value returns the value a pointer points to, or the zero value of the type
// for a nil pointer.
func Value[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

func NilString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
