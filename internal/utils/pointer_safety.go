package utils

// Value dereferences v, yielding the zero value for nil.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// OptionalString maps "" to nil. Optional identity fields travel as JSON null.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
