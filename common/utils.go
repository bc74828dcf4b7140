package common

// Coalesce returns the first of values that is not T's zero value, used for "unset means default" fields.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
