package model

// Ptr returns a pointer to v. Handy for the optional Field attributes.
func Ptr[T any](v T) *T {
	return &v
}
