package cachebox

// Coalesce returns def when v is the zero value of T - otherwise v.
// Connector option structs use it to merge caller settings over defaults.
func Coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
