package cache

// ErrNotFound is returned when a key has no cached value.
type ErrNotFound struct {
	Key string
}

func (e ErrNotFound) Error() string {
	if e.Key == "" {
		return "cache entry not found"
	}

	return "cache entry not found: " + e.Key
}
