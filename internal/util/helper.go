package util

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clone size if cloneSize is 0.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

// CloneMap clones a map. A nil source yields an empty, non-nil map.
func CloneMap[K comparable, V any](src map[K]V) map[K]V {
	clone := make(map[K]V, len(src))
	for k, v := range src {
		clone[k] = v
	}

	return clone
}
