// Package util has small generic helpers used to treat slices as stacks.
package util

func Push[T any](slice *[]T, v T) {
	*slice = append(*slice, v)
}

// Removes the top element, the slice must not be empty.
func Pop[T any](slice *[]T) {
	*slice = (*slice)[:len(*slice)-1]
}

// Pointer to the top element, so it can be modified in place.
func Last[T any](slice []T) *T {
	return &slice[len(slice)-1]
}
