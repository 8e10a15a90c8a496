// Package mapper holds slice helpers shared by the persistence mappers and DTOs.
package mapper

import "fmt"

// MapSlice applies a mapper function to each element of a slice.
// Returns nil if the input slice is nil.
func MapSlice[T any, R any](items []T, mapFunc func(T) R) []R {
	if items == nil {
		return nil
	}

	result := make([]R, 0, len(items))
	for _, item := range items {
		result = append(result, mapFunc(item))
	}
	return result
}

// MapSliceWithError applies a mapper function that may return an error to each element.
// Returns early if any mapping fails.
func MapSliceWithError[T any, R any](items []T, mapFunc func(T) (R, error)) ([]R, error) {
	if items == nil {
		return nil, nil
	}

	result := make([]R, 0, len(items))
	for _, item := range items {
		mapped, err := mapFunc(item)
		if err != nil {
			return nil, err
		}
		result = append(result, mapped)
	}
	return result, nil
}

// MapRowsWithID maps rows loaded by value, passing each by reference, and names the
// failing row's ID in the error. An empty input yields an empty, non-nil slice.
func MapRowsWithID[T any, R any, ID any](
	rows []T,
	mapFunc func(*T) (R, error),
	getID func(*T) ID,
) ([]R, error) {
	result := make([]R, 0, len(rows))
	for i := range rows {
		mapped, err := mapFunc(&rows[i])
		if err != nil {
			return nil, fmt.Errorf("failed to map row ID %v: %w", getID(&rows[i]), err)
		}
		result = append(result, mapped)
	}
	return result, nil
}
