package random

import (
	"crypto/rand"
	"fmt"
)

// Draws a fresh random slice of the requested size from the CSPRNG.
// Every call returns new bytes, never a repeated or counter-derived value.
func NewSlice(size int) (slice []byte, err error) {
	slice = make([]byte, size)
	_, err = rand.Read(slice)
	if err != nil {
		err = fmt.Errorf("failed to read random bytes: %w", err)
		return
	}
	return
}

// Fixes any insecure patterns found in slice input.
// Insecure can mean: empty, nil, all identical values.
// Modifies slice directly so all references are updated.
func PopulateEmptySlice(slice *[]byte, size int) (err error) {
	// Check if the slice is nil or empty (len on nil is always 0)
	if len(*slice) == 0 {
		// Allocate new based on requested size
		*slice = make([]byte, size)
	}

	// Check for insecure conditions
	if isAllIdentical(*slice) || isAllZero(*slice) {
		// Populate array with secure random values
		_, err = rand.Read(*slice)
		if err != nil {
			err = fmt.Errorf("failed to populate slice with pseudo random data: %w", err)
			return
		}
	}

	return
}

// Checks if all bytes in the array are the same
func isAllIdentical(slice []byte) bool {
	if len(slice) == 0 {
		// Should never occur when called from PopulateEmptySlice
		return true // trigger unhappy path
	}
	// Compare each byte with the first byte
	first := slice[0]
	for _, b := range slice[1:] {
		if b != first {
			return false
		}
	}
	return true
}

// Checks if the byte array is filled with zeroes
func isAllZero(slice []byte) bool {
	for _, b := range slice {
		if b != 0 {
			return false
		}
	}
	return true
}
