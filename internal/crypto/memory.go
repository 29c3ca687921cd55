package crypto

// Overwrites the slice contents with zeroes.
// Used to limit the in-memory lifetime of key material.
func Memzero(slice []byte) {
	for i := range slice {
		slice[i] = 0
	}
}
