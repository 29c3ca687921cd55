package container

import "errors"

const (
	// Fixed field sizes of the flat wire layout: nonce || ciphertext || tag
	NonceLen = 12
	TagLen   = 16
	KeyLen   = 32

	// Smallest valid serialized container (empty plaintext)
	MinWireLen = NonceLen + TagLen
)

// Opening failed: tampered tag or ciphertext, truncated input, or any
// cipher error. No partial plaintext ever accompanies this error.
var ErrAuthentication = errors.New("container authentication failed")

// An authenticated-encryption container for one byte payload.
// Ciphertext length always equals plaintext length, the cipher is
// stream-like with a detached tag and no padding.
type SecureContainer struct {
	Nonce      [NonceLen]byte
	Ciphertext []byte
	Tag        [TagLen]byte
}
