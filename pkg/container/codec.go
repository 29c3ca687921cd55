// Authenticated-encryption container format for persisting or
// transporting MIDI byte payloads.
//
// Serialized layout is exactly nonce (12) || ciphertext (N) || tag (16)
// with N equal to the plaintext length. No length prefix is needed, the
// nonce and tag are fixed size and the ciphertext takes the remainder.
// The layout is reproduced bit for bit for interoperability.
package container

import (
	"fmt"
	"midistream/internal/crypto"
	"midistream/internal/crypto/aead"
	"midistream/internal/crypto/random"
)

// Draws a fresh random sealing key of the required length.
// The draw is repaired if it comes back degenerate (all zero or all
// identical bytes), so a returned key is always usable as-is.
func NewKey() (key []byte, err error) {
	err = random.PopulateEmptySlice(&key, KeyLen)
	if err != nil {
		err = fmt.Errorf("failed to draw key: %w", err)
		return
	}
	return
}

// Encrypts the plaintext under a 256-bit key with AES-256-GCM.
// A fresh random nonce is drawn from the CSPRNG on every call, never a
// counter, so uniqueness holds across process restarts.
// Stateless apart from the key, safe to call concurrently.
func Seal(plaintext, key []byte) (sealed SecureContainer, err error) {
	if len(key) != KeyLen {
		err = fmt.Errorf("invalid key length: expected %d bytes, got %d", KeyLen, len(key))
		return
	}

	nonce, err := random.NewSlice(NonceLen)
	if err != nil {
		err = fmt.Errorf("failed to draw nonce: %w", err)
		return
	}

	cipher, err := aead.New(crypto.SuiteAES256GCM, key)
	if err != nil {
		err = fmt.Errorf("failed creating cipher: %w", err)
		return
	}

	// Seal appends ciphertext then tag
	combined := cipher.Seal(nil, nonce, plaintext, nil)

	copy(sealed.Nonce[:], nonce)
	sealed.Ciphertext = combined[:len(combined)-TagLen]
	copy(sealed.Tag[:], combined[len(combined)-TagLen:])
	return
}

// Decrypts and verifies a container. Fails closed: any tag mismatch or
// cipher error yields ErrAuthentication and no plaintext, not even
// partially. Tag comparison happens inside the AEAD primitive in
// constant time, never here.
func Open(sealed SecureContainer, key []byte) (plaintext []byte, err error) {
	if len(key) != KeyLen {
		err = ErrAuthentication
		return
	}

	cipher, cipherErr := aead.New(crypto.SuiteAES256GCM, key)
	if cipherErr != nil {
		err = ErrAuthentication
		return
	}

	combined := make([]byte, 0, len(sealed.Ciphertext)+TagLen)
	combined = append(combined, sealed.Ciphertext...)
	combined = append(combined, sealed.Tag[:]...)

	plaintext, openErr := cipher.Open(nil, sealed.Nonce[:], combined, nil)
	if openErr != nil {
		plaintext = nil
		err = ErrAuthentication
		return
	}
	return
}

// Serializes a container to the flat wire layout
func Marshal(sealed SecureContainer) (blob []byte) {
	blob = make([]byte, 0, MinWireLen+len(sealed.Ciphertext))
	blob = append(blob, sealed.Nonce[:]...)
	blob = append(blob, sealed.Ciphertext...)
	blob = append(blob, sealed.Tag[:]...)
	return
}

// Deserializes the flat wire layout. Inputs shorter than the fixed
// nonce+tag framing cannot be authentic and are rejected closed.
func Unmarshal(blob []byte) (sealed SecureContainer, err error) {
	if len(blob) < MinWireLen {
		err = ErrAuthentication
		return
	}

	copy(sealed.Nonce[:], blob[:NonceLen])
	sealed.Ciphertext = append([]byte(nil), blob[NonceLen:len(blob)-TagLen]...)
	copy(sealed.Tag[:], blob[len(blob)-TagLen:])
	return
}

// Seals a plaintext straight to wire bytes
func SealBytes(plaintext, key []byte) (blob []byte, err error) {
	sealed, err := Seal(plaintext, key)
	if err != nil {
		return
	}
	blob = Marshal(sealed)
	return
}

// Opens wire bytes straight to plaintext
func OpenBytes(blob, key []byte) (plaintext []byte, err error) {
	sealed, err := Unmarshal(blob)
	if err != nil {
		return
	}
	plaintext, err = Open(sealed, key)
	return
}
