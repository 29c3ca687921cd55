package container

import (
	"bytes"
	"fmt"
	"midistream/internal/crypto"
	"midistream/internal/crypto/aead"
	"midistream/internal/crypto/random"
)

// Envelope wire version. Bump on any layout change.
const EnvelopeVersion uint8 = 1

// Byte length of the envelope header (version + suite ID)
const EnvelopeHeaderLen int = 2

// Versioned outer wrapper around the flat container layout.
// Layout: version (1) || suiteID (1) || nonce || ciphertext || tag
// The header is bound into the AEAD as additional data so a downgrade
// of either field is caught by tag verification.
func SealEnvelope(plaintext, key []byte, suiteID uint8) (blob []byte, err error) {
	suite, validID := crypto.GetSuiteInfo(suiteID)
	if !validID {
		err = fmt.Errorf("unknown suite ID %d", suiteID)
		return
	}
	if len(key) != suite.KeySize {
		err = fmt.Errorf("invalid key length: expected %d bytes, got %d", suite.KeySize, len(key))
		return
	}

	nonce, err := random.NewSlice(suite.NonceSize)
	if err != nil {
		err = fmt.Errorf("failed to draw nonce: %w", err)
		return
	}

	header := []byte{EnvelopeVersion, suiteID}

	ciphertext, err := aead.Encrypt(suiteID, plaintext, key, nonce, header)
	if err != nil {
		err = fmt.Errorf("failed sealing envelope: %w", err)
		return
	}

	var envelope bytes.Buffer
	envelope.Grow(EnvelopeHeaderLen + len(nonce) + len(ciphertext))
	envelope.Write(header)
	envelope.Write(nonce)
	envelope.Write(ciphertext)

	blob = envelope.Bytes()
	return
}

// Opens a versioned envelope. Unknown versions, unknown suites, short
// inputs and failed tags all reject closed with ErrAuthentication.
func OpenEnvelope(blob, key []byte) (plaintext []byte, err error) {
	if len(blob) < EnvelopeHeaderLen {
		err = ErrAuthentication
		return
	}

	version := blob[0]
	suiteID := blob[1]
	if version != EnvelopeVersion {
		err = fmt.Errorf("%w: unsupported envelope version %d", ErrAuthentication, version)
		return
	}

	suite, validID := crypto.GetSuiteInfo(suiteID)
	if !validID {
		err = fmt.Errorf("%w: unknown suite ID %d", ErrAuthentication, suiteID)
		return
	}
	if len(key) != suite.KeySize {
		err = ErrAuthentication
		return
	}
	if len(blob) < EnvelopeHeaderLen+suite.NonceSize+suite.CipherOverhead {
		err = ErrAuthentication
		return
	}

	header := blob[:EnvelopeHeaderLen]
	nonce := blob[EnvelopeHeaderLen : EnvelopeHeaderLen+suite.NonceSize]
	ciphertext := blob[EnvelopeHeaderLen+suite.NonceSize:]

	plaintext, openErr := aead.Decrypt(suiteID, ciphertext, key, nonce, header)
	if openErr != nil {
		plaintext = nil
		err = ErrAuthentication
		return
	}
	return
}
