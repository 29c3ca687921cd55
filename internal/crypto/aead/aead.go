// AEAD cipher construction and sealing helpers for the supported suites
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"midistream/internal/crypto"

	"golang.org/x/crypto/chacha20poly1305"
)

// Builds the AEAD primitive for the requested suite ID.
// The key slice is read, never retained or modified.
func New(suiteID uint8, key []byte) (aead cipher.AEAD, err error) {
	suite, validID := crypto.GetSuiteInfo(suiteID)
	if !validID {
		err = fmt.Errorf("unknown suite ID %d", suiteID)
		return
	}

	if len(key) != suite.KeySize {
		err = fmt.Errorf("invalid key length: suite ID %d requires length %d, but received key length %d", suiteID, suite.KeySize, len(key))
		return
	}

	switch suiteID {
	case crypto.SuiteAES256GCM:
		var block cipher.Block
		block, err = aes.NewCipher(key)
		if err != nil {
			err = fmt.Errorf("failed creation of AES block cipher: %w", err)
			return
		}
		aead, err = cipher.NewGCM(block)
		if err != nil {
			err = fmt.Errorf("failed creation of GCM AEAD: %w", err)
			return
		}
	case crypto.SuiteChaCha20Poly1305:
		aead, err = chacha20poly1305.New(key)
		if err != nil {
			err = fmt.Errorf("failed creation of AEAD: %w", err)
			return
		}
	default:
		err = fmt.Errorf("suite ID %d has no cipher constructor", suiteID)
	}
	return
}

// Encrypts provided plain text using the requested suite's AEAD cipher.
// The nonce must be suite nonce sized and unique for the key.
func Encrypt(suiteID uint8, plaintext, key, nonce, additional []byte) (ciphertext []byte, err error) {
	suite, validID := crypto.GetSuiteInfo(suiteID)
	if !validID {
		err = fmt.Errorf("unknown suite ID %d", suiteID)
		return
	}
	if len(nonce) != suite.NonceSize {
		err = fmt.Errorf("invalid nonce length: suite ID %d requires length %d, but received nonce length %d", suiteID, suite.NonceSize, len(nonce))
		return
	}

	aead, err := New(suiteID, key)
	if err != nil {
		return
	}

	// Encrypt message
	ciphertext = aead.Seal(nil, nonce, plaintext, additional)
	return
}

// Decrypts provided cipher text using the requested suite's AEAD cipher.
// Tag verification is handled inside the primitive (constant time).
func Decrypt(suiteID uint8, ciphertext, key, nonce, additional []byte) (plaintext []byte, err error) {
	suite, validID := crypto.GetSuiteInfo(suiteID)
	if !validID {
		err = fmt.Errorf("unknown suite ID %d", suiteID)
		return
	}
	if len(nonce) != suite.NonceSize {
		err = fmt.Errorf("invalid nonce length: suite ID %d requires length %d, but received nonce length %d", suiteID, suite.NonceSize, len(nonce))
		return
	}

	aead, err := New(suiteID, key)
	if err != nil {
		return
	}

	// Decrypt message
	plaintext, err = aead.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		err = fmt.Errorf("failed decryption of cipher text: %w", err)
		return
	}

	return
}
