package container

import (
	"bytes"
	"crypto/rand"
	"errors"
	"midistream/internal/crypto"
	"testing"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		suiteID uint8
	}{
		{"AES256GCM", crypto.SuiteAES256GCM},
		{"ChaCha20Poly1305", crypto.SuiteChaCha20Poly1305},
	}

	key := make([]byte, KeyLen)
	rand.Read(key)
	plaintext := []byte("note stream capture segment")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := SealEnvelope(plaintext, key, tt.suiteID)
			if err != nil {
				t.Fatalf("seal failed: %v", err)
			}

			// Header carries version and suite in the clear
			if blob[0] != EnvelopeVersion {
				t.Errorf("expected version %d, got %d", EnvelopeVersion, blob[0])
			}
			if blob[1] != tt.suiteID {
				t.Errorf("expected suite ID %d, got %d", tt.suiteID, blob[1])
			}

			opened, err := OpenEnvelope(blob, key)
			if err != nil {
				t.Fatalf("open failed: %v", err)
			}
			if !bytes.Equal(opened, plaintext) {
				t.Errorf("round trip mismatch: expected % X, got % X", plaintext, opened)
			}
		})
	}
}

func TestEnvelope_UnknownSuite(t *testing.T) {
	key := make([]byte, KeyLen)
	rand.Read(key)

	_, err := SealEnvelope([]byte("payload"), key, 99)
	if err == nil {
		t.Fatal("expected error for unknown suite, but got none")
	}
}

func TestEnvelope_RejectsMutations(t *testing.T) {
	key := make([]byte, KeyLen)
	rand.Read(key)

	blob, err := SealEnvelope([]byte("payload"), key, crypto.SuiteAES256GCM)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(blob []byte) []byte
	}{
		{"UnknownVersion", func(b []byte) []byte {
			out := append([]byte(nil), b...)
			out[0] = 0xFF
			return out
		}},
		{"SuiteDowngrade", func(b []byte) []byte {
			// Both suites share sizes, only the tag check catches the swap
			out := append([]byte(nil), b...)
			out[1] = crypto.SuiteChaCha20Poly1305
			return out
		}},
		{"UnknownSuite", func(b []byte) []byte {
			out := append([]byte(nil), b...)
			out[1] = 99
			return out
		}},
		{"FlipPayloadBit", func(b []byte) []byte {
			out := append([]byte(nil), b...)
			out[len(out)/2] ^= 0x01
			return out
		}},
		{"HeaderOnly", func(b []byte) []byte {
			return b[:EnvelopeHeaderLen]
		}},
		{"Empty", func(b []byte) []byte {
			return nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, openErr := OpenEnvelope(tt.mutate(blob), key)
			if !errors.Is(openErr, ErrAuthentication) {
				t.Fatalf("expected ErrAuthentication, got %v", openErr)
			}
		})
	}
}
