package crypto

import (
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

type SuiteInfo struct {
	Name           string
	KeySize        int
	NonceSize      int
	CipherOverhead int
}

// Byte length for ID in envelopes
const SuiteIDLen int = 1

const (
	SuiteAES256GCM        uint8 = 1
	SuiteChaCha20Poly1305 uint8 = 2
)

var cryptoSuiteMu sync.Mutex
var cryptoSuiteMap = map[uint8]SuiteInfo{
	SuiteAES256GCM: {
		Name:           "aes256gcm",
		KeySize:        32,
		NonceSize:      12,
		CipherOverhead: 16,
	},
	SuiteChaCha20Poly1305: {
		Name:           "chacha20poly1305",
		KeySize:        chacha20poly1305.KeySize,
		NonceSize:      chacha20poly1305.NonceSize,
		CipherOverhead: chacha20poly1305.Overhead,
	},
}

// Query crypto suite (concurrent safe)
func GetSuiteInfo(id uint8) (info SuiteInfo, validID bool) {
	cryptoSuiteMu.Lock()
	defer cryptoSuiteMu.Unlock()
	info, validID = cryptoSuiteMap[id]
	return
}
