package cli

import (
	"encoding/base64"
	"fmt"
	"midistream/internal/crypto/hkdf"
	"midistream/internal/global"
	"midistream/pkg/container"
	"os"
	"strings"

	"golang.org/x/term"
)

// Namespace bound into passphrase-derived keys so they never collide
// with keys derived for other purposes
const vaultKeyNamespace = "midistream/" + global.NSVault

// Resolves the sealing key from either a key file or an interactive
// passphrase prompt
func ResolveKey(keyPath string, usePassphrase bool) (key []byte, err error) {
	if usePassphrase {
		key, err = keyFromPassphrase()
		return
	}

	encodedKey, err := os.ReadFile(keyPath)
	if err != nil {
		err = fmt.Errorf("failed reading key file: %w", err)
		return
	}

	key, err = base64.StdEncoding.DecodeString(strings.TrimSpace(string(encodedKey)))
	if err != nil {
		err = fmt.Errorf("failed decoding key file: %w", err)
		return
	}

	if len(key) != container.KeyLen {
		err = fmt.Errorf("invalid key length: expected %d bytes, got %d", container.KeyLen, len(key))
		return
	}
	return
}

// Prompts for a passphrase with echo disabled and stretches it into a
// full size key. Derivation is deterministic so the same passphrase
// opens what it sealed.
func keyFromPassphrase() (key []byte, err error) {
	fmt.Fprint(os.Stderr, "Passphrase: ")
	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		err = fmt.Errorf("failed reading passphrase: %w", err)
		return
	}
	if len(passphrase) == 0 {
		err = fmt.Errorf("empty passphrase")
		return
	}

	// DeriveKey zeroes the passphrase bytes after use
	key, err = hkdf.DeriveKey(passphrase, nil, vaultKeyNamespace, container.KeyLen)
	if err != nil {
		err = fmt.Errorf("failed deriving key from passphrase: %w", err)
		return
	}
	return
}
