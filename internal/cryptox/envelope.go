// Package cryptox implements the envelope encryption applied to secret
// values before they are persisted. Values are sealed with AES-256-GCM so
// the stored form is both confidential and tamper-evident: a single flipped
// bit in the blob makes Open fail instead of returning corrupted plaintext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/locksmith/internal/common"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// DeriveKey maps an arbitrary-length configured secret onto a KeySize-byte
// AES key. The same secret always yields the same key.
func DeriveKey(secret []byte) []byte {
	hash := sha256.Sum256(secret)
	return hash[:]
}

// Seal encrypts plaintext with AES-256-GCM under key and returns a
// self-contained blob of the form nonce‖ciphertext. A fresh random nonce is
// generated per call, so sealing the same plaintext twice yields different
// blobs. Works for every byte string including empty input.
func Seal(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal. It is the exact inverse of Seal for
// all inputs. Any malformed or tampered blob yields ErrDecryptionFailed;
// callers must treat that as non-recoverable for the record and never fall
// back to interpreting the blob as plaintext.
func Open(blob, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(blob) < aesgcm.NonceSize() {
		return nil, common.ErrDecryptionFailed
	}
	nonce, ciphertext := blob[:aesgcm.NonceSize()], blob[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncodeForStorage renders a sealed blob as text safe for storage and
// transport.
func EncodeForStorage(blob []byte) string {
	return base64.StdEncoding.EncodeToString(blob)
}

// DecodeFromStorage reverses EncodeForStorage. A value that is not valid
// base64 is treated the same as a tampered blob.
func DecodeFromStorage(s string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	return blob, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key size: %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
