package cryptox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return DeriveKey([]byte("test-encryption-secret"))
}

func TestDeriveKey_DeterministicAndSized(t *testing.T) {
	k1 := DeriveKey([]byte("secret"))
	k2 := DeriveKey([]byte("secret"))
	require.Equal(t, k1, k2)
	require.Len(t, k1, KeySize)

	k3 := DeriveKey([]byte("other"))
	require.NotEqual(t, k1, k3)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := testKey()

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"ascii", []byte("s3cr3t")},
		{"non-utf8", []byte{0x00, 0xff, 0xfe, 0x01, 0x80}},
		{"large", bytes.Repeat([]byte{0xab}, 4096)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blob, err := Seal(tc.plaintext, key)
			require.NoError(t, err)

			got, err := Open(blob, key)
			require.NoError(t, err)
			require.True(t, bytes.Equal(tc.plaintext, got),
				"expected %x, got %x", tc.plaintext, got)
		})
	}
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	key := testKey()
	a, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	b, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	require.NotEqual(t, a, b, "two seals of the same plaintext must differ")
}

func TestOpen_AnyBitFlipFails(t *testing.T) {
	key := testKey()
	blob, err := Seal([]byte("integrity matters"), key)
	require.NoError(t, err)

	for i := range blob {
		tampered := make([]byte, len(blob))
		copy(tampered, blob)
		tampered[i] ^= 0x01

		_, err := Open(tampered, key)
		require.ErrorIs(t, err, common.ErrDecryptionFailed, "flip at byte %d", i)
	}
}

func TestOpen_WrongKeyFails(t *testing.T) {
	blob, err := Seal([]byte("payload"), testKey())
	require.NoError(t, err)

	_, err = Open(blob, DeriveKey([]byte("wrong key")))
	require.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestOpen_TruncatedBlobFails(t *testing.T) {
	_, err := Open([]byte{0x01, 0x02, 0x03}, testKey())
	require.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestSealOpen_InvalidKeySize(t *testing.T) {
	_, err := Seal([]byte("x"), []byte("short"))
	require.Error(t, err)
	require.False(t, errors.Is(err, common.ErrDecryptionFailed))

	_, err = Open([]byte("whatever"), []byte("short"))
	require.Error(t, err)
}

func TestStorageEncoding_RoundTrip(t *testing.T) {
	blob := []byte{0x00, 0x01, 0xff, 0x42}
	s := EncodeForStorage(blob)
	back, err := DecodeFromStorage(s)
	require.NoError(t, err)
	require.Equal(t, blob, back)
}

func TestDecodeFromStorage_InvalidBase64(t *testing.T) {
	_, err := DecodeFromStorage("%%% not base64 %%%")
	require.ErrorIs(t, err, common.ErrDecryptionFailed)
}
