package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func TestSealAndOpen(t *testing.T) {
	box, err := NewBox(testKey)
	require.NoError(t, err)

	sealed, err := box.Seal("EAAGm0PX4ZCpsBO1234567890")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "EAAGm0PX")

	opened, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "EAAGm0PX4ZCpsBO1234567890", opened)
}

func TestNewBox_RejectsBadKeys(t *testing.T) {
	_, err := NewBox("short")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewBox(strings.Repeat("zz", 32))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestOpen_RejectsTamperedCiphertext(t *testing.T) {
	box, err := NewBox(testKey)
	require.NoError(t, err)

	sealed, err := box.Seal("refresh-token")
	require.NoError(t, err)

	_, err = box.Open("not-base64!!")
	assert.ErrorIs(t, err, ErrDecrypt)

	tampered := "AAAA" + sealed[4:]
	_, err = box.Open(tampered)
	assert.ErrorIs(t, err, ErrDecrypt)
}
