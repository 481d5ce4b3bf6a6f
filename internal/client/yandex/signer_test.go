package yandex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLinkSigner_Sign tests the exact link format.
func TestLinkSigner_Sign(t *testing.T) {
	t.Parallel()

	signer := NewLinkSigner("", nil)

	link, err := signer.Sign(
		&TrackDownloadMetadata{Src: "https://storage.example/info", Codec: "mp3"},
		&StorageLocation{Host: "h", Path: "/a/b/c", TS: "100", S: "xyz"},
	)
	require.NoError(t, err)

	assert.Equal(t, "https://h/get-mp3/83161d983ffbf5db502256de7b008cb107747000/100//a/b/c", link)
}

// TestLinkSigner_Deterministic tests that equal inputs give equal signatures.
func TestLinkSigner_Deterministic(t *testing.T) {
	t.Parallel()

	inputs := []struct{ path, s, expected string }{
		{path: "/a/b/c", s: "xyz", expected: "45bd96682e668ec95c2c5c9da97d337ef1249f60"},
		{path: "/", s: "", expected: "ff787ce83e55f2d82d3d3ebd5adcfc74d10735c3"},
		{path: "/music/Кино.mp3", s: "0123456789abcdef", expected: "3c167691f66e292df91c79d6c665f1c1eb6a2c4c"},
	}

	first := NewLinkSigner(DefaultSignSalt, []byte("key"))
	second := NewLinkSigner(DefaultSignSalt, []byte("key"))

	for _, input := range inputs {
		a, err := first.Signature(input.path, input.s)
		require.NoError(t, err)

		b, err := first.Signature(input.path, input.s)
		require.NoError(t, err)

		c, err := second.Signature(input.path, input.s)
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assert.Equal(t, a, c)
		assert.Equal(t, input.expected, a)
	}
}

// TestLinkSigner_KeyAndSalt tests that the key and salt change the signature.
func TestLinkSigner_KeyAndSalt(t *testing.T) {
	t.Parallel()

	plain, err := NewLinkSigner("", nil).Signature("/a/b/c", "xyz")
	require.NoError(t, err)

	keyed, err := NewLinkSigner("", []byte("secret")).Signature("/a/b/c", "xyz")
	require.NoError(t, err)

	salted, err := NewLinkSigner("other-salt", nil).Signature("/a/b/c", "xyz")
	require.NoError(t, err)

	assert.Equal(t, "83161d983ffbf5db502256de7b008cb107747000", plain)
	assert.Equal(t, "4249da0ab5a33c97eb1733786a6366a7bd30fe16", keyed)
	assert.NotEqual(t, plain, salted)
}

// TestLinkSigner_Malformed tests inputs that can't be signed.
func TestLinkSigner_Malformed(t *testing.T) {
	t.Parallel()

	signer := NewLinkSigner("", nil)
	metadata := &TrackDownloadMetadata{Src: "x", Codec: "mp3"}

	_, err := signer.Sign(metadata, &StorageLocation{Host: "h", Path: "", TS: "1", S: "s"})
	require.ErrorIs(t, err, ErrMalformedLocation)

	_, err = signer.Sign(nil, &StorageLocation{Host: "h", Path: "/a"})
	require.ErrorIs(t, err, ErrMalformedLocation)

	_, err = signer.Sign(metadata, nil)
	require.ErrorIs(t, err, ErrMalformedLocation)
}
