package auth

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestRandomIssuer_Format(t *testing.T) {
	i := NewRandomIssuer()

	tok, err := i.Generate()
	require.NoError(t, err)
	assert.Len(t, tok, TokenLength)

	raw, err := hex.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestRandomIssuer_Unique(t *testing.T) {
	i := NewRandomIssuer()
	seen := make(map[string]struct{}, 1000)

	for range 1000 {
		tok, err := i.Generate()
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token %s", tok)
		seen[tok] = struct{}{}
	}
}

func TestRandomIssuer_Deterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 2*tokenEntropyBytes)
	i := &RandomIssuer{reader: bytes.NewReader(seed)}

	a, err := i.Generate()
	require.NoError(t, err)
	b, err := i.Generate()
	require.NoError(t, err)
	assert.Equal(t, a, b, "same entropy, same token")
}

func TestRandomIssuer_EntropyFailure(t *testing.T) {
	i := &RandomIssuer{reader: failingReader{}}

	_, err := i.Generate()
	assert.ErrorContains(t, err, "no entropy")

	short := &RandomIssuer{reader: bytes.NewReader([]byte{1, 2, 3})}
	_, err = short.Generate()
	assert.Error(t, err)
}
