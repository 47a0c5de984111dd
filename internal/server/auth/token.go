package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/zeebo/blake3"
)

// TokenLength is the length of every issued token, in hex characters.
const TokenLength = 64

const tokenEntropyBytes = 64

// TokenIssuer mints opaque bearer tokens.
type TokenIssuer interface {
	Generate() (string, error)
}

// RandomIssuer hashes 512 bits from a CSPRNG with BLAKE3 and hex-encodes the
// 256-bit digest.
type RandomIssuer struct {
	reader io.Reader
}

func NewRandomIssuer() *RandomIssuer {
	return &RandomIssuer{reader: rand.Reader}
}

func (i *RandomIssuer) Generate() (string, error) {
	buf := make([]byte, tokenEntropyBytes)
	defer common.WipeByteArray(buf)

	if _, err := io.ReadFull(i.reader, buf); err != nil {
		return "", fmt.Errorf("token entropy: %w", err)
	}

	sum := blake3.Sum256(buf)
	return hex.EncodeToString(sum[:]), nil
}
