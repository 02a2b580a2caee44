package validation

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remiblancher/cryptosuite/internal/crypto"
)

func TestU_TokenFromKey(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	mlPub, _, err := mldsa65.GenerateKey(rand.Reader)
	require.NoError(t, err)

	tests := []struct {
		name     string
		pub      any
		alg      crypto.SignatureAlgorithm
		wantAlg  crypto.SignatureAlgorithm
		wantSize int
	}{
		{"[Unit] TokenFromKey: RSA PKCS#1", &rsaKey.PublicKey, crypto.RSASHA256, crypto.RSASHA256, 2048},
		{"[Unit] TokenFromKey: RSA key signs PSS", &rsaKey.PublicKey, crypto.RSAPSSSHA256, crypto.RSAPSSSHA256, 2048},
		{"[Unit] TokenFromKey: ECDSA", &ecKey.PublicKey, crypto.ECDSASHA256, crypto.ECDSASHA256, 256},
		{"[Unit] TokenFromKey: ML-DSA derived", mlPub, "", crypto.MLDSA65, mldsa65.PublicKeySize * 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digests := []DigestUsage{{Algorithm: crypto.DigestSHA256, Position: PositionSignedAttributes}}
			tok, err := TokenFromKey("sig-1", KindSignature, tt.pub, tt.alg, digests...)
			require.NoError(t, err)
			assert.Equal(t, "sig-1", tok.ID)
			assert.Equal(t, KindSignature, tok.Kind)
			assert.Equal(t, tt.wantAlg, tok.SignatureAlgorithm)
			assert.Equal(t, tt.wantSize, tok.KeySize)
			assert.Equal(t, digests, tok.Digests)
		})
	}
}

func TestU_TokenFromKey_Errors(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	_, err = TokenFromKey("", KindSignature, &ecKey.PublicKey, crypto.RSASHA256)
	assert.ErrorIs(t, err, crypto.ErrUnsupportedKey)

	_, err = TokenFromKey("", KindSignature, &ecKey.PublicKey, "")
	assert.ErrorIs(t, err, crypto.ErrUnsupportedKey)

	_, err = TokenFromKey("", KindSignature, "not a key", crypto.RSASHA256)
	assert.ErrorIs(t, err, crypto.ErrUnsupportedKey)
}
