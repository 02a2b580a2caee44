package validation

import (
	stdcrypto "crypto"
	"fmt"

	"github.com/remiblancher/cryptosuite/internal/crypto"
)

// TokenFromKey builds the token of an object signed with the private half of
// pub. The key size is measured from pub. When alg is empty it is derived
// from the key, which only works for schemes where the key fixes the
// algorithm (EdDSA, ML-DSA, SLH-DSA).
func TokenFromKey(id string, kind TokenKind, pub stdcrypto.PublicKey, alg crypto.SignatureAlgorithm, digests ...DigestUsage) (Token, error) {
	if alg == "" {
		derived, err := crypto.SignatureAlgorithmFromKey(pub)
		if err != nil {
			return Token{}, err
		}
		alg = derived
	}

	enc, err := crypto.EncryptionAlgorithmFromKey(pub)
	if err != nil {
		return Token{}, err
	}
	if !keyMatches(alg.EncryptionAlgorithm(), enc) {
		return Token{}, fmt.Errorf("%w: %s key cannot produce %s", crypto.ErrUnsupportedKey, enc, alg)
	}

	size, err := crypto.KeySize(pub)
	if err != nil {
		return Token{}, err
	}

	return Token{
		ID:                 id,
		Kind:               kind,
		SignatureAlgorithm: alg,
		KeySize:            size,
		Digests:            digests,
	}, nil
}

// keyMatches reports whether a key of family key can produce signatures of
// family sig. RSA keys sign PSS too and ECDSA keys sign plain ECDSA.
func keyMatches(sig, key crypto.EncryptionAlgorithm) bool {
	switch sig {
	case crypto.EncryptionRSASSAPSS:
		return key == crypto.EncryptionRSA
	case crypto.EncryptionPlainECDSA:
		return key == crypto.EncryptionECDSA
	default:
		return sig != "" && sig == key
	}
}
