package crypto

import (
	"crypto"
	"crypto/dsa" //nolint:staticcheck // DSA keys still appear in archived signatures
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
	"github.com/cloudflare/circl/sign/slhdsa"
)

// EncryptionAlgorithmFromKey returns the encryption algorithm family of a public key.
func EncryptionAlgorithmFromKey(pub crypto.PublicKey) (EncryptionAlgorithm, error) {
	switch pub.(type) {
	case *rsa.PublicKey:
		return EncryptionRSA, nil
	case *ecdsa.PublicKey:
		return EncryptionECDSA, nil
	case ed25519.PublicKey:
		return EncryptionEdDSA, nil
	case *dsa.PublicKey:
		return EncryptionDSA, nil
	case *mldsa44.PublicKey, *mldsa65.PublicKey, *mldsa87.PublicKey:
		return EncryptionMLDSA, nil
	case *slhdsa.PublicKey:
		return EncryptionSLHDSA, nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedKey, pub)
	}
}

// KeySize returns the key size in bits as a cryptographic suite measures it:
// modulus length for RSA, P length for DSA, field size for ECDSA and EdDSA,
// encoded public key length for the post-quantum families.
func KeySize(pub crypto.PublicKey) (int, error) {
	switch k := pub.(type) {
	case *rsa.PublicKey:
		return k.N.BitLen(), nil
	case *ecdsa.PublicKey:
		return k.Curve.Params().BitSize, nil
	case ed25519.PublicKey:
		return 256, nil
	case *dsa.PublicKey:
		return k.P.BitLen(), nil
	case *mldsa44.PublicKey:
		return mldsa44.PublicKeySize * 8, nil
	case *mldsa65.PublicKey:
		return mldsa65.PublicKeySize * 8, nil
	case *mldsa87.PublicKey:
		return mldsa87.PublicKeySize * 8, nil
	case *slhdsa.PublicKey:
		raw, err := k.MarshalBinary()
		if err != nil {
			return 0, fmt.Errorf("failed to encode SLH-DSA public key: %w", err)
		}
		return len(raw) * 8, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedKey, pub)
	}
}

// SignatureAlgorithmFromKey returns the signature algorithm implied by a
// public key for the pure schemes (EdDSA, ML-DSA, SLH-DSA), where the key
// alone fixes the algorithm.
func SignatureAlgorithmFromKey(pub crypto.PublicKey) (SignatureAlgorithm, error) {
	switch k := pub.(type) {
	case ed25519.PublicKey:
		return Ed25519, nil
	case *mldsa44.PublicKey:
		return MLDSA44, nil
	case *mldsa65.PublicKey:
		return MLDSA65, nil
	case *mldsa87.PublicKey:
		return MLDSA87, nil
	case *slhdsa.PublicKey:
		return signatureFromSLHDSAID(k.ID)
	default:
		return "", fmt.Errorf("%w: %T does not fix a signature algorithm", ErrUnsupportedKey, pub)
	}
}

func signatureFromSLHDSAID(id slhdsa.ID) (SignatureAlgorithm, error) {
	switch id {
	case slhdsa.SHA2_128s:
		return SLHDSASHA2128s, nil
	case slhdsa.SHA2_128f:
		return SLHDSASHA2128f, nil
	case slhdsa.SHA2_192s:
		return SLHDSASHA2192s, nil
	case slhdsa.SHA2_192f:
		return SLHDSASHA2192f, nil
	case slhdsa.SHA2_256s:
		return SLHDSASHA2256s, nil
	case slhdsa.SHA2_256f:
		return SLHDSASHA2256f, nil
	case slhdsa.SHAKE_128s:
		return SLHDSASHAKE128s, nil
	case slhdsa.SHAKE_128f:
		return SLHDSASHAKE128f, nil
	case slhdsa.SHAKE_192s:
		return SLHDSASHAKE192s, nil
	case slhdsa.SHAKE_192f:
		return SLHDSASHAKE192f, nil
	case slhdsa.SHAKE_256s:
		return SLHDSASHAKE256s, nil
	case slhdsa.SHAKE_256f:
		return SLHDSASHAKE256f, nil
	default:
		return "", fmt.Errorf("%w: SLH-DSA parameter set %v", ErrUnknownAlgorithm, id)
	}
}
