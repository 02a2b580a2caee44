// Package crypto holds the algorithm identity catalogue used by the
// cryptographic suite engine: digest algorithms, encryption (key) algorithms
// and the signature algorithms pairing the two.
//
// Every identity can be resolved from an OID or a URI. Human-readable names
// are informational and never drive policy resolution.
package crypto

import (
	"encoding/asn1"
	"errors"
)

// Sentinel errors for catalogue lookups.
var (
	// ErrDigestUnavailable indicates Go has no implementation of the digest.
	ErrDigestUnavailable = errors.New("digest algorithm not available")

	// ErrUnsupportedKey indicates a public key type the catalogue cannot measure.
	ErrUnsupportedKey = errors.New("unsupported public key type")

	// ErrUnknownAlgorithm indicates an identifier missing from the catalogue.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// EncryptionAlgorithm identifies an asymmetric signing primitive,
// independently of the digest it is combined with.
type EncryptionAlgorithm string

// Encryption algorithms known to the catalogue.
const (
	EncryptionRSA        EncryptionAlgorithm = "RSA"
	EncryptionRSASSAPSS  EncryptionAlgorithm = "RSASSA-PSS"
	EncryptionDSA        EncryptionAlgorithm = "DSA"
	EncryptionECDSA      EncryptionAlgorithm = "ECDSA"
	EncryptionPlainECDSA EncryptionAlgorithm = "PLAIN-ECDSA"
	EncryptionEdDSA      EncryptionAlgorithm = "EdDSA"
	EncryptionMLDSA      EncryptionAlgorithm = "ML-DSA"
	EncryptionSLHDSA     EncryptionAlgorithm = "SLH-DSA"
)

// Key-size parameter names used by cryptographic suites.
const (
	ParamModulusLength = "MODULUS_LENGTH"
	ParamPLength       = "PLENGTH"
	ParamQLength       = "QLENGTH"
)

// encryptionInfo holds metadata about an encryption algorithm.
type encryptionInfo struct {
	OID          asn1.ObjectIdentifier
	KeySizeParam string
	Description  string
}

var encryptions = map[EncryptionAlgorithm]encryptionInfo{
	EncryptionRSA: {
		OID:          asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1},
		KeySizeParam: ParamModulusLength,
		Description:  "RSA PKCS#1 v1.5",
	},
	EncryptionRSASSAPSS: {
		OID:          asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 10},
		KeySizeParam: ParamModulusLength,
		Description:  "RSASSA-PSS",
	},
	EncryptionDSA: {
		OID:          asn1.ObjectIdentifier{1, 2, 840, 10040, 4, 1},
		KeySizeParam: ParamPLength,
		Description:  "DSA",
	},
	EncryptionECDSA: {
		OID:          asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1},
		KeySizeParam: ParamPLength,
		Description:  "ECDSA (X9.62 DER signature)",
	},
	EncryptionPlainECDSA: {
		OID:          asn1.ObjectIdentifier{0, 4, 0, 127, 0, 7, 1, 1, 4, 1},
		KeySizeParam: ParamPLength,
		Description:  "ECDSA (BSI TR-03111 plain signature)",
	},
	EncryptionEdDSA: {
		KeySizeParam: ParamPLength,
		Description:  "EdDSA (Ed25519/Ed448)",
	},
	EncryptionMLDSA: {
		Description: "ML-DSA (FIPS 204)",
	},
	EncryptionSLHDSA: {
		Description: "SLH-DSA (FIPS 205)",
	},
}

var encryptionsByOID = make(map[string]EncryptionAlgorithm)

func init() {
	for alg, info := range encryptions {
		if len(info.OID) > 0 {
			encryptionsByOID[info.OID.String()] = alg
		}
	}
}

// EncryptionAlgorithmForOID returns the encryption algorithm registered under oid.
func EncryptionAlgorithmForOID(oid string) (EncryptionAlgorithm, bool) {
	alg, ok := encryptionsByOID[NormalizeOID(oid)]
	return alg, ok
}

// EncryptionAlgorithmForName looks an encryption algorithm up by catalogue name.
func EncryptionAlgorithmForName(name string) (EncryptionAlgorithm, bool) {
	want := canonicalName(name)
	for alg := range encryptions {
		if canonicalName(string(alg)) == want {
			return alg, true
		}
	}
	return "", false
}

// IsValid returns true if the encryption algorithm is catalogued.
func (e EncryptionAlgorithm) IsValid() bool {
	_, ok := encryptions[e]
	return ok
}

// OID returns the dotted OID, or "" when the family has none.
func (e EncryptionAlgorithm) OID() string {
	info, ok := encryptions[e]
	if !ok || len(info.OID) == 0 {
		return ""
	}
	return info.OID.String()
}

// KeySizeParameter returns the suite parameter carrying this family's key size:
// MODULUS_LENGTH for RSA and RSASSA-PSS, PLENGTH for DSA, ECDSA and EdDSA.
// PQC families have none.
func (e EncryptionAlgorithm) KeySizeParameter() string {
	return encryptions[e].KeySizeParam
}

// Description returns a human-readable description.
func (e EncryptionAlgorithm) Description() string {
	if info, ok := encryptions[e]; ok {
		return info.Description
	}
	return "Unknown algorithm"
}

// IsPQC returns true for post-quantum families.
func (e EncryptionAlgorithm) IsPQC() bool {
	return e == EncryptionMLDSA || e == EncryptionSLHDSA
}

// String returns the catalogue name.
func (e EncryptionAlgorithm) String() string {
	return string(e)
}
