package crypto

import (
	gocose "github.com/veraison/go-cose"
)

// COSE algorithm ids.
// Classical algorithms come from the IANA COSE Algorithms registry,
// ML-DSA ids follow draft-ietf-cose-dilithium.
const (
	AlgES256 gocose.Algorithm = -7   // ECDSA w/ SHA-256
	AlgES384 gocose.Algorithm = -35  // ECDSA w/ SHA-384
	AlgES512 gocose.Algorithm = -36  // ECDSA w/ SHA-512
	AlgEdDSA gocose.Algorithm = -8   // EdDSA
	AlgPS256 gocose.Algorithm = -37  // RSASSA-PSS w/ SHA-256
	AlgPS384 gocose.Algorithm = -38  // RSASSA-PSS w/ SHA-384
	AlgPS512 gocose.Algorithm = -39  // RSASSA-PSS w/ SHA-512
	AlgRS256 gocose.Algorithm = -257 // RSASSA-PKCS1-v1_5 w/ SHA-256
	AlgRS384 gocose.Algorithm = -258 // RSASSA-PKCS1-v1_5 w/ SHA-384
	AlgRS512 gocose.Algorithm = -259 // RSASSA-PKCS1-v1_5 w/ SHA-512

	AlgMLDSA44 gocose.Algorithm = -48
	AlgMLDSA65 gocose.Algorithm = -49
	AlgMLDSA87 gocose.Algorithm = -50
)
