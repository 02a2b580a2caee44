package crypto

import (
	"strconv"

	gocose "github.com/veraison/go-cose"
)

// ResolveDigest resolves a digest algorithm from an entry's identifiers.
// OIDs are tried in order first, then URIs; the first hit wins.
func ResolveDigest(oids, uris []string) (DigestAlgorithm, bool) {
	for _, o := range oids {
		if alg, ok := DigestAlgorithmForOID(o); ok {
			return alg, true
		}
	}
	for _, u := range uris {
		if alg, ok := DigestAlgorithmForURI(u); ok {
			return alg, true
		}
	}
	return "", false
}

// ResolveEncryption resolves a bare encryption algorithm from an entry's OIDs.
func ResolveEncryption(oids []string) (EncryptionAlgorithm, bool) {
	for _, o := range oids {
		if alg, ok := EncryptionAlgorithmForOID(o); ok {
			return alg, true
		}
	}
	return "", false
}

// ResolveSignature resolves a signature algorithm from an entry's identifiers.
//
// Some OIDs (id-RSASSA-PSS) name both a signature algorithm and an encryption
// algorithm. When the entry carries any OID that resolves as an encryption
// algorithm, OID matches are not trusted and only URIs can identify the
// signature algorithm.
func ResolveSignature(oids, uris []string) (SignatureAlgorithm, bool) {
	if _, isEncryption := ResolveEncryption(oids); !isEncryption {
		for _, o := range oids {
			if alg, ok := SignatureAlgorithmForOID(o); ok {
				return alg, true
			}
		}
	}
	for _, u := range uris {
		if alg, ok := SignatureAlgorithmForURI(u); ok {
			return alg, true
		}
	}
	return "", false
}

// LookupDigest finds a digest algorithm from user input: a catalogue name,
// a JAdES hash name, an OID or a URI.
func LookupDigest(s string) (DigestAlgorithm, bool) {
	if alg, ok := DigestAlgorithmForName(s); ok {
		return alg, true
	}
	if alg, ok := DigestAlgorithmForJAdES(s); ok {
		return alg, true
	}
	return ResolveDigest([]string{s}, []string{s})
}

// LookupSignature finds a signature algorithm from user input: a catalogue
// name, a JWS "alg" value, a COSE algorithm id, an OID or a URI.
func LookupSignature(s string) (SignatureAlgorithm, bool) {
	if alg, ok := SignatureAlgorithmForName(s); ok {
		return alg, true
	}
	if alg, ok := SignatureAlgorithmForJWA(s); ok {
		return alg, true
	}
	if id, err := strconv.Atoi(s); err == nil {
		return SignatureAlgorithmForCOSE(gocose.Algorithm(id))
	}
	if alg, ok := SignatureAlgorithmForOID(s); ok {
		return alg, true
	}
	return SignatureAlgorithmForURI(s)
}
