package crypto

import (
	"crypto"
	"crypto/md5"  //nolint:gosec // legacy digests must be identifiable and computable
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"crypto/sha512"
	"encoding/asn1"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // still referenced by legacy suites
	"golang.org/x/crypto/sha3"
)

// DigestAlgorithm identifies a one-way hash function.
type DigestAlgorithm string

// Digest algorithms known to the catalogue.
const (
	DigestMD2       DigestAlgorithm = "MD2"
	DigestMD5       DigestAlgorithm = "MD5"
	DigestSHA1      DigestAlgorithm = "SHA1"
	DigestSHA224    DigestAlgorithm = "SHA224"
	DigestSHA256    DigestAlgorithm = "SHA256"
	DigestSHA384    DigestAlgorithm = "SHA384"
	DigestSHA512    DigestAlgorithm = "SHA512"
	DigestSHA3224   DigestAlgorithm = "SHA3-224"
	DigestSHA3256   DigestAlgorithm = "SHA3-256"
	DigestSHA3384   DigestAlgorithm = "SHA3-384"
	DigestSHA3512   DigestAlgorithm = "SHA3-512"
	DigestSHAKE128  DigestAlgorithm = "SHAKE128"
	DigestSHAKE256  DigestAlgorithm = "SHAKE256"
	DigestRIPEMD160 DigestAlgorithm = "RIPEMD160"
	DigestWHIRLPOOL DigestAlgorithm = "WHIRLPOOL"
)

// digestInfo holds metadata about a digest algorithm.
type digestInfo struct {
	OID      asn1.ObjectIdentifier
	URIs     []string // first entry is the preferred XML-DSig identifier
	JAdES    string
	Hash     crypto.Hash
	SizeBits int
}

var digests = map[DigestAlgorithm]digestInfo{
	DigestMD2: {
		OID:      asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 2},
		URIs:     []string{"http://www.w3.org/2001/04/xmldsig-more#md2"},
		SizeBits: 128,
	},
	DigestMD5: {
		OID:      asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 5},
		URIs:     []string{"http://www.w3.org/2001/04/xmldsig-more#md5"},
		JAdES:    "MD5",
		Hash:     crypto.MD5,
		SizeBits: 128,
	},
	DigestSHA1: {
		OID:      asn1.ObjectIdentifier{1, 3, 14, 3, 2, 26},
		URIs:     []string{"http://www.w3.org/2000/09/xmldsig#sha1"},
		JAdES:    "S1",
		Hash:     crypto.SHA1,
		SizeBits: 160,
	},
	DigestSHA224: {
		OID:      asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 4},
		URIs:     []string{"http://www.w3.org/2001/04/xmldsig-more#sha224"},
		JAdES:    "S224",
		Hash:     crypto.SHA224,
		SizeBits: 224,
	},
	DigestSHA256: {
		OID: asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1},
		URIs: []string{
			"http://www.w3.org/2001/04/xmlenc#sha256",
			"http://www.w3.org/2001/04/xmldsig-more#sha256",
		},
		JAdES:    "S256",
		Hash:     crypto.SHA256,
		SizeBits: 256,
	},
	DigestSHA384: {
		OID: asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 2},
		URIs: []string{
			"http://www.w3.org/2001/04/xmldsig-more#sha384",
			"http://www.w3.org/2001/04/xmlenc#sha384",
		},
		JAdES:    "S384",
		Hash:     crypto.SHA384,
		SizeBits: 384,
	},
	DigestSHA512: {
		OID: asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 3},
		URIs: []string{
			"http://www.w3.org/2001/04/xmlenc#sha512",
			"http://www.w3.org/2001/04/xmldsig-more#sha512",
		},
		JAdES:    "S512",
		Hash:     crypto.SHA512,
		SizeBits: 512,
	},
	DigestSHA3224: {
		OID:      asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 7},
		URIs:     []string{"http://www.w3.org/2007/05/xmldsig-more#sha3-224"},
		JAdES:    "S3-224",
		Hash:     crypto.SHA3_224,
		SizeBits: 224,
	},
	DigestSHA3256: {
		OID:      asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 8},
		URIs:     []string{"http://www.w3.org/2007/05/xmldsig-more#sha3-256"},
		JAdES:    "S3-256",
		Hash:     crypto.SHA3_256,
		SizeBits: 256,
	},
	DigestSHA3384: {
		OID:      asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 9},
		URIs:     []string{"http://www.w3.org/2007/05/xmldsig-more#sha3-384"},
		JAdES:    "S3-384",
		Hash:     crypto.SHA3_384,
		SizeBits: 384,
	},
	DigestSHA3512: {
		OID:      asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 10},
		URIs:     []string{"http://www.w3.org/2007/05/xmldsig-more#sha3-512"},
		JAdES:    "S3-512",
		Hash:     crypto.SHA3_512,
		SizeBits: 512,
	},
	DigestSHAKE128: {
		OID:      asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 11},
		SizeBits: 256,
	},
	DigestSHAKE256: {
		OID:      asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 12},
		SizeBits: 512,
	},
	DigestRIPEMD160: {
		OID:      asn1.ObjectIdentifier{1, 3, 36, 3, 2, 1},
		URIs:     []string{"http://www.w3.org/2001/04/xmlenc#ripemd160"},
		JAdES:    "RIPEMD160",
		Hash:     crypto.RIPEMD160,
		SizeBits: 160,
	},
	DigestWHIRLPOOL: {
		OID:      asn1.ObjectIdentifier{1, 0, 10118, 3, 0, 55},
		URIs:     []string{"http://www.w3.org/2007/05/xmldsig-more#whirlpool"},
		JAdES:    "WHIRLPOOL",
		SizeBits: 512,
	},
}

var (
	digestsByOID = make(map[string]DigestAlgorithm)
	digestsByURI = make(map[string]DigestAlgorithm)
)

func init() {
	for alg, info := range digests {
		digestsByOID[info.OID.String()] = alg
		for _, uri := range info.URIs {
			digestsByURI[uri] = alg
		}
	}
}

// DigestAlgorithms returns every catalogued digest algorithm in a stable order.
func DigestAlgorithms() []DigestAlgorithm {
	return []DigestAlgorithm{
		DigestMD2, DigestMD5, DigestSHA1,
		DigestSHA224, DigestSHA256, DigestSHA384, DigestSHA512,
		DigestSHA3224, DigestSHA3256, DigestSHA3384, DigestSHA3512,
		DigestSHAKE128, DigestSHAKE256, DigestRIPEMD160, DigestWHIRLPOOL,
	}
}

// DigestAlgorithmForOID returns the digest algorithm registered under oid.
// The "urn:oid:" prefix is accepted.
func DigestAlgorithmForOID(oid string) (DigestAlgorithm, bool) {
	alg, ok := digestsByOID[NormalizeOID(oid)]
	return alg, ok
}

// DigestAlgorithmForURI returns the digest algorithm identified by an XML-DSig URI.
func DigestAlgorithmForURI(uri string) (DigestAlgorithm, bool) {
	alg, ok := digestsByURI[strings.TrimSpace(uri)]
	return alg, ok
}

// DigestAlgorithmForName looks a digest algorithm up by its catalogue name
// (case-insensitive, dashes and underscores ignored).
func DigestAlgorithmForName(name string) (DigestAlgorithm, bool) {
	want := canonicalName(name)
	for alg := range digests {
		if canonicalName(string(alg)) == want {
			return alg, true
		}
	}
	return "", false
}

// DigestAlgorithmForJAdES returns the digest algorithm for a JAdES hash name (e.g. "S256").
func DigestAlgorithmForJAdES(name string) (DigestAlgorithm, bool) {
	for alg, info := range digests {
		if info.JAdES != "" && info.JAdES == name {
			return alg, true
		}
	}
	return "", false
}

// DigestAlgorithmForHash maps a crypto.Hash back to the catalogue.
func DigestAlgorithmForHash(h crypto.Hash) (DigestAlgorithm, bool) {
	if h == 0 {
		return "", false
	}
	for alg, info := range digests {
		if info.Hash == h {
			return alg, true
		}
	}
	return "", false
}

// IsValid returns true if the digest algorithm is catalogued.
func (d DigestAlgorithm) IsValid() bool {
	_, ok := digests[d]
	return ok
}

// OID returns the dotted OID of the digest algorithm, or "" when unknown.
func (d DigestAlgorithm) OID() string {
	if info, ok := digests[d]; ok {
		return info.OID.String()
	}
	return ""
}

// URI returns the preferred XML-DSig URI, or "" when none is registered.
func (d DigestAlgorithm) URI() string {
	if info, ok := digests[d]; ok && len(info.URIs) > 0 {
		return info.URIs[0]
	}
	return ""
}

// URIs returns all registered XML-DSig URIs.
func (d DigestAlgorithm) URIs() []string {
	info, ok := digests[d]
	if !ok {
		return nil
	}
	return append([]string(nil), info.URIs...)
}

// Hash returns the matching crypto.Hash, or 0 when Go has none.
func (d DigestAlgorithm) Hash() crypto.Hash {
	return digests[d].Hash
}

// SizeBits returns the output length in bits.
func (d DigestAlgorithm) SizeBits() int {
	return digests[d].SizeBits
}

// SaltLength returns the RSASSA-PSS salt length conventionally paired with the digest.
func (d DigestAlgorithm) SaltLength() int {
	return digests[d].SizeBits / 8
}

// New returns a fresh hash.Hash for the digest algorithm.
func (d DigestAlgorithm) New() (hash.Hash, error) {
	switch d {
	case DigestMD5:
		return md5.New(), nil //nolint:gosec
	case DigestSHA1:
		return sha1.New(), nil //nolint:gosec
	case DigestSHA224:
		return sha256.New224(), nil
	case DigestSHA256:
		return sha256.New(), nil
	case DigestSHA384:
		return sha512.New384(), nil
	case DigestSHA512:
		return sha512.New(), nil
	case DigestSHA3224:
		return sha3.New224(), nil
	case DigestSHA3256:
		return sha3.New256(), nil
	case DigestSHA3384:
		return sha3.New384(), nil
	case DigestSHA3512:
		return sha3.New512(), nil
	case DigestRIPEMD160:
		return ripemd160.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrDigestUnavailable, d)
	}
}

// String returns the catalogue name.
func (d DigestAlgorithm) String() string {
	return string(d)
}

// NormalizeOID strips the "urn:oid:" prefix and surrounding whitespace.
func NormalizeOID(oid string) string {
	oid = strings.TrimSpace(oid)
	if len(oid) >= 8 && strings.EqualFold(oid[:8], "urn:oid:") {
		oid = oid[8:]
	}
	return oid
}

func canonicalName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}
