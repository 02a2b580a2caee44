package crypto

import (
	"cmp"
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"sort"
	"strings"

	jose "github.com/go-jose/go-jose/v3"
	gocose "github.com/veraison/go-cose"
)

// SignatureAlgorithm identifies the pairing of an encryption algorithm and a
// digest algorithm. Two values are equal when they name the same pairing.
type SignatureAlgorithm string

// MaskGenerationFunction identifies the MGF of a probabilistic signature scheme.
type MaskGenerationFunction string

// MGF1 is the only mask generation function used by RSASSA-PSS in practice.
const MGF1 MaskGenerationFunction = "MGF1"

// RSA PKCS#1 v1.5.
const (
	RSAMD5       SignatureAlgorithm = "RSA_MD5"
	RSASHA1      SignatureAlgorithm = "RSA_SHA1"
	RSASHA224    SignatureAlgorithm = "RSA_SHA224"
	RSASHA256    SignatureAlgorithm = "RSA_SHA256"
	RSASHA384    SignatureAlgorithm = "RSA_SHA384"
	RSASHA512    SignatureAlgorithm = "RSA_SHA512"
	RSASHA3224   SignatureAlgorithm = "RSA_SHA3_224"
	RSASHA3256   SignatureAlgorithm = "RSA_SHA3_256"
	RSASHA3384   SignatureAlgorithm = "RSA_SHA3_384"
	RSASHA3512   SignatureAlgorithm = "RSA_SHA3_512"
	RSARIPEMD160 SignatureAlgorithm = "RSA_RIPEMD160"
)

// RSASSA-PSS with MGF1.
const (
	RSAPSSSHA1    SignatureAlgorithm = "RSA_SSA_PSS_SHA1_MGF1"
	RSAPSSSHA224  SignatureAlgorithm = "RSA_SSA_PSS_SHA224_MGF1"
	RSAPSSSHA256  SignatureAlgorithm = "RSA_SSA_PSS_SHA256_MGF1"
	RSAPSSSHA384  SignatureAlgorithm = "RSA_SSA_PSS_SHA384_MGF1"
	RSAPSSSHA512  SignatureAlgorithm = "RSA_SSA_PSS_SHA512_MGF1"
	RSAPSSSHA3224 SignatureAlgorithm = "RSA_SSA_PSS_SHA3_224_MGF1"
	RSAPSSSHA3256 SignatureAlgorithm = "RSA_SSA_PSS_SHA3_256_MGF1"
	RSAPSSSHA3384 SignatureAlgorithm = "RSA_SSA_PSS_SHA3_384_MGF1"
	RSAPSSSHA3512 SignatureAlgorithm = "RSA_SSA_PSS_SHA3_512_MGF1"
)

// DSA.
const (
	DSASHA1   SignatureAlgorithm = "DSA_SHA1"
	DSASHA224 SignatureAlgorithm = "DSA_SHA224"
	DSASHA256 SignatureAlgorithm = "DSA_SHA256"
)

// ECDSA (X9.62).
const (
	ECDSASHA1      SignatureAlgorithm = "ECDSA_SHA1"
	ECDSASHA224    SignatureAlgorithm = "ECDSA_SHA224"
	ECDSASHA256    SignatureAlgorithm = "ECDSA_SHA256"
	ECDSASHA384    SignatureAlgorithm = "ECDSA_SHA384"
	ECDSASHA512    SignatureAlgorithm = "ECDSA_SHA512"
	ECDSASHA3224   SignatureAlgorithm = "ECDSA_SHA3_224"
	ECDSASHA3256   SignatureAlgorithm = "ECDSA_SHA3_256"
	ECDSASHA3384   SignatureAlgorithm = "ECDSA_SHA3_384"
	ECDSASHA3512   SignatureAlgorithm = "ECDSA_SHA3_512"
	ECDSARIPEMD160 SignatureAlgorithm = "ECDSA_RIPEMD160"
)

// Plain ECDSA (BSI TR-03111).
const (
	PlainECDSASHA1      SignatureAlgorithm = "PLAIN_ECDSA_SHA1"
	PlainECDSASHA224    SignatureAlgorithm = "PLAIN_ECDSA_SHA224"
	PlainECDSASHA256    SignatureAlgorithm = "PLAIN_ECDSA_SHA256"
	PlainECDSASHA384    SignatureAlgorithm = "PLAIN_ECDSA_SHA384"
	PlainECDSASHA512    SignatureAlgorithm = "PLAIN_ECDSA_SHA512"
	PlainECDSARIPEMD160 SignatureAlgorithm = "PLAIN_ECDSA_RIPEMD160"
)

// EdDSA.
const (
	Ed25519 SignatureAlgorithm = "ED25519"
	Ed448   SignatureAlgorithm = "ED448"
)

// Post-quantum (pure mode, no pre-hash).
const (
	MLDSA44 SignatureAlgorithm = "ML_DSA_44"
	MLDSA65 SignatureAlgorithm = "ML_DSA_65"
	MLDSA87 SignatureAlgorithm = "ML_DSA_87"

	SLHDSASHA2128s  SignatureAlgorithm = "SLH_DSA_SHA2_128S"
	SLHDSASHA2128f  SignatureAlgorithm = "SLH_DSA_SHA2_128F"
	SLHDSASHA2192s  SignatureAlgorithm = "SLH_DSA_SHA2_192S"
	SLHDSASHA2192f  SignatureAlgorithm = "SLH_DSA_SHA2_192F"
	SLHDSASHA2256s  SignatureAlgorithm = "SLH_DSA_SHA2_256S"
	SLHDSASHA2256f  SignatureAlgorithm = "SLH_DSA_SHA2_256F"
	SLHDSASHAKE128s SignatureAlgorithm = "SLH_DSA_SHAKE_128S"
	SLHDSASHAKE128f SignatureAlgorithm = "SLH_DSA_SHAKE_128F"
	SLHDSASHAKE192s SignatureAlgorithm = "SLH_DSA_SHAKE_192S"
	SLHDSASHAKE192f SignatureAlgorithm = "SLH_DSA_SHAKE_192F"
	SLHDSASHAKE256s SignatureAlgorithm = "SLH_DSA_SHAKE_256S"
	SLHDSASHAKE256f SignatureAlgorithm = "SLH_DSA_SHAKE_256F"
)

// signatureInfo holds metadata about a signature algorithm.
type signatureInfo struct {
	Encryption EncryptionAlgorithm
	Digest     DigestAlgorithm
	MGF        MaskGenerationFunction
	OID        asn1.ObjectIdentifier
	URIs       []string
	JWA        jose.SignatureAlgorithm
	COSE       gocose.Algorithm
	X509       x509.SignatureAlgorithm
}

func oid(arcs ...int) asn1.ObjectIdentifier { return asn1.ObjectIdentifier(arcs) }

const (
	xmldsig     = "http://www.w3.org/2000/09/xmldsig#"
	xmldsigMore = "http://www.w3.org/2001/04/xmldsig-more#"
	xmldsig11   = "http://www.w3.org/2009/xmldsig11#"
	xmldsig2007 = "http://www.w3.org/2007/05/xmldsig-more#"
	xmldsig2021 = "http://www.w3.org/2021/04/xmldsig-more#"
)

var signatures = map[SignatureAlgorithm]signatureInfo{
	// RSA
	RSAMD5:       {Encryption: EncryptionRSA, Digest: DigestMD5, OID: oid(1, 2, 840, 113549, 1, 1, 4), URIs: []string{xmldsigMore + "rsa-md5"}, X509: x509.MD5WithRSA},
	RSASHA1:      {Encryption: EncryptionRSA, Digest: DigestSHA1, OID: oid(1, 2, 840, 113549, 1, 1, 5), URIs: []string{xmldsig + "rsa-sha1"}, X509: x509.SHA1WithRSA},
	RSASHA224:    {Encryption: EncryptionRSA, Digest: DigestSHA224, OID: oid(1, 2, 840, 113549, 1, 1, 14), URIs: []string{xmldsigMore + "rsa-sha224"}},
	RSASHA256:    {Encryption: EncryptionRSA, Digest: DigestSHA256, OID: oid(1, 2, 840, 113549, 1, 1, 11), URIs: []string{xmldsigMore + "rsa-sha256"}, JWA: jose.RS256, COSE: AlgRS256, X509: x509.SHA256WithRSA},
	RSASHA384:    {Encryption: EncryptionRSA, Digest: DigestSHA384, OID: oid(1, 2, 840, 113549, 1, 1, 12), URIs: []string{xmldsigMore + "rsa-sha384"}, JWA: jose.RS384, COSE: AlgRS384, X509: x509.SHA384WithRSA},
	RSASHA512:    {Encryption: EncryptionRSA, Digest: DigestSHA512, OID: oid(1, 2, 840, 113549, 1, 1, 13), URIs: []string{xmldsigMore + "rsa-sha512"}, JWA: jose.RS512, COSE: AlgRS512, X509: x509.SHA512WithRSA},
	RSASHA3224:   {Encryption: EncryptionRSA, Digest: DigestSHA3224, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 13), URIs: []string{xmldsig2007 + "sha3-224-rsa"}},
	RSASHA3256:   {Encryption: EncryptionRSA, Digest: DigestSHA3256, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 14), URIs: []string{xmldsig2007 + "sha3-256-rsa"}},
	RSASHA3384:   {Encryption: EncryptionRSA, Digest: DigestSHA3384, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 15), URIs: []string{xmldsig2007 + "sha3-384-rsa"}},
	RSASHA3512:   {Encryption: EncryptionRSA, Digest: DigestSHA3512, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 16), URIs: []string{xmldsig2007 + "sha3-512-rsa"}},
	RSARIPEMD160: {Encryption: EncryptionRSA, Digest: DigestRIPEMD160, OID: oid(1, 3, 36, 3, 3, 1, 2), URIs: []string{xmldsigMore + "rsa-ripemd160"}},

	// RSASSA-PSS. The generic id-RSASSA-PSS OID is shared by every variant and
	// also names the bare encryption algorithm; only SHA-256 carries it here.
	RSAPSSSHA1:    {Encryption: EncryptionRSASSAPSS, Digest: DigestSHA1, MGF: MGF1, URIs: []string{xmldsig2007 + "sha1-rsa-MGF1"}},
	RSAPSSSHA224:  {Encryption: EncryptionRSASSAPSS, Digest: DigestSHA224, MGF: MGF1, URIs: []string{xmldsig2007 + "sha224-rsa-MGF1"}},
	RSAPSSSHA256:  {Encryption: EncryptionRSASSAPSS, Digest: DigestSHA256, MGF: MGF1, OID: oid(1, 2, 840, 113549, 1, 1, 10), URIs: []string{xmldsig2007 + "sha256-rsa-MGF1"}, JWA: jose.PS256, COSE: AlgPS256, X509: x509.SHA256WithRSAPSS},
	RSAPSSSHA384:  {Encryption: EncryptionRSASSAPSS, Digest: DigestSHA384, MGF: MGF1, URIs: []string{xmldsig2007 + "sha384-rsa-MGF1"}, JWA: jose.PS384, COSE: AlgPS384, X509: x509.SHA384WithRSAPSS},
	RSAPSSSHA512:  {Encryption: EncryptionRSASSAPSS, Digest: DigestSHA512, MGF: MGF1, URIs: []string{xmldsig2007 + "sha512-rsa-MGF1"}, JWA: jose.PS512, COSE: AlgPS512, X509: x509.SHA512WithRSAPSS},
	RSAPSSSHA3224: {Encryption: EncryptionRSASSAPSS, Digest: DigestSHA3224, MGF: MGF1, URIs: []string{xmldsig2007 + "sha3-224-rsa-MGF1"}},
	RSAPSSSHA3256: {Encryption: EncryptionRSASSAPSS, Digest: DigestSHA3256, MGF: MGF1, URIs: []string{xmldsig2007 + "sha3-256-rsa-MGF1"}},
	RSAPSSSHA3384: {Encryption: EncryptionRSASSAPSS, Digest: DigestSHA3384, MGF: MGF1, URIs: []string{xmldsig2007 + "sha3-384-rsa-MGF1"}},
	RSAPSSSHA3512: {Encryption: EncryptionRSASSAPSS, Digest: DigestSHA3512, MGF: MGF1, URIs: []string{xmldsig2007 + "sha3-512-rsa-MGF1"}},

	// DSA
	DSASHA1:   {Encryption: EncryptionDSA, Digest: DigestSHA1, OID: oid(1, 2, 840, 10040, 4, 3), URIs: []string{xmldsig + "dsa-sha1"}, X509: x509.DSAWithSHA1},
	DSASHA224: {Encryption: EncryptionDSA, Digest: DigestSHA224, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 1)},
	DSASHA256: {Encryption: EncryptionDSA, Digest: DigestSHA256, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 2), URIs: []string{xmldsig11 + "dsa-sha256"}, X509: x509.DSAWithSHA256},

	// ECDSA
	ECDSASHA1:      {Encryption: EncryptionECDSA, Digest: DigestSHA1, OID: oid(1, 2, 840, 10045, 4, 1), URIs: []string{xmldsigMore + "ecdsa-sha1"}, X509: x509.ECDSAWithSHA1},
	ECDSASHA224:    {Encryption: EncryptionECDSA, Digest: DigestSHA224, OID: oid(1, 2, 840, 10045, 4, 3, 1), URIs: []string{xmldsigMore + "ecdsa-sha224"}},
	ECDSASHA256:    {Encryption: EncryptionECDSA, Digest: DigestSHA256, OID: oid(1, 2, 840, 10045, 4, 3, 2), URIs: []string{xmldsigMore + "ecdsa-sha256"}, JWA: jose.ES256, COSE: AlgES256, X509: x509.ECDSAWithSHA256},
	ECDSASHA384:    {Encryption: EncryptionECDSA, Digest: DigestSHA384, OID: oid(1, 2, 840, 10045, 4, 3, 3), URIs: []string{xmldsigMore + "ecdsa-sha384"}, JWA: jose.ES384, COSE: AlgES384, X509: x509.ECDSAWithSHA384},
	ECDSASHA512:    {Encryption: EncryptionECDSA, Digest: DigestSHA512, OID: oid(1, 2, 840, 10045, 4, 3, 4), URIs: []string{xmldsigMore + "ecdsa-sha512"}, JWA: jose.ES512, COSE: AlgES512, X509: x509.ECDSAWithSHA512},
	ECDSASHA3224:   {Encryption: EncryptionECDSA, Digest: DigestSHA3224, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 9), URIs: []string{xmldsig2021 + "ecdsa-sha3-224"}},
	ECDSASHA3256:   {Encryption: EncryptionECDSA, Digest: DigestSHA3256, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 10), URIs: []string{xmldsig2021 + "ecdsa-sha3-256"}},
	ECDSASHA3384:   {Encryption: EncryptionECDSA, Digest: DigestSHA3384, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 11), URIs: []string{xmldsig2021 + "ecdsa-sha3-384"}},
	ECDSASHA3512:   {Encryption: EncryptionECDSA, Digest: DigestSHA3512, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 12), URIs: []string{xmldsig2021 + "ecdsa-sha3-512"}},
	ECDSARIPEMD160: {Encryption: EncryptionECDSA, Digest: DigestRIPEMD160, URIs: []string{xmldsig2007 + "ecdsa-ripemd160"}},

	// Plain ECDSA
	PlainECDSASHA1:      {Encryption: EncryptionPlainECDSA, Digest: DigestSHA1, OID: oid(0, 4, 0, 127, 0, 7, 1, 1, 4, 1, 1)},
	PlainECDSASHA224:    {Encryption: EncryptionPlainECDSA, Digest: DigestSHA224, OID: oid(0, 4, 0, 127, 0, 7, 1, 1, 4, 1, 2)},
	PlainECDSASHA256:    {Encryption: EncryptionPlainECDSA, Digest: DigestSHA256, OID: oid(0, 4, 0, 127, 0, 7, 1, 1, 4, 1, 3)},
	PlainECDSASHA384:    {Encryption: EncryptionPlainECDSA, Digest: DigestSHA384, OID: oid(0, 4, 0, 127, 0, 7, 1, 1, 4, 1, 4)},
	PlainECDSASHA512:    {Encryption: EncryptionPlainECDSA, Digest: DigestSHA512, OID: oid(0, 4, 0, 127, 0, 7, 1, 1, 4, 1, 5)},
	PlainECDSARIPEMD160: {Encryption: EncryptionPlainECDSA, Digest: DigestRIPEMD160, OID: oid(0, 4, 0, 127, 0, 7, 1, 1, 4, 1, 6)},

	// EdDSA
	Ed25519: {Encryption: EncryptionEdDSA, Digest: DigestSHA512, OID: oid(1, 3, 101, 112), URIs: []string{xmldsig2021 + "eddsa-ed25519"}, JWA: jose.EdDSA, COSE: AlgEdDSA, X509: x509.PureEd25519},
	Ed448:   {Encryption: EncryptionEdDSA, Digest: DigestSHAKE256, OID: oid(1, 3, 101, 113), URIs: []string{xmldsig2021 + "eddsa-ed448"}},

	// ML-DSA (FIPS 204)
	MLDSA44: {Encryption: EncryptionMLDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 17), COSE: AlgMLDSA44},
	MLDSA65: {Encryption: EncryptionMLDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 18), COSE: AlgMLDSA65},
	MLDSA87: {Encryption: EncryptionMLDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 19), COSE: AlgMLDSA87},

	// SLH-DSA (FIPS 205, RFC 9814)
	SLHDSASHA2128s:  {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 20)},
	SLHDSASHA2128f:  {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 21)},
	SLHDSASHA2192s:  {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 22)},
	SLHDSASHA2192f:  {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 23)},
	SLHDSASHA2256s:  {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 24)},
	SLHDSASHA2256f:  {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 25)},
	SLHDSASHAKE128s: {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 26)},
	SLHDSASHAKE128f: {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 27)},
	SLHDSASHAKE192s: {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 28)},
	SLHDSASHAKE192f: {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 29)},
	SLHDSASHAKE256s: {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 30)},
	SLHDSASHAKE256f: {Encryption: EncryptionSLHDSA, OID: oid(2, 16, 840, 1, 101, 3, 4, 3, 31)},
}

type signaturePair struct {
	enc EncryptionAlgorithm
	dig DigestAlgorithm
}

var (
	signaturesByOID  = make(map[string]SignatureAlgorithm)
	signaturesByURI  = make(map[string]SignatureAlgorithm)
	signaturesByPair = make(map[signaturePair]SignatureAlgorithm)
	signaturesByJWA  = make(map[jose.SignatureAlgorithm]SignatureAlgorithm)
	signaturesByCOSE = make(map[gocose.Algorithm]SignatureAlgorithm)
	signaturesByX509 = make(map[x509.SignatureAlgorithm]SignatureAlgorithm)
)

func init() {
	for alg, info := range signatures {
		if len(info.OID) > 0 {
			signaturesByOID[info.OID.String()] = alg
		}
		for _, uri := range info.URIs {
			signaturesByURI[uri] = alg
		}
		if info.Digest != "" {
			signaturesByPair[signaturePair{info.Encryption, info.Digest}] = alg
		}
		if info.JWA != "" {
			signaturesByJWA[info.JWA] = alg
		}
		if info.COSE != 0 {
			signaturesByCOSE[info.COSE] = alg
		}
		if info.X509 != x509.UnknownSignatureAlgorithm {
			signaturesByX509[info.X509] = alg
		}
	}
}

// SignatureAlgorithms returns every catalogued signature algorithm, sorted by name.
func SignatureAlgorithms() []SignatureAlgorithm {
	out := make([]SignatureAlgorithm, 0, len(signatures))
	for alg := range signatures {
		out = append(out, alg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SignatureAlgorithmForOID returns the signature algorithm registered under oid.
func SignatureAlgorithmForOID(oid string) (SignatureAlgorithm, bool) {
	alg, ok := signaturesByOID[NormalizeOID(oid)]
	return alg, ok
}

// SignatureAlgorithmForURI returns the signature algorithm for an XML-DSig URI.
func SignatureAlgorithmForURI(uri string) (SignatureAlgorithm, bool) {
	alg, ok := signaturesByURI[strings.TrimSpace(uri)]
	return alg, ok
}

// SignatureAlgorithmForName looks a signature algorithm up by catalogue name.
func SignatureAlgorithmForName(name string) (SignatureAlgorithm, bool) {
	want := canonicalName(name)
	for alg := range signatures {
		if canonicalName(string(alg)) == want {
			return alg, true
		}
	}
	return "", false
}

// SignatureAlgorithmForJWA returns the signature algorithm for a JWS "alg" value.
func SignatureAlgorithmForJWA(name string) (SignatureAlgorithm, bool) {
	alg, ok := signaturesByJWA[jose.SignatureAlgorithm(name)]
	return alg, ok
}

// SignatureAlgorithmForCOSE returns the signature algorithm for a COSE algorithm id.
func SignatureAlgorithmForCOSE(id gocose.Algorithm) (SignatureAlgorithm, bool) {
	alg, ok := signaturesByCOSE[id]
	return alg, ok
}

// SignatureAlgorithmForX509 maps a crypto/x509 signature algorithm to the catalogue.
func SignatureAlgorithmForX509(id x509.SignatureAlgorithm) (SignatureAlgorithm, bool) {
	alg, ok := signaturesByX509[id]
	return alg, ok
}

// GetAlgorithm combines an encryption algorithm and a digest algorithm.
// It returns false when the pairing is not catalogued.
func GetAlgorithm(enc EncryptionAlgorithm, dig DigestAlgorithm) (SignatureAlgorithm, bool) {
	alg, ok := signaturesByPair[signaturePair{enc, dig}]
	return alg, ok
}

// IsValid returns true if the signature algorithm is catalogued.
func (s SignatureAlgorithm) IsValid() bool {
	_, ok := signatures[s]
	return ok
}

// EncryptionAlgorithm returns the encryption half of the pairing.
func (s SignatureAlgorithm) EncryptionAlgorithm() EncryptionAlgorithm {
	return signatures[s].Encryption
}

// DigestAlgorithm returns the digest half of the pairing, or "" for pure schemes.
func (s SignatureAlgorithm) DigestAlgorithm() DigestAlgorithm {
	return signatures[s].Digest
}

// MaskGenerationFunction returns the MGF of PSS variants, or "".
func (s SignatureAlgorithm) MaskGenerationFunction() MaskGenerationFunction {
	return signatures[s].MGF
}

// OID returns the dotted OID, or "" when none is registered.
func (s SignatureAlgorithm) OID() string {
	info, ok := signatures[s]
	if !ok || len(info.OID) == 0 {
		return ""
	}
	return info.OID.String()
}

// URI returns the preferred XML-DSig URI, or "".
func (s SignatureAlgorithm) URI() string {
	if info, ok := signatures[s]; ok && len(info.URIs) > 0 {
		return info.URIs[0]
	}
	return ""
}

// JWA returns the JWS algorithm name, or "".
func (s SignatureAlgorithm) JWA() string {
	return string(signatures[s].JWA)
}

// COSEAlgorithm returns the COSE algorithm id.
func (s SignatureAlgorithm) COSEAlgorithm() (gocose.Algorithm, error) {
	info, ok := signatures[s]
	if !ok || info.COSE == 0 {
		return 0, fmt.Errorf("%w: no COSE identifier for %s", ErrUnknownAlgorithm, s)
	}
	return info.COSE, nil
}

// String returns the catalogue name.
func (s SignatureAlgorithm) String() string {
	return string(s)
}

// SignatureAlgorithmWithMinKeySize keys expiration lookups: the same
// signature algorithm may expire at different dates for different key-size
// tiers. It is comparable and safe to use as a map key.
type SignatureAlgorithmWithMinKeySize struct {
	Algorithm  SignatureAlgorithm `json:"algorithm" yaml:"algorithm"`
	MinKeySize int                `json:"min_key_size" yaml:"min_key_size"`
}

// NewSignatureAlgorithmWithMinKeySize builds a composite key.
func NewSignatureAlgorithmWithMinKeySize(alg SignatureAlgorithm, minKeySize int) SignatureAlgorithmWithMinKeySize {
	return SignatureAlgorithmWithMinKeySize{Algorithm: alg, MinKeySize: minKeySize}
}

// Compare orders by algorithm name, then by key size.
func (k SignatureAlgorithmWithMinKeySize) Compare(other SignatureAlgorithmWithMinKeySize) int {
	if c := cmp.Compare(k.Algorithm, other.Algorithm); c != 0 {
		return c
	}
	return cmp.Compare(k.MinKeySize, other.MinKeySize)
}

// String renders "ALG(>=SIZE)".
func (k SignatureAlgorithmWithMinKeySize) String() string {
	return fmt.Sprintf("%s(>=%d)", k.Algorithm, k.MinKeySize)
}
