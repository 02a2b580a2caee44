package validation

import (
	"bytes"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/remiblancher/cryptosuite/internal/crypto"
)

// ErrEmptyChain indicates a certificate chain without certificates.
var ErrEmptyChain = errors.New("certificate chain is empty")

// certificateEnvelope is the outer SEQUENCE of an X.509 certificate.
type certificateEnvelope struct {
	TBSCertificate     asn1.RawValue
	SignatureAlgorithm pkix.AlgorithmIdentifier
	SignatureValue     asn1.BitString
}

// TokensFromChain builds certificate tokens from a chain ordered leaf first.
// Each certificate is measured with its issuer's key: the next certificate
// in the chain, or its own key when it is the last one. context is the kind
// of object the chain supports.
func TokensFromChain(chain []*x509.Certificate, context TokenKind) ([]Token, error) {
	if len(chain) == 0 {
		return nil, ErrEmptyChain
	}

	tokens := make([]Token, 0, len(chain))
	for i, cert := range chain {
		issuer := cert
		if i+1 < len(chain) {
			issuer = chain[i+1]
		}

		alg, err := certificateSignatureAlgorithm(cert)
		if err != nil {
			return nil, fmt.Errorf("certificate %q: %w", cert.Subject.String(), err)
		}
		keySize, err := crypto.KeySize(issuer.PublicKey)
		if err != nil {
			keySize = 0
		}

		tokens = append(tokens, Token{
			ID:                 certificateID(cert),
			Kind:               KindCertificate,
			Context:            context,
			SignatureAlgorithm: alg,
			KeySize:            keySize,
		})
	}
	return tokens, nil
}

// certificateSignatureAlgorithm maps the certificate signature algorithm,
// falling back to its raw OID for algorithms crypto/x509 does not know.
func certificateSignatureAlgorithm(cert *x509.Certificate) (crypto.SignatureAlgorithm, error) {
	if alg, ok := crypto.SignatureAlgorithmForX509(cert.SignatureAlgorithm); ok {
		return alg, nil
	}

	var env certificateEnvelope
	if _, err := asn1.Unmarshal(cert.Raw, &env); err != nil {
		return "", fmt.Errorf("failed to parse certificate envelope: %w", err)
	}
	oid := env.SignatureAlgorithm.Algorithm.String()
	if alg, ok := crypto.ResolveSignature([]string{oid}, nil); ok {
		return alg, nil
	}
	return "", fmt.Errorf("%w: signature algorithm %s", crypto.ErrUnknownAlgorithm, oid)
}

func certificateID(cert *x509.Certificate) string {
	if cert.Subject.CommonName != "" {
		return fmt.Sprintf("%s (%s)", cert.Subject.CommonName, cert.SerialNumber.Text(16))
	}
	return cert.SerialNumber.Text(16)
}

// ParseCertificatesPEM decodes every CERTIFICATE block of data, in order.
func ParseCertificatesPEM(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	rest := bytes.TrimSpace(data)
	for len(rest) > 0 {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate #%d: %w", len(certs), err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, ErrEmptyChain
	}
	return certs, nil
}
