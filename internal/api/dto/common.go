// Package dto provides Data Transfer Objects for the REST API.
package dto

import (
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/remiblancher/cryptosuite/internal/validation"
)

// ErrChainEncoding indicates a chain payload that cannot be decoded.
var ErrChainEncoding = errors.New("invalid chain encoding")

// Chain encodings.
const (
	ChainEncodingPEM = "pem"
	ChainEncodingDER = "der"
)

// CertificateChain carries a certificate chain, leaf first.
type CertificateChain struct {
	// Data is PEM text, or base64 of the concatenated DER certificates.
	Data string `json:"data"`

	// Encoding is "pem" (default) or "der".
	Encoding string `json:"encoding,omitempty"`
}

// Certificates decodes the chain.
func (c *CertificateChain) Certificates() ([]*x509.Certificate, error) {
	if c == nil || c.Data == "" {
		return nil, validation.ErrEmptyChain
	}
	switch c.Encoding {
	case ChainEncodingPEM, "":
		return validation.ParseCertificatesPEM([]byte(c.Data))
	case ChainEncodingDER:
		der, err := base64.StdEncoding.DecodeString(c.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChainEncoding, err)
		}
		certs, err := x509.ParseCertificates(der)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChainEncoding, err)
		}
		if len(certs) == 0 {
			return nil, validation.ErrEmptyChain
		}
		return certs, nil
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrChainEncoding, c.Encoding)
	}
}

// APIError represents a standardized error response.
type APIError struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details provides additional context about the error.
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Status is "ok" or "degraded".
	Status string `json:"status"`

	// Version is the server version.
	Version string `json:"version"`

	// Policy is the name of the loaded suite.
	Policy string `json:"policy,omitempty"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	// Ready indicates if the server is ready to accept requests.
	Ready bool `json:"ready"`

	// Checks lists individual readiness checks.
	Checks map[string]bool `json:"checks,omitempty"`
}
