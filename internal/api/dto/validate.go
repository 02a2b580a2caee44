package dto

// DigestUsageRequest is one digest of a token.
type DigestUsageRequest struct {
	// Algorithm is a digest name, JAdES name, OID or URI.
	Algorithm string `json:"algorithm"`

	// Position is a digest position name (e.g. "MESSAGE_IMPRINT").
	Position string `json:"position"`
}

// TokenRequest describes the algorithms used by one token.
type TokenRequest struct {
	ID string `json:"id,omitempty"`

	// Kind is the token kind (CERTIFICATE, SIGNATURE, TIMESTAMP, ...).
	Kind string `json:"kind"`

	// Context is the kind of object a certificate belongs to.
	Context string `json:"context,omitempty"`

	// SignatureAlgorithm is a catalogue name, JWS alg, OID or URI.
	SignatureAlgorithm string `json:"signature_algorithm,omitempty"`

	KeySize int                  `json:"key_size,omitempty"`
	Digests []DigestUsageRequest `json:"digests,omitempty"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token TokenRequest `json:"token"`

	// ValidationTime is RFC3339; defaults to now.
	ValidationTime string `json:"validation_time,omitempty"`
}

// ValidateChainRequest represents a certificate chain validation request.
type ValidateChainRequest struct {
	Chain *CertificateChain `json:"chain"`

	// Context is the kind of object the chain supports; defaults to SIGNATURE.
	Context string `json:"context,omitempty"`

	// ValidationTime is RFC3339; defaults to now.
	ValidationTime string `json:"validation_time,omitempty"`
}
