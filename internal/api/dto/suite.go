package dto

// PublisherInfo identifies the suite publisher.
type PublisherInfo struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	URI     string `json:"uri,omitempty"`
}

// SuiteResponse describes the loaded suite document.
type SuiteResponse struct {
	PolicyName string         `json:"policy_name"`
	PolicyOID  string         `json:"policy_oid,omitempty"`
	PolicyURI  string         `json:"policy_uri,omitempty"`
	Publisher  *PublisherInfo `json:"publisher,omitempty"`

	// IssueDate and NextUpdate are RFC3339.
	IssueDate  string `json:"issue_date,omitempty"`
	NextUpdate string `json:"next_update,omitempty"`

	Version  string `json:"version,omitempty"`
	Language string `json:"lang,omitempty"`

	// Entries is the number of algorithm entries in the document.
	Entries int `json:"entries"`

	// Scopes lists the scope names accepted by the scope endpoints.
	Scopes []string `json:"scopes"`
}

// DigestInfo is one acceptable digest algorithm.
type DigestInfo struct {
	Algorithm string `json:"algorithm"`
	OID       string `json:"oid,omitempty"`

	// NotAfter is the expiration date (RFC3339); absent when the algorithm
	// does not expire.
	NotAfter *string `json:"not_after,omitempty"`
}

// DigestsResponse lists the acceptable digest algorithms of a scope.
type DigestsResponse struct {
	Scope   string       `json:"scope"`
	Digests []DigestInfo `json:"digests"`
}

// SignatureInfo is one acceptable signature algorithm tier.
type SignatureInfo struct {
	Algorithm string `json:"algorithm"`
	OID       string `json:"oid,omitempty"`

	// MinKeySize is the smallest key size of the tier; 0 means unconstrained.
	MinKeySize int `json:"min_key_size"`

	// NotAfter is the expiration date (RFC3339); absent when the tier does
	// not expire.
	NotAfter *string `json:"not_after,omitempty"`
}

// SignaturesResponse lists the acceptable signature algorithms of a scope.
type SignaturesResponse struct {
	Scope      string          `json:"scope"`
	Signatures []SignatureInfo `json:"signatures"`
}
