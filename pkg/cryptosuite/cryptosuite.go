// Package cryptosuite provides the public API for the cryptographic suite
// engine: loading suite documents, querying usage-scoped suites and
// checking the algorithms of tokens against them.
//
// A minimal program loads a document, builds a catalogue and validates:
//
//	doc, err := cryptosuite.Load("suite.xml")
//	if err != nil { ... }
//	cat, err := cryptosuite.NewCatalogue(doc)
//	if err != nil { ... }
//	v := cryptosuite.NewValidator(cat)
//	res, err := v.ValidateToken(cryptosuite.Token{
//	    Kind:               cryptosuite.KindSignature,
//	    SignatureAlgorithm: cryptosuite.RSASHA256,
//	    KeySize:            2048,
//	}, time.Now())
package cryptosuite

import (
	"github.com/remiblancher/cryptosuite/internal/loader"
	"github.com/remiblancher/cryptosuite/internal/policy"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

// Load reads a suite document from a file. The format is detected from the
// extension or content unless WithFormat is given.
func Load(path string, opts ...LoadOption) (*Document, error) {
	return loader.LoadFile(path, opts...)
}

// LoadBytes parses a suite document in the given format.
func LoadBytes(data []byte, format Format, opts ...LoadOption) (*Document, error) {
	return loader.LoadBytes(data, format, opts...)
}

// NewCatalogue prepares the usage-scoped suites of a document. Suites are
// resolved on first use and cached.
func NewCatalogue(doc SuiteDocument, opts ...CatalogueOption) (*Catalogue, error) {
	return policy.NewCatalogue(doc, opts...)
}

// NewStaticDocument wraps already built metadata and entries as a document.
func NewStaticDocument(metadata *Metadata, algorithms []Algorithm) SuiteDocument {
	return policy.NewStaticDocument(metadata, algorithms)
}

// NewValidator creates a validator checking tokens against a catalogue.
func NewValidator(c *Catalogue, opts ...ValidatorOption) *Validator {
	return validation.NewValidator(c, opts...)
}

// ParseCertificatesPEM decodes a PEM certificate chain.
var ParseCertificatesPEM = validation.ParseCertificatesPEM

// TokensFromChain builds certificate tokens from a chain ordered leaf first.
var TokensFromChain = validation.TokensFromChain

// TokenFromKey builds a token from the signer's public key, measuring the
// key size and deriving the algorithm when alg is empty.
var TokenFromKey = validation.TokenFromKey
