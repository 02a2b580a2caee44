package cryptosuite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testJSONSuite = `{
  "policy_name": "Facade suite",
  "next_update": "2030-01-01",
  "algorithms": [
    {"name": "SHA1", "oids": ["1.3.14.3.2.26"], "evaluations": [{"end": "2009-12-31"}]},
    {"name": "SHA256", "oids": ["2.16.840.1.101.3.4.2.1"], "evaluations": [{}]},
    {"name": "RSA", "oids": ["1.2.840.113549.1.1.1"], "evaluations": [
      {"parameters": [{"name": "moduluslength", "min": 1900}], "end": "2019-12-31"},
      {"parameters": [{"name": "moduluslength", "min": 3000}]}
    ]}
  ]
}`

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestU_Facade_LoadAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.json")
	if err := os.WriteFile(path, []byte(testJSONSuite), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Format() != FormatJSON {
		t.Errorf("Format() = %s, want json", doc.Format())
	}

	cat, err := NewCatalogue(doc)
	if err != nil {
		t.Fatalf("NewCatalogue() error = %v", err)
	}
	suite, err := cat.Suite(ScopeSignature)
	if err != nil {
		t.Fatalf("Suite() error = %v", err)
	}
	if suite.PolicyName() != "Facade suite" {
		t.Errorf("PolicyName() = %q", suite.PolicyName())
	}

	v := NewValidator(cat)
	tests := []struct {
		name    string
		keySize int
		at      time.Time
		want    Status
	}{
		{"[Unit] Facade: long key", 3072, date("2024-01-01"), StatusPassed},
		{"[Unit] Facade: short key expired", 2048, date("2024-01-01"), StatusFailed},
		{"[Unit] Facade: short key in time", 2048, date("2015-01-01"), StatusPassed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.ValidateToken(Token{
				Kind:               KindSignature,
				SignatureAlgorithm: RSASHA256,
				KeySize:            tt.keySize,
				Digests:            []DigestUsage{{Algorithm: SHA256}},
			}, tt.at)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if res.Status != tt.want {
				t.Errorf("Status = %s, want %s", res.Status, tt.want)
			}
		})
	}
}

func TestU_Facade_LoadBytesErrors(t *testing.T) {
	if _, err := LoadBytes([]byte(testJSONSuite), Format("toml")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadBytes(toml) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := LoadBytes([]byte("<nope"), FormatXML); err == nil {
		t.Error("LoadBytes(malformed XML) should fail")
	}
}

func TestU_Facade_StaticDocument(t *testing.T) {
	end := date("2020-01-01")
	doc := NewStaticDocument(&Metadata{PolicyName: "Static"}, []Algorithm{
		{
			Name:        "SHA1",
			OIDs:        []string{"1.3.14.3.2.26"},
			Evaluations: []Evaluation{{Validity: Validity{End: &end}}},
		},
	})

	cat, err := NewCatalogue(doc, WithDefaultLevels(LevelSet{Level: LevelWarn}))
	if err != nil {
		t.Fatalf("NewCatalogue() error = %v", err)
	}
	res, err := NewValidator(cat).ValidateToken(Token{
		Kind:    KindTimestamp,
		Digests: []DigestUsage{{Algorithm: SHA1, Position: "MESSAGE_IMPRINT"}},
	}, date("2024-01-01"))
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if res.Status != StatusWarning {
		t.Errorf("Status = %s, want WARNING", res.Status)
	}

	if _, err := NewCatalogue(NewStaticDocument(nil, nil)); !errors.Is(err, ErrMissingMetadata) {
		t.Errorf("NewCatalogue(nil metadata) error = %v, want ErrMissingMetadata", err)
	}
}

func TestU_Facade_Lookup(t *testing.T) {
	if alg, ok := LookupSignature("PS256"); !ok || alg != RSAPSSSHA256 {
		t.Errorf("LookupSignature(PS256) = %s, %v", alg, ok)
	}
	if alg, ok := LookupDigest("2.16.840.1.101.3.4.2.2"); !ok || alg != SHA384 {
		t.Errorf("LookupDigest(SHA-384 OID) = %s, %v", alg, ok)
	}
	if _, ok := LookupSignature("nope"); ok {
		t.Error("LookupSignature(nope) should fail")
	}
	if s, err := ParseScope("TIMESTAMP_CERTIFICATES"); err != nil || s != ScopeTimestampCertificates {
		t.Errorf("ParseScope() = %s, %v", s, err)
	}
}
