package policy

import (
	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/logging"
)

// normalizeParameterName maps the spellings found in published suites
// (moduluslength, plength, qlength) to the catalogue parameter names.
func normalizeParameterName(name string) string {
	switch foldName(name) {
	case "MODULUSLENGTH":
		return crypto.ParamModulusLength
	case "PLENGTH":
		return crypto.ParamPLength
	case "QLENGTH":
		return crypto.ParamQLength
	default:
		return name
	}
}

// keySize extracts the minimum key size of one evaluation row for an
// encryption algorithm family.
//
// The first parameter named after the family's key-size parameter wins.
// QLENGTH is skipped. Any other parameter is reported and its min is kept
// as a fallback, the last one seen winning. No parameter means 0 (any size).
// Max bounds are never enforced, see warnUnsupportedMax.
func keySize(enc crypto.EncryptionAlgorithm, params []Parameter, log logging.Logger) int {
	want := enc.KeySizeParameter()
	fallback := 0
	for _, p := range params {
		name := normalizeParameterName(p.Name)
		switch {
		case want != "" && name == want:
			return minOf(p)
		case name == crypto.ParamQLength:
			continue
		default:
			log.Warn("Parameter {Parameter} is not supported for {Encryption}, using min {Min} as key size",
				p.Name, enc, minOf(p))
			fallback = minOf(p)
		}
	}
	return fallback
}

// warnUnsupportedMax logs each distinct max bound found in the entries once.
func warnUnsupportedMax(algorithms []Algorithm, log logging.Logger) {
	type bound struct {
		name string
		max  int
	}
	seen := make(map[bound]bool)
	for _, a := range algorithms {
		for _, row := range a.Evaluations {
			for _, p := range row.Parameters {
				if p.Max == nil {
					continue
				}
				b := bound{normalizeParameterName(p.Name), *p.Max}
				if seen[b] {
					continue
				}
				seen[b] = true
				log.Warn("Parameter {Parameter} max {Max} is not supported and is ignored", p.Name, *p.Max)
			}
		}
	}
}

func minOf(p Parameter) int {
	if p.Min == nil {
		return 0
	}
	return *p.Min
}
