package cli

import "github.com/remiblancher/cryptosuite/internal/validation"

// ANSI color codes for terminal output.
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
)

// FormatStatus returns a colored status string.
func FormatStatus(status validation.Status) string {
	switch status {
	case validation.StatusPassed:
		return ColorGreen + string(status) + ColorReset
	case validation.StatusFailed:
		return ColorRed + string(status) + ColorReset
	case validation.StatusWarning:
		return ColorYellow + string(status) + ColorReset
	case validation.StatusInfo:
		return ColorBlue + string(status) + ColorReset
	default:
		return string(status)
	}
}
