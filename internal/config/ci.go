package config

import "github.com/gkampitakis/ciinfo"

// ColorEnabled reports whether reporters should emit ANSI styling.
// "always" → true, "never" → false, "auto" → enabled on a terminal when
// not running in CI.
func ColorEnabled(mode string, isTerminal bool) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return isTerminal && !ciinfo.IsCI
	}
}

// CIName returns the detected CI provider name, or empty string if not in CI.
func CIName() string {
	if !ciinfo.IsCI {
		return ""
	}
	return ciinfo.Name
}
