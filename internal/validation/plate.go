package validation

import (
	"regexp"
	"strings"
)

var (
	oldPlate      = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
	mercosulPlate = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
)

// NormalizePlate upper-cases the plate and drops everything that is not a
// letter or digit, so "abc-1d23" becomes "ABC1D23".
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(plate) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPlate accepts the pre-2018 format (ABC1234) and the Mercosul one
// (ABC1D23). The input must already be normalized.
func ValidPlate(plate string) bool {
	if len(plate) != 7 {
		return false
	}
	return oldPlate.MatchString(plate) || mercosulPlate.MatchString(plate)
}
