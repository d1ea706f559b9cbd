package partner

import (
	"strings"
	"unicode"

	"github.com/preload/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// NormalizeCUIT strips separators from a CUIT ("20-12345678-6" -> "20123456786")
func NormalizeCUIT(cuit string) string {
	var b strings.Builder
	for _, r := range cuit {
		if r == '-' || r == ' ' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidCUIT reports whether cuit is 11 digits with a correct check digit.
// Separators are ignored.
func ValidCUIT(cuit string) bool {
	c := NormalizeCUIT(cuit)
	if len(c) != 11 {
		return false
	}
	sum := 0
	for i := 0; i < 11; i++ {
		if c[i] < '0' || c[i] > '9' {
			return false
		}
		if i < 10 {
			sum += int(c[i]-'0') * cuitWeights[i]
		}
	}
	check := 11 - sum%11
	switch check {
	case 11:
		check = 0
	case 10:
		return false
	}
	return int(c[10]-'0') == check
}

func validateCUIT(cuit string) error {
	if strings.TrimSpace(cuit) == "" {
		return shared.NewDomainError("INVALID_CUIT", "CUIT cannot be empty")
	}
	if !ValidCUIT(cuit) {
		return shared.NewDomainError("INVALID_CUIT", "CUIT is not valid")
	}
	return nil
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName folds a business name for accent and case insensitive search:
// "Distribuidora Córdoba  S.A." -> "DISTRIBUIDORA CORDOBA S.A."
func NormalizeName(name string) string {
	out, _, err := transform.String(accentStripper, name)
	if err != nil {
		out = name
	}
	return strings.ToUpper(strings.Join(strings.Fields(out), " "))
}
