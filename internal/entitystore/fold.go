package entitystore

import (
	"pos-proximity/internal/models"
	"strings"
)

// Canonical classification tokens after folding.
const (
	tokenOutlet   = "magaza"
	tokenProducer = "uretici"
)

// Turkish letters folded to their unaccented base. Applied after lowercasing,
// so only lowercase forms are listed. strings.ToLower maps a precomposed "İ"
// straight to "i"; the U+0307 entry covers input already decomposed into
// "I" plus a combining dot above.
var foldReplacer = strings.NewReplacer(
	"ü", "u",
	"ı", "i",
	"ş", "s",
	"ğ", "g",
	"ö", "o",
	"ç", "c",
	"\u0307", "",
)

// NormalizeClassification trims, lowercases and folds a raw TIPI value.
func NormalizeClassification(raw string) string {
	return foldReplacer.Replace(strings.ToLower(strings.TrimSpace(raw)))
}

// ClassifyRole maps a raw classification onto a role. Unknown labels are
// reported with ok=false and must be dropped, never defaulted.
func ClassifyRole(raw string) (role models.Role, ok bool) {
	switch NormalizeClassification(raw) {
	case tokenOutlet:
		return models.RoleOutlet, true
	case tokenProducer:
		return models.RoleProducer, true
	}
	return "", false
}
