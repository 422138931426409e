package search

import (
	"pos-proximity/internal/models"
	"strings"
)

// OutletSource is the part of the entity store the matcher reads.
type OutletSource interface {
	Outlets() []models.Entity
}

type Matcher struct {
	src OutletSource
}

func NewMatcher(src OutletSource) *Matcher {
	return &Matcher{src: src}
}

// SearchOutlets returns the outlets whose name or code contains query,
// ignoring case, in store order. A blank query means nothing was searched
// and returns an empty slice without scanning.
func (m *Matcher) SearchOutlets(query string) []models.Entity {
	if strings.TrimSpace(query) == "" {
		return []models.Entity{}
	}
	return Outlets(m.src.Outlets(), query)
}

// ResolveOutlet finds the outlet with exactly this code. With duplicate codes
// the first one in store order wins.
func (m *Matcher) ResolveOutlet(code string) (models.Entity, bool) {
	return Resolve(m.src.Outlets(), code)
}

// Outlets is the matching policy of SearchOutlets over an explicit slice.
func Outlets(outlets []models.Entity, query string) []models.Entity {
	query = strings.TrimSpace(query)
	matches := []models.Entity{}
	if query == "" {
		return matches
	}

	q := strings.ToLower(query)
	for _, o := range outlets {
		if strings.Contains(strings.ToLower(o.Name), q) || strings.Contains(strings.ToLower(o.Code), q) {
			matches = append(matches, o)
		}
	}
	return matches
}

func Resolve(outlets []models.Entity, code string) (models.Entity, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Entity{}, false
	}
	for _, o := range outlets {
		if o.Code == code {
			return o, true
		}
	}
	return models.Entity{}, false
}
