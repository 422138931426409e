package search

import (
	"pos-proximity/internal/entitystore"
	"pos-proximity/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func outlet(code, name string) models.Entity {
	return models.Entity{
		Code: code,
		Name: name,
		Role: models.RoleOutlet,
		Loc:  models.Coordinate{Lat: 41, Lon: 29},
	}
}

func newTestMatcher() *Matcher {
	store := entitystore.FromEntities([]models.Entity{
		outlet("A0001", "Kurtuluş Mağazası"),
		outlet("A0002", "Contoso Merkez"),
		outlet("0032-construction", "Şube"),
		{Code: "A0002", Name: "Producer sharing a code", Role: models.RoleProducer, Loc: models.Coordinate{Lat: 40, Lon: 30}},
		outlet("A0003", "Kadıköy"),
		outlet("A0002", "Duplicate Code"),
	})
	return NewMatcher(store)
}

func names(es []models.Entity) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Name)
	}
	return out
}

func TestSearchOutlets(t *testing.T) {
	m := newTestMatcher()

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"code case-insensitive", "a0002", []string{"Contoso Merkez", "Duplicate Code"}},
		{"name prefix with turkish letters", "kurtul", []string{"Kurtuluş Mağazası"}},
		{"substring over name and code", "con", []string{"Contoso Merkez", "Şube"}},
		{"surrounding whitespace", "  merkez  ", []string{"Contoso Merkez"}},
		{"upper case query", "KADIKÖY", []string{}},
		{"no folding of dotless i", "kadikoy", []string{}},
		{"exact turkish spelling", "kadıköy", []string{"Kadıköy"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, names(m.SearchOutlets(tt.query)))
		})
	}
}

func TestSearchOutlets_OnlyOutlets(t *testing.T) {
	m := newTestMatcher()
	for _, e := range m.SearchOutlets("a") {
		assert.Equal(t, models.RoleOutlet, e.Role)
	}
}

func TestSearchOutlets_EmptyQuery(t *testing.T) {
	m := NewMatcher(panicSource{})

	assert.Empty(t, Outlets(nil, ""))
	assert.NotNil(t, Outlets(nil, "   "))

	// a blank query must not touch the store
	assert.NotPanics(t, func() { assert.Empty(t, m.SearchOutlets("")) })
	assert.NotPanics(t, func() { assert.Empty(t, m.SearchOutlets("\t ")) })
	assert.Panics(t, func() { m.SearchOutlets("x") })
}

type panicSource struct{}

func (panicSource) Outlets() []models.Entity { panic("scanned") }

func TestResolveOutlet(t *testing.T) {
	m := newTestMatcher()

	got, ok := m.ResolveOutlet("A0002")
	assert.True(t, ok)
	assert.Equal(t, "Contoso Merkez", got.Name)

	got, ok = m.ResolveOutlet(" A0001 ")
	assert.True(t, ok)
	assert.Equal(t, "Kurtuluş Mağazası", got.Name)

	_, ok = m.ResolveOutlet("a0001")
	assert.False(t, ok)

	_, ok = m.ResolveOutlet("")
	assert.False(t, ok)

	_, ok = m.ResolveOutlet("NOPE")
	assert.False(t, ok)
}
