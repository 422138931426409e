package dashboard

import (
	"context"
	"fmt"
	"pos-proximity/internal/entitystore"
	"pos-proximity/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(prefix string, role models.Role, n int) []models.Entity {
	out := make([]models.Entity, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entity(fmt.Sprintf("%s%05d", prefix, i), prefix, role, 36+float64(i%600)/100, 27+float64(i%1800)/100))
	}
	return out
}

func TestSample(t *testing.T) {
	items := numbered("P", models.RoleProducer, 10)

	tests := []struct {
		name     string
		n        int
		expected []string
	}{
		{"under cap keeps all", 20, []string{"P00000", "P00001", "P00002", "P00003", "P00004", "P00005", "P00006", "P00007", "P00008", "P00009"}},
		{"evenly spaced", 4, []string{"P00000", "P00002", "P00005", "P00007"}},
		{"single", 1, []string{"P00000"}},
		{"zero", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sample(items, tt.n)
			codes := make([]string, 0, len(got))
			for _, e := range got {
				codes = append(codes, e.Code)
			}
			assert.Equal(t, tt.expected, codes)
		})
	}

	assert.NotNil(t, Sample(nil, 5))
	assert.Equal(t, Sample(items, 3), Sample(items, 3))
}

func TestMap_OverviewIsCappedPerRole(t *testing.T) {
	entities := append(numbered("O", models.RoleOutlet, 5000), numbered("P", models.RoleProducer, 1200)...)
	store := entitystore.FromEntities(entities)

	view, err := Evaluate(context.Background(), store, Request{RadiusKm: 30, Limit: 10})
	require.NoError(t, err)

	m := Map(store, view, DefaultSamplePerRole)
	assert.Equal(t, MapOverview, m.Mode)
	assert.Equal(t, StageNoQuery, m.Stage)
	assert.Equal(t, overviewCenter, m.Center)
	assert.Len(t, m.Outlets, DefaultSamplePerRole)
	assert.Len(t, m.Producers, 1200)
	assert.Equal(t, 5000, m.OutletTotal)
	assert.Equal(t, 1200, m.ProducerTotal)
	assert.Nil(t, m.Focus)
	assert.Empty(t, m.Nearby)

	for _, o := range m.Outlets {
		assert.Equal(t, models.RoleOutlet, o.Role)
	}
}

func TestMap_FocusShowsOutletRadiusAndNearby(t *testing.T) {
	store := scenarioStore()

	view, err := Evaluate(context.Background(), store, Request{Query: "o1", RadiusKm: 30, Limit: 10})
	require.NoError(t, err)

	m := Map(store, view, DefaultSamplePerRole)
	assert.Equal(t, MapFocus, m.Mode)
	assert.Equal(t, StageOK, m.Stage)
	require.NotNil(t, m.Focus)
	assert.Equal(t, "O1", m.Focus.Code)
	assert.Equal(t, m.Focus.Loc, m.Center)
	assert.Equal(t, focusZoom, m.Zoom)
	assert.Equal(t, 30.0, m.RadiusKm)
	require.Len(t, m.Nearby, 2)
	assert.Equal(t, "P1", m.Nearby[0].Entity.Code)
	assert.Empty(t, m.Outlets)
	assert.Empty(t, m.Producers)
}

func TestMap_FocusWithoutProducersInRange(t *testing.T) {
	store := scenarioStore()

	view, err := Evaluate(context.Background(), store, Request{Query: "kuzey", RadiusKm: 30, Limit: 10})
	require.NoError(t, err)

	m := Map(store, view, DefaultSamplePerRole)
	assert.Equal(t, MapFocus, m.Mode)
	assert.Equal(t, StageNoneInRadius, m.Stage)
	assert.NotNil(t, m.Nearby)
	assert.Empty(t, m.Nearby)
}
