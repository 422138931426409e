package dashboard

import "pos-proximity/internal/models"

// DefaultSamplePerRole caps the markers drawn per role on the overview map.
const DefaultSamplePerRole = 2000

type MapMode string

const (
	MapOverview MapMode = "overview"
	MapFocus    MapMode = "focus"
)

const (
	overviewZoom = 6
	focusZoom    = 11
)

// overviewCenter frames all of Turkey.
var overviewCenter = models.Coordinate{Lat: 39.0, Lon: 35.0}

// MapView is what the dashboard map draws. Without a focus it is an overview
// of sampled outlets and producers; with one it is the focused outlet, its
// search circle and the ranked producers.
type MapView struct {
	Mode   MapMode           `json:"mode"`
	Stage  Stage             `json:"stage"`
	Center models.Coordinate `json:"center"`
	Zoom   int               `json:"zoom"`

	Outlets       []models.Entity `json:"outlets"`
	Producers     []models.Entity `json:"producers"`
	OutletTotal   int             `json:"outlet_total"`
	ProducerTotal int             `json:"producer_total"`

	Focus    *models.Entity  `json:"focus,omitempty"`
	RadiusKm float64         `json:"radius_km"`
	Nearby   []models.Nearby `json:"nearby"`
}

// Map turns an evaluated view into map layers. src must be the store the
// view was evaluated against.
func Map(src Source, view View, samplePerRole int) MapView {
	m := MapView{
		Stage:     view.Stage,
		Outlets:   []models.Entity{},
		Producers: []models.Entity{},
		RadiusKm:  view.RadiusKm,
		Nearby:    []models.Nearby{},
	}

	if view.Focus != nil {
		m.Mode = MapFocus
		m.Center = view.Focus.Loc
		m.Zoom = focusZoom
		m.Focus = view.Focus
		if view.Nearby != nil {
			m.Nearby = view.Nearby
		}
		return m
	}

	outlets := src.Outlets()
	producers := src.Producers()

	m.Mode = MapOverview
	m.Center = overviewCenter
	m.Zoom = overviewZoom
	m.Outlets = Sample(outlets, samplePerRole)
	m.Producers = Sample(producers, samplePerRole)
	m.OutletTotal = len(outlets)
	m.ProducerTotal = len(producers)
	return m
}

// Sample picks at most n entities spaced evenly across entities, keeping
// store order. The same input always yields the same sample.
func Sample(entities []models.Entity, n int) []models.Entity {
	if n <= 0 {
		return []models.Entity{}
	}
	if len(entities) <= n {
		return append([]models.Entity{}, entities...)
	}

	out := make([]models.Entity, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entities[i*len(entities)/n])
	}
	return out
}
