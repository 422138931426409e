package entitystore

import (
	"fmt"
	"math"
	"pos-proximity/internal/models"
	"slices"
	"strconv"
	"strings"
)

// Record is one raw dataset row as handed over by the ingestion layer.
type Record struct {
	Code     string
	Name     string
	Type     string
	Lat      string
	Lon      string
	Region   string
	District string
	Address  string
}

type Stats struct {
	Rows          int `json:"rows"`
	Located       int `json:"located"`
	Outlets       int `json:"outlets"`
	Producers     int `json:"producers"`
	MissingCoords int `json:"missing_coords"`
	UnknownRole   int `json:"unknown_role"`
}

// Store is an immutable set of geocoded entities. Every entity in it has
// finite coordinates and a known role.
type Store struct {
	entities  []models.Entity
	outlets   []models.Entity
	producers []models.Entity
	stats     Stats
}

// ParseCoord accepts both "41.5" and the Turkish "41,5" notation.
func ParseCoord(val string) (float64, error) {
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("empty")
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %q", val)
	}
	return f, nil
}

// New builds a store from raw records. Rows without usable coordinates or
// with an unrecognised classification are excluded and only counted.
func New(records []Record) *Store {
	s := &Store{}
	s.stats.Rows = len(records)

	for _, r := range records {
		lat, err1 := ParseCoord(r.Lat)
		lon, err2 := ParseCoord(r.Lon)
		if err1 != nil || err2 != nil {
			s.stats.MissingCoords++
			continue
		}
		s.stats.Located++

		role, ok := ClassifyRole(r.Type)
		if !ok {
			s.stats.UnknownRole++
			continue
		}

		s.add(models.Entity{
			Code:     strings.TrimSpace(r.Code),
			Name:     strings.TrimSpace(r.Name),
			Role:     role,
			Loc:      models.Coordinate{Lat: lat, Lon: lon},
			Region:   strings.TrimSpace(r.Region),
			District: strings.TrimSpace(r.District),
			Address:  strings.TrimSpace(r.Address),
		})
	}

	return s
}

// FromEntities builds a store from already typed entities, applying the same
// exclusion rules as New.
func FromEntities(entities []models.Entity) *Store {
	s := &Store{}
	s.stats.Rows = len(entities)

	for _, e := range entities {
		if !finite(e.Loc.Lat) || !finite(e.Loc.Lon) {
			s.stats.MissingCoords++
			continue
		}
		s.stats.Located++
		if e.Role != models.RoleOutlet && e.Role != models.RoleProducer {
			s.stats.UnknownRole++
			continue
		}
		s.add(e)
	}

	return s
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s *Store) add(e models.Entity) {
	s.entities = append(s.entities, e)
	switch e.Role {
	case models.RoleOutlet:
		s.outlets = append(s.outlets, e)
		s.stats.Outlets++
	case models.RoleProducer:
		s.producers = append(s.producers, e)
		s.stats.Producers++
	}
}

// All returns every entity in store order.
func (s *Store) All() []models.Entity {
	return slices.Clone(s.entities)
}

// ByRole returns the entities of one role in store order.
func (s *Store) ByRole(role models.Role) []models.Entity {
	switch role {
	case models.RoleOutlet:
		return slices.Clone(s.outlets)
	case models.RoleProducer:
		return slices.Clone(s.producers)
	}
	return nil
}

func (s *Store) Outlets() []models.Entity   { return s.ByRole(models.RoleOutlet) }
func (s *Store) Producers() []models.Entity { return s.ByRole(models.RoleProducer) }

func (s *Store) Len() int     { return len(s.entities) }
func (s *Store) Stats() Stats { return s.stats }
