// Package dashboard composes outlet search, focus resolution and the producer
// ranking into one evaluation. Every stage is a plain function of its inputs
// and the store; nothing is remembered between calls.
package dashboard

import (
	"context"
	"pos-proximity/internal/calculator"
	"pos-proximity/internal/models"
	"pos-proximity/internal/search"
	"strings"
)

// Stage names the step that decided the outcome of an evaluation, so callers
// can tell the different empty results apart.
type Stage string

const (
	StageNoQuery       Stage = "no_query"
	StageNoMatch       Stage = "no_match"
	StageUnknownOutlet Stage = "unknown_outlet"
	StageNoProducers   Stage = "no_producers"
	StageNoneInRadius  Stage = "none_in_radius"
	StageOK            Stage = "ok"
)

type Source interface {
	Outlets() []models.Entity
	Producers() []models.Entity
}

type Request struct {
	Query string
	// Code is an explicit outlet selection; when empty the first candidate
	// of Query becomes the focus.
	Code     string
	RadiusKm float64
	Limit    int
}

type View struct {
	Query      string          `json:"query"`
	Searched   bool            `json:"searched"`
	Candidates []models.Entity `json:"candidates"`
	Focus      *models.Entity  `json:"focus,omitempty"`
	Nearby     []models.Nearby `json:"nearby"`
	RadiusKm   float64         `json:"radius_km"`
	Limit      int             `json:"limit"`
	Stage      Stage           `json:"stage"`
}

// Evaluate runs search, focus resolution and ranking for one request.
// Only precondition violations and cancellation are returned as errors.
// Radius and limit are checked before any stage runs.
func Evaluate(ctx context.Context, src Source, req Request) (View, error) {
	if err := calculator.ValidateParams(req.RadiusKm, req.Limit); err != nil {
		return View{}, err
	}

	query := strings.TrimSpace(req.Query)
	view := View{
		Query:      query,
		Searched:   query != "",
		Candidates: []models.Entity{},
		Nearby:     []models.Nearby{},
		RadiusKm:   req.RadiusKm,
		Limit:      req.Limit,
	}

	var outlets []models.Entity
	if view.Searched || strings.TrimSpace(req.Code) != "" {
		outlets = src.Outlets()
	}
	view.Candidates = search.Outlets(outlets, query)

	focus, stage, ok := resolveFocus(outlets, view.Candidates, view.Searched, req.Code)
	if !ok {
		view.Stage = stage
		return view, nil
	}
	view.Focus = &focus

	producers := src.Producers()
	if len(producers) == 0 {
		view.Stage = StageNoProducers
		return view, nil
	}

	nearby, err := calculator.NearbyContext(ctx, producers, focus.Loc, req.RadiusKm, req.Limit)
	if err != nil {
		return view, err
	}
	view.Nearby = nearby

	if len(nearby) == 0 {
		view.Stage = StageNoneInRadius
	} else {
		view.Stage = StageOK
	}
	return view, nil
}

func resolveFocus(outlets, candidates []models.Entity, searched bool, code string) (models.Entity, Stage, bool) {
	if strings.TrimSpace(code) != "" {
		focus, ok := search.Resolve(outlets, code)
		if !ok {
			return models.Entity{}, StageUnknownOutlet, false
		}
		return focus, "", true
	}
	if !searched {
		return models.Entity{}, StageNoQuery, false
	}
	if len(candidates) == 0 {
		return models.Entity{}, StageNoMatch, false
	}
	return candidates[0], "", true
}
