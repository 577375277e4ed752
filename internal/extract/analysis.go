package extract

import (
	"encoding/json"
	"fmt"
)

// Criterion is one flat key-value record inside an analysis category, e.g.
// {"name": "sale.order"} for a model or {"action_name": "/shop/cart"} for a
// controller route.
type Criterion map[string]string

// Analysis is the structured hint set driving extraction: which models,
// views, routes, assets, reports and website templates matter for the task
// at hand. It is read-only input; extractors never mutate it. The JSON field
// names match what the upstream scaffolding step produces.
type Analysis struct {
	Models       []Criterion `json:"models,omitempty"`
	Views        []Criterion `json:"views,omitempty"`
	Controllers  []Criterion `json:"controller,omitempty"`
	Assets       []Criterion `json:"assets,omitempty"`
	Reports      []Criterion `json:"reports,omitempty"`
	WebsiteViews []Criterion `json:"website_views,omitempty"`
}

// ParseAnalysis decodes an analysis specification from JSON.
func ParseAnalysis(data []byte) (*Analysis, error) {
	var a Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	return &a, nil
}

// collect gathers the values of key across criteria into a set, skipping
// records without the key.
func collect(criteria []Criterion, key string) map[string]struct{} {
	set := make(map[string]struct{}, len(criteria))
	for _, c := range criteria {
		if v, ok := c[key]; ok && v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// ModelNames returns the technical model names requested under "models".
func (a *Analysis) ModelNames() map[string]struct{} {
	return collect(a.Models, "name")
}

// ViewModels returns the model names whose views are requested.
func (a *Analysis) ViewModels() map[string]struct{} {
	return collect(a.Views, "model")
}

// Routes returns the requested controller routes.
func (a *Analysis) Routes() map[string]struct{} {
	return collect(a.Controllers, "action_name")
}

// ReportModels returns the model names whose report actions are requested.
func (a *Analysis) ReportModels() map[string]struct{} {
	return collect(a.Reports, "model")
}

// TemplateIDs returns the requested website template identifiers.
func (a *Analysis) TemplateIDs() map[string]struct{} {
	return collect(a.WebsiteViews, "view")
}
