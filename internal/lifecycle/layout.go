package lifecycle

import "strings"

// PlotDefinition is the declarative description used to (re)generate a plot.
type PlotDefinition struct {
	PlotNumber string `json:"plotNumber"`
	Dimension  string `json:"dimension"`
	Area       int    `json:"area"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
}

// LayoutTemplate describes the full grid for a project.
type LayoutTemplate struct {
	Rows            int              `json:"rows"`
	Columns         int              `json:"columns"`
	PlotDefinitions []PlotDefinition `json:"plotDefinitions"`
}

// Layout is a snapshot of a project's plot set. TotalPlots and TotalArea are
// derived from the plot list, never stored independently.
type Layout struct {
	ProjectID   string  `json:"projectId"`
	ProjectName string  `json:"projectName"`
	Rows        int     `json:"rows"`
	Columns     int     `json:"columns"`
	Plots       []*Plot `json:"plots"`
	TotalPlots  int     `json:"totalPlots"`
	TotalArea   int     `json:"totalArea"`
}

// DuplicateNumbers reports plot numbers appearing more than once in a set of
// definitions, in first-seen order. The check is advisory: uniqueness is not
// enforced anywhere else in the engine.
func DuplicateNumbers(defs []PlotDefinition) []string {
	seen := make(map[string]int)
	var dups []string
	for _, def := range defs {
		key := strings.TrimSpace(def.PlotNumber)
		seen[key]++
		if seen[key] == 2 {
			dups = append(dups, def.PlotNumber)
		}
	}
	return dups
}
