package model

import "github.com/mediconnect/clinic-api/pkg/websearch"

// Facility is one entry of the static facility dataset matched by the
// fuzzy search arm of the directory search.
type Facility struct {
	Name string `json:"name"`
	City string `json:"city"`
	Type string `json:"type"`
}

// SearchResult is the combined directory search response. Every arm is
// independent: an empty slice means no matches, never an error.
type SearchResult struct {
	Doctors    []*Doctor          `json:"doctors"`
	Hospitals  []*Hospital        `json:"hospitals"`
	Facilities []Facility         `json:"facilities"`
	Web        []websearch.Result `json:"web,omitempty"`
}
