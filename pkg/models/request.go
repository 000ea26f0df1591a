package models

import (
	"errors"
	"strings"
)

// ErrNoURL is returned when a request yields no target.
var ErrNoURL = errors.New("At least one URL is required")

// ScanRequest is the invocation input accepted at the boundary.
type ScanRequest struct {
	URL      string   `json:"url,omitempty"`
	URLs     []string `json:"urls,omitempty"`
	Payloads []string `json:"payloads,omitempty"`
}

// Targets returns the effective target list. A single URL takes
// precedence over the URLs list.
func (r *ScanRequest) Targets() []string {
	if r.URL != "" {
		return []string{r.URL}
	}
	return r.URLs
}

// Validate checks that the request yields at least one non-blank target.
func (r *ScanRequest) Validate() error {
	targets := r.Targets()
	if len(targets) == 0 {
		return ErrNoURL
	}
	for _, t := range targets {
		if strings.TrimSpace(t) == "" {
			return ErrNoURL
		}
	}
	return nil
}
