// Package security recognises web application firewalls in probe responses.
package security

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// WAF represents a detected Web Application Firewall
type WAF struct {
	Name     string
	Detected bool
}

// Signature represents a single WAF detection signature
type Signature struct {
	Name           string              `json:"name"`
	Headers        map[string]string   `json:"headers,omitempty"`         // Header key, optional value substring
	HeaderPatterns map[string][]string `json:"header_patterns,omitempty"` // Header key to list of value substrings
	BodyPatterns   []string            `json:"body_patterns,omitempty"`   // Substrings to find in body
	BlockStatuses  []int               `json:"block_statuses,omitempty"`  // Body patterns only count on these statuses
}

// Manager handles WAF detection logic
type Manager struct {
	signatures []Signature
}

//go:embed waf_signatures.json
var defaultSignatures []byte

// NewManager creates a manager with the embedded signatures.
func NewManager() (*Manager, error) {
	return NewManagerFromJSON(defaultSignatures)
}

// NewManagerFromJSON creates a manager from a JSON signature list.
func NewManagerFromJSON(data []byte) (*Manager, error) {
	var sigs []Signature
	if err := json.Unmarshal(data, &sigs); err != nil {
		return nil, fmt.Errorf("load waf signatures: %w", err)
	}
	return &Manager{signatures: sigs}, nil
}

// Detect checks for WAF presence in a response.
func (m *Manager) Detect(status int, headers http.Header, body string) *WAF {
	for _, sig := range m.signatures {
		// 1. Check Exact Headers
		for key, val := range sig.Headers {
			headerVal := headers.Get(key)
			if headerVal != "" {
				if val == "" || strings.Contains(strings.ToLower(headerVal), strings.ToLower(val)) {
					return &WAF{Name: sig.Name, Detected: true}
				}
			}
		}

		// 2. Check Header Patterns
		for key, patterns := range sig.HeaderPatterns {
			headerVal := headers.Get(key)
			if headerVal != "" {
				lowerVal := strings.ToLower(headerVal)
				for _, pattern := range patterns {
					if strings.Contains(lowerVal, strings.ToLower(pattern)) {
						return &WAF{Name: sig.Name, Detected: true}
					}
				}
			}
		}

		// 3. Check Body Patterns
		if len(sig.BlockStatuses) > 0 && !containsInt(sig.BlockStatuses, status) {
			continue
		}
		for _, pattern := range sig.BodyPatterns {
			if strings.Contains(body, pattern) {
				return &WAF{Name: sig.Name, Detected: true}
			}
		}
	}

	return &WAF{Name: "", Detected: false}
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
