package models

import (
	"strings"
	"time"
)

// Fixed classification values for the reflected detector.
const (
	TypeReflectedXSS     = "Reflected XSS"
	SeverityHigh         = "high"
	DescriptionReflected = "Payload was reflected in the response"
)

type ReflectionContext string

const (
	ContextHTML       ReflectionContext = "html"
	ContextAttribute  ReflectionContext = "attribute"
	ContextJavaScript ReflectionContext = "javascript"
	ContextCSS        ReflectionContext = "css"
	ContextComment    ReflectionContext = "comment"
	ContextTagName    ReflectionContext = "tag_name"
	ContextUnknown    ReflectionContext = "unknown"
)

// Vulnerability is a single positive reflection. Context, Element and
// StatusCode are informational only.
type Vulnerability struct {
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Severity    string            `json:"severity"`
	Payload     string            `json:"payload"`
	TestURL     string            `json:"testUrl"`
	Context     ReflectionContext `json:"context,omitempty"`
	Element     string            `json:"element,omitempty"`
	StatusCode  int               `json:"statusCode,omitempty"`
}

// TestCase pairs one target with one payload for a single probe.
type TestCase struct {
	Target   string
	Payload  string
	TestURL  string
	Identity string
}

type ScanStatus string

const (
	StatusCompleted ScanStatus = "completed"
	StatusAborted   ScanStatus = "aborted"
)

// ScanReport is the aggregated outcome of one scan invocation.
type ScanReport struct {
	ID              string          `json:"id,omitempty"`
	URL             string          `json:"url"`
	Targets         []string        `json:"targets,omitempty"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	ScanTime        time.Time       `json:"scanTime"`
	Status          ScanStatus      `json:"status,omitempty"`
}

// NewScanReport stamps a report for the given targets at call time.
func NewScanReport(id string, targets []string, vulns []Vulnerability, status ScanStatus) *ScanReport {
	if vulns == nil {
		vulns = []Vulnerability{}
	}
	return &ScanReport{
		ID:              id,
		URL:             JoinTargets(targets),
		Targets:         append([]string(nil), targets...),
		Vulnerabilities: vulns,
		ScanTime:        time.Now(),
		Status:          status,
	}
}

// JoinTargets renders targets in caller order separated by ", ".
func JoinTargets(targets []string) string {
	return strings.Join(targets, ", ")
}
