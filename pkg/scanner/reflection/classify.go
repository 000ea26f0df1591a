// Package reflection decides whether a payload came back in a response and,
// for hits, where in the document it landed.
package reflection

import (
	"strings"

	"github.com/lcalzada-xor/rxss/pkg/models"
)

// Classify reports a Vulnerability when body contains the payload,
// ignoring case. Any containment counts; the reflection context is not
// considered.
func Classify(tc models.TestCase, body string) *models.Vulnerability {
	if !ContainsFold(body, tc.Payload) {
		return nil
	}
	return &models.Vulnerability{
		Type:        models.TypeReflectedXSS,
		Description: models.DescriptionReflected,
		Severity:    models.SeverityHigh,
		Payload:     tc.Payload,
		TestURL:     tc.TestURL,
	}
}

// ContainsFold reports whether lowercase(body) contains lowercase(payload).
func ContainsFold(body, payload string) bool {
	return strings.Contains(strings.ToLower(body), strings.ToLower(payload))
}

// indexFold returns the byte offset in body of the first case-insensitive
// match, or -1.
func indexFold(body, payload string) int {
	lowerBody := strings.ToLower(body)
	if len(lowerBody) != len(body) {
		// Lowercasing changed byte widths, offsets would not map back
		return strings.Index(body, payload)
	}
	return strings.Index(lowerBody, strings.ToLower(payload))
}

// Annotate fills the informational Context and Element of v.
func Annotate(v *models.Vulnerability, body string) {
	v.Context = DetectContext(body, v.Payload)
	v.Element = Locate(body, v.Payload)
}
