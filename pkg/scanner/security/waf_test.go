package security

import (
	"net/http"
	"testing"
)

func TestManager_Detect(t *testing.T) {
	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	tests := []struct {
		name           string
		status         int
		headers        map[string]string
		body           string
		expectedWAF    string
		expectDetected bool
	}{
		{
			name:           "Cloudflare header",
			status:         200,
			headers:        map[string]string{"CF-Ray": "7d1f-AMS"},
			expectedWAF:    "Cloudflare WAF",
			expectDetected: true,
		},
		{
			name:           "Cloudflare server value",
			status:         200,
			headers:        map[string]string{"Server": "cloudflare"},
			expectedWAF:    "Cloudflare WAF",
			expectDetected: true,
		},
		{
			name:           "ModSecurity block page",
			status:         406,
			body:           "Not Acceptable! An appropriate representation ... mod_security",
			expectedWAF:    "ModSecurity",
			expectDetected: true,
		},
		{
			name:           "ModSecurity text on a normal page is ignored",
			status:         200,
			body:           "Our blog post about ModSecurity rules",
			expectDetected: false,
		},
		{
			name:           "Incapsula cookie",
			status:         200,
			headers:        map[string]string{"Set-Cookie": "visid_incap_123=abc; path=/"},
			expectedWAF:    "Incapsula WAF",
			expectDetected: true,
		},
		{
			name:           "No WAF",
			status:         200,
			headers:        map[string]string{"Server": "nginx"},
			body:           "OK",
			expectDetected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tc.headers {
				h.Set(k, v)
			}
			waf := m.Detect(tc.status, h, tc.body)

			if waf.Detected != tc.expectDetected {
				t.Errorf("Expected Detected=%v, got %v (%s)", tc.expectDetected, waf.Detected, waf.Name)
			}
			if waf.Name != tc.expectedWAF {
				t.Errorf("Expected Name='%s', got '%s'", tc.expectedWAF, waf.Name)
			}
		})
	}
}

func TestNewManagerFromJSON_Invalid(t *testing.T) {
	if _, err := NewManagerFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for invalid signatures")
	}
}
