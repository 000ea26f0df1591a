package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	data := []byte(`
delay: 250ms
timeout: 5s
proxy: http://127.0.0.1:8080
rate_limit: 2.5
headers:
  Cookie: session=123
payloads:
  - "<script>alert(1)</script>"
  - "<svg onload=alert(1)>"
output: json
verbose: 2
`)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Delay != 250*time.Millisecond {
		t.Errorf("Delay = %v, want 250ms", f.Delay)
	}
	if f.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", f.Timeout)
	}
	if f.RateLimit != 2.5 {
		t.Errorf("RateLimit = %v, want 2.5", f.RateLimit)
	}
	if f.Headers["Cookie"] != "session=123" {
		t.Errorf("Headers = %v", f.Headers)
	}
	if len(f.Payloads) != 2 || f.Payloads[1] != "<svg onload=alert(1)>" {
		t.Errorf("Payloads = %v", f.Payloads)
	}
	if f.Output != "json" || f.Verbose != 2 {
		t.Errorf("Output/Verbose = %q/%d", f.Output, f.Verbose)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Broken YAML", "delay: [1s"},
		{"Negative delay", "delay: -1s"},
		{"Negative rate", "rate_limit: -3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Errorf("expected error for %q", tc.data)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rxss.yaml")
	if err := os.WriteFile(path, []byte("listen: \":9000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if f.Listen != ":9000" {
		t.Errorf("Listen = %q, want :9000", f.Listen)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
