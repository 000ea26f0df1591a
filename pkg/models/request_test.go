package models

import (
	"errors"
	"reflect"
	"testing"
)

func TestScanRequest_Targets(t *testing.T) {
	tests := []struct {
		name string
		req  ScanRequest
		want []string
	}{
		{
			name: "Single URL",
			req:  ScanRequest{URL: "http://a.example"},
			want: []string{"http://a.example"},
		},
		{
			name: "URL list",
			req:  ScanRequest{URLs: []string{"http://a.example", "http://b.example"}},
			want: []string{"http://a.example", "http://b.example"},
		},
		{
			name: "Single URL wins over list",
			req:  ScanRequest{URL: "http://a.example", URLs: []string{"http://b.example"}},
			want: []string{"http://a.example"},
		},
		{
			name: "Nothing",
			req:  ScanRequest{},
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.req.Targets(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Targets() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScanRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ScanRequest
		wantErr bool
	}{
		{"Valid URL", ScanRequest{URL: "http://example.com"}, false},
		{"Valid list", ScanRequest{URLs: []string{"http://example.com"}}, false},
		{"Empty", ScanRequest{}, true},
		{"Empty list", ScanRequest{URLs: []string{}}, true},
		{"Blank entry", ScanRequest{URLs: []string{"http://example.com", "  "}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrNoURL) {
				t.Errorf("Validate() error = %v, want ErrNoURL", err)
			}
		})
	}
}

func TestNewScanReport(t *testing.T) {
	r := NewScanReport("id-1", []string{"http://a", "http://b"}, nil, StatusCompleted)
	if r.URL != "http://a, http://b" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.Vulnerabilities == nil || len(r.Vulnerabilities) != 0 {
		t.Errorf("Vulnerabilities = %#v, want empty non-nil", r.Vulnerabilities)
	}
	if r.ScanTime.IsZero() {
		t.Error("ScanTime not stamped")
	}
}
