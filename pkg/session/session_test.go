package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lcalzada-xor/rxss/pkg/models"
)

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "none.json"))
	report, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if report != nil {
		t.Errorf("expected nil report, got %+v", report)
	}
}

func TestStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewStore(path)

	in := models.NewScanReport("id-1", []string{"https://a.example"}, []models.Vulnerability{
		{Type: models.TypeReflectedXSS, Payload: "<x>", TestURL: "https://a.example/?payload=%3Cx%3E"},
	}, models.StatusCompleted)

	if err := s.Save(in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if out.ID != "id-1" || out.URL != "https://a.example" {
		t.Errorf("unexpected report %+v", out)
	}
	if len(out.Vulnerabilities) != 1 || out.Vulnerabilities[0].Payload != "<x>" {
		t.Errorf("unexpected findings %+v", out.Vulnerabilities)
	}
	if !out.ScanTime.Equal(in.ScanTime) {
		t.Errorf("ScanTime = %v, want %v", out.ScanTime, in.ScanTime)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected file removed, stat err = %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path).Load(); err == nil {
		t.Error("expected error for corrupt session")
	}
}
