package input

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"Simple", "a\nb\nc", []string{"a", "b", "c"}},
		{"Trim and skip blanks", "  a  \n\n\t\nb\r\n", []string{"a", "b"}},
		{"Only blanks", "\n \n", nil},
		{"Payload with spaces kept", "<img src=x onerror=alert(1)>\n", []string{"<img src=x onerror=alert(1)>"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadLines(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("ReadLines() error = %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ReadLines() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte("http://a.example/?q=1\n\nhttp://b.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := []string{"http://a.example/?q=1", "http://b.example"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadFile() = %v, want %v", got, want)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
