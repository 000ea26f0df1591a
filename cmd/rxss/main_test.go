package main

import "testing"

func TestConfigFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-u", "http://x", "-c", "cfg.yaml"}, "cfg.yaml"},
		{[]string{"--config=other.yaml"}, "other.yaml"},
		{[]string{"-config", "a.yaml", "-v"}, "a.yaml"},
		{[]string{"-u", "http://x"}, ""},
		{[]string{"-c"}, ""},
	}
	for _, tt := range tests {
		if got := configFromArgs(tt.args); got != tt.want {
			t.Errorf("configFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
