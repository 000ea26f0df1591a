package config

import "time"

// Version is the current version of rxss
const Version = "v1.0.0"

// Author is the author of the tool
const Author = "@lcalzada-xor"

// Default Values
const (
	DefaultDelay      = 1000 * time.Millisecond
	DefaultTimeout    = 10 * time.Second
	DefaultListenAddr = ":8080"
	DefaultOutput     = "human"
)

// UserAgents is the identity pool probes rotate through.
var UserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/89.0.4389.82 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Edge/91.0.864.59 Safari/537.36",
}
