package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/lcalzada-xor/rxss/pkg/config"
)

// Options holds all configuration options for the runner
type Options struct {
	// Input
	URL          string
	InputFile    string
	PayloadsFile string

	// Scanning
	Delay     time.Duration
	Timeout   time.Duration
	Proxy     string
	Headers   []string
	RateLimit float64
	Retries   int
	NoContext bool

	// Output
	OutputFormat string
	OutputFile   string
	Verbose      bool
	VeryVerbose  bool
	Silent       bool

	// Persistence
	SessionFile string

	// Payloads from the config file, used when no -p file is given
	Payloads []string
}

// DefaultOptions returns a new Options struct with default values
func DefaultOptions() *Options {
	return &Options{
		Delay:        config.DefaultDelay,
		Timeout:      config.DefaultTimeout,
		OutputFormat: config.DefaultOutput,
	}
}

// ApplyFile overlays the non-zero fields of a config file.
func (o *Options) ApplyFile(f *config.File) {
	if f == nil {
		return
	}
	if f.Delay > 0 {
		o.Delay = f.Delay
	}
	if f.Timeout > 0 {
		o.Timeout = f.Timeout
	}
	if f.Proxy != "" {
		o.Proxy = f.Proxy
	}
	if f.RateLimit > 0 {
		o.RateLimit = f.RateLimit
	}
	if f.Retries > 0 {
		o.Retries = f.Retries
	}
	for k, v := range f.Headers {
		o.Headers = append(o.Headers, k+": "+v)
	}
	if len(f.Payloads) > 0 {
		o.Payloads = append([]string(nil), f.Payloads...)
	}
	if f.Output != "" {
		o.OutputFormat = f.Output
	}
	if f.Session != "" {
		o.SessionFile = f.Session
	}
	if f.Verbose >= 1 {
		o.Verbose = true
	}
	if f.Verbose >= 2 {
		o.VeryVerbose = true
	}
}

// VerboseLevel maps the verbosity flags to a logger level.
func (o *Options) VerboseLevel() int {
	switch {
	case o.Silent:
		return 0
	case o.VeryVerbose:
		return 2
	case o.Verbose:
		return 1
	}
	return 0
}

// Validate rejects option combinations the runner cannot use.
func (o *Options) Validate() error {
	switch o.OutputFormat {
	case "json", "human", "url":
	default:
		return fmt.Errorf("invalid output format %q (use json, human or url)", o.OutputFormat)
	}
	if o.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	if o.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}

// HeaderMap parses "Name: value" headers. Malformed entries are skipped.
func (o *Options) HeaderMap() map[string]string {
	headerMap := make(map[string]string)
	for _, h := range o.Headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) == 2 {
			headerMap[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return headerMap
}
