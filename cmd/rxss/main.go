package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lcalzada-xor/rxss/pkg/config"
	"github.com/lcalzada-xor/rxss/pkg/runner"
	"github.com/lcalzada-xor/rxss/pkg/scanner"
)

func main() {
	options := runner.DefaultOptions()

	// The config file seeds the defaults so explicit flags still win
	configPath := configFromArgs(os.Args[1:])
	if configPath != "" {
		f, err := config.LoadFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		options.ApplyFile(f)
	}

	// Define flags with both short and long names
	flag.StringVar(&configPath, "c", configPath, "YAML configuration file")
	flag.StringVar(&configPath, "config", configPath, "YAML configuration file")

	flag.StringVar(&options.URL, "u", "", "Target URL")
	flag.StringVar(&options.URL, "url", "", "Target URL")

	flag.StringVar(&options.InputFile, "l", "", "File with one target URL per line")
	flag.StringVar(&options.InputFile, "list", "", "File with one target URL per line")

	flag.StringVar(&options.PayloadsFile, "p", "", "File with one payload per line")
	flag.StringVar(&options.PayloadsFile, "payloads", "", "File with one payload per line")

	flag.DurationVar(&options.Delay, "d", options.Delay, "Delay after each request")
	flag.DurationVar(&options.Delay, "delay", options.Delay, "Delay after each request")

	flag.DurationVar(&options.Timeout, "t", options.Timeout, "Request timeout")
	flag.DurationVar(&options.Timeout, "timeout", options.Timeout, "Request timeout")

	flag.StringVar(&options.Proxy, "x", options.Proxy, "Proxy URL (e.g. http://127.0.0.1:8080)")
	flag.StringVar(&options.Proxy, "proxy", options.Proxy, "Proxy URL (e.g. http://127.0.0.1:8080)")

	flag.Float64Var(&options.RateLimit, "rl", options.RateLimit, "Max requests per second (0 = unlimited)")
	flag.Float64Var(&options.RateLimit, "rate-limit", options.RateLimit, "Max requests per second (0 = unlimited)")

	flag.IntVar(&options.Retries, "retries", options.Retries, "Retries on network errors")

	headers := (*headerFlags)(&options.Headers)
	flag.Var(headers, "H", "Custom header (e.g. 'Cookie: session=123')")
	flag.Var(headers, "header", "Custom header (e.g. 'Cookie: session=123')")

	flag.StringVar(&options.OutputFormat, "o", options.OutputFormat, "Output format: url, human, json")
	flag.StringVar(&options.OutputFormat, "output", options.OutputFormat, "Output format: url, human, json")

	flag.StringVar(&options.OutputFile, "of", "", "Write the report to a file")
	flag.StringVar(&options.OutputFile, "output-file", "", "Write the report to a file")

	flag.BoolVar(&options.Verbose, "v", options.Verbose, "Verbose output")
	flag.BoolVar(&options.Verbose, "verbose", options.Verbose, "Verbose output")

	flag.BoolVar(&options.VeryVerbose, "vv", options.VeryVerbose, "Very verbose output")

	flag.BoolVar(&options.Silent, "s", false, "Silent mode (suppress banner and logs)")
	flag.BoolVar(&options.Silent, "silent", false, "Silent mode (suppress banner and logs)")

	flag.StringVar(&options.SessionFile, "session", options.SessionFile, "Persist the last report to this JSON file")
	flag.BoolVar(&options.NoContext, "no-context", false, "Skip reflection context analysis")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "\n   \x1b[38;5;141mrxss %s\x1b[0m | \x1b[38;5;141m%s\x1b[0m\n", config.Version, config.Author)
		h := `
USAGE:
  rxss [flags]

INPUT:
  -u,  --url string          Target URL
  -l,  --list string         File with one target URL per line (default stdin)
  -p,  --payloads string     File with one payload per line (default built-in set)
  -c,  --config string       YAML configuration file

SCANNING:
  -d,  --delay duration      Delay after each request (default 1s)
  -t,  --timeout duration    Request timeout (default 10s)
  -x,  --proxy string        Proxy URL (e.g. http://127.0.0.1:8080)
  -rl, --rate-limit float    Max requests per second (default 0, unlimited)
       --retries int         Retries on network errors (default 0)
  -H,  --header string       Custom header (e.g. 'Cookie: session=123')
       --no-context          Skip reflection context analysis

OUTPUT:
  -o,  --output string       Output format: url, human, json (default "human")
  -of, --output-file string  Write the report to a file
  -v,  --verbose             Verbose output (progress and details)
  -vv                        Very verbose output (every request)
  -s,  --silent              Silent mode (suppress banner and logs)
       --session string      Persist the last report to this JSON file

EXAMPLES:
  rxss -u "http://example.com/search?q=test"
  cat urls.txt | rxss -o json
  rxss -l urls.txt -p payloads.txt -d 500ms --session .rxss.json
`
		fmt.Fprint(os.Stderr, h)
	}

	flag.Parse()

	r := runner.NewRunner(options)
	if err := r.Run(context.Background()); err != nil {
		if errors.Is(err, scanner.ErrAborted) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configFromArgs finds -c/--config before flag parsing.
func configFromArgs(args []string) string {
	for i, a := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") || (name != "c" && name != "config") {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// headerFlags allows setting multiple headers
type headerFlags []string

func (h *headerFlags) String() string {
	return fmt.Sprint(*h)
}

func (h *headerFlags) Set(value string) error {
	*h = append(*h, value)
	return nil
}
