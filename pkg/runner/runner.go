package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lcalzada-xor/rxss/pkg/config"
	"github.com/lcalzada-xor/rxss/pkg/input"
	"github.com/lcalzada-xor/rxss/pkg/logger"
	"github.com/lcalzada-xor/rxss/pkg/models"
	"github.com/lcalzada-xor/rxss/pkg/network"
	"github.com/lcalzada-xor/rxss/pkg/output"
	"github.com/lcalzada-xor/rxss/pkg/scanner"
	"github.com/lcalzada-xor/rxss/pkg/scanner/identity"
	"github.com/lcalzada-xor/rxss/pkg/scanner/probe"
	"github.com/lcalzada-xor/rxss/pkg/session"
)

// Runner handles the execution of the scanning process
type Runner struct {
	options *Options
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	prober  scanner.Prober
}

// NewRunner creates a new Runner instance
func NewRunner(options *Options) *Runner {
	return &Runner{
		options: options,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// SetIO replaces the standard streams.
func (r *Runner) SetIO(stdin io.Reader, stdout, stderr io.Writer) {
	r.stdin = stdin
	r.stdout = stdout
	r.stderr = stderr
}

// SetProber replaces the network prober built from the options.
func (r *Runner) SetProber(p scanner.Prober) {
	r.prober = p
}

// Run executes the scan. Validation errors wrap scanner.ErrValidation; an
// interrupted scan still prints and saves the partial report and returns
// an error wrapping scanner.ErrAborted.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.options.Validate(); err != nil {
		return err
	}
	log := logger.NewLoggerTo(r.stderr, r.options.VerboseLevel())
	if r.options.Silent {
		log = logger.Discard()
	}

	// Create root context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			if !r.options.Silent {
				fmt.Fprintln(r.stderr, "\n[!] Received interrupt, shutting down...")
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	if !r.options.Silent {
		r.printBanner()
	}

	targets, err := r.targets()
	if err != nil {
		return err
	}
	payloadSet, err := r.payloads()
	if err != nil {
		return err
	}

	var store *session.Store
	if r.options.SessionFile != "" {
		store = session.NewStore(r.options.SessionFile)
		r.showPrevious(store, log)
	}

	prober := r.prober
	if prober == nil {
		prober, err = r.buildProber()
		if err != nil {
			return err
		}
	}

	log.V("Targets: %d", len(targets))
	log.V("Delay: %v, timeout: %v", r.options.Delay, r.options.Timeout)
	if r.options.RateLimit > 0 {
		log.V("Rate limit: %.2f req/s", r.options.RateLimit)
	}

	sc := scanner.NewScanner(prober, log)
	sc.SetAnnotate(!r.options.NoContext)

	report, scanErr := sc.Scan(ctx, targets, payloadSet, nil)
	if report == nil {
		return scanErr
	}

	if err := r.writeReport(report); err != nil {
		return err
	}
	if store != nil {
		if err := store.Save(report); err != nil {
			log.Error("Saving session: %v", err)
		} else {
			log.VV("Session saved to %s", store.Path())
		}
	}
	return scanErr
}

func (r *Runner) targets() ([]string, error) {
	switch {
	case r.options.URL != "":
		return []string{r.options.URL}, nil
	case r.options.InputFile != "":
		return input.ReadFile(r.options.InputFile)
	default:
		return input.ReadLines(r.stdin)
	}
}

func (r *Runner) payloads() ([]string, error) {
	if r.options.PayloadsFile != "" {
		return input.ReadFile(r.options.PayloadsFile)
	}
	return r.options.Payloads, nil
}

func (r *Runner) buildProber() (*probe.Executor, error) {
	client, err := network.NewClient(network.Settings{
		Timeout:   r.options.Timeout,
		Proxy:     r.options.Proxy,
		RateLimit: r.options.RateLimit,
		Retries:   r.options.Retries,
	})
	if err != nil {
		return nil, err
	}
	exec := probe.NewExecutor(client, identity.NewRandom(config.UserAgents))
	exec.SetDelay(r.options.Delay)
	exec.SetHeaders(r.options.HeaderMap())
	return exec, nil
}

func (r *Runner) showPrevious(store *session.Store, log *logger.Logger) {
	prev, err := store.Load()
	if err != nil {
		log.Warn("Ignoring session: %v", err)
		return
	}
	if prev == nil {
		return
	}
	log.V("Previous scan %s at %s: %d vulnerabilities (%s)",
		prev.ID, prev.ScanTime.Format("2006-01-02 15:04:05"), len(prev.Vulnerabilities), prev.URL)
}

func (r *Runner) writeReport(report *models.ScanReport) error {
	out := output.Format(report, r.options.OutputFormat)

	if r.options.OutputFile != "" {
		if err := os.WriteFile(r.options.OutputFile, []byte(out+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(r.stdout, out)
	return err
}

func (r *Runner) printBanner() {
	fmt.Fprintln(r.stderr, "")
	fmt.Fprintln(r.stderr, "   \x1b[38;5;93m█▀▄ ▀▄▀ ▄▀▀ ▄▀▀\x1b[0m")
	fmt.Fprintln(r.stderr, "   \x1b[38;5;129m█▀▄ ▄▀▄ ▄██ ▄██\x1b[0m")
	fmt.Fprintf(r.stderr, "   \x1b[38;5;141m%s\x1b[0m | \x1b[38;5;141m%s\x1b[0m\n", config.Version, config.Author)
	fmt.Fprintln(r.stderr, "")
}

// IsValidation reports whether err came from rejected input.
func IsValidation(err error) bool {
	return errors.Is(err, scanner.ErrValidation)
}
