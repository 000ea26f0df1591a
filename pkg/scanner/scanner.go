// Package scanner drives targets and payloads through probing and
// classification and aggregates the findings into a report.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/lcalzada-xor/rxss/pkg/logger"
	"github.com/lcalzada-xor/rxss/pkg/models"
	"github.com/lcalzada-xor/rxss/pkg/scanner/mutate"
	"github.com/lcalzada-xor/rxss/pkg/scanner/payloads"
	"github.com/lcalzada-xor/rxss/pkg/scanner/probe"
	"github.com/lcalzada-xor/rxss/pkg/scanner/reflection"
	"github.com/lcalzada-xor/rxss/pkg/scanner/security"
)

// Prober performs a single test request. *probe.Executor satisfies it.
type Prober interface {
	Probe(ctx context.Context, testURL string) (*probe.Response, error)
}

// ProgressFunc receives the percentage of completed targets.
type ProgressFunc func(percent int)

// Scanner is the main struct for the XSS scanner.
// It holds no per-scan state, so one instance may serve concurrent scans.
type Scanner struct {
	prober     Prober
	logger     *logger.Logger
	provider   *payloads.Provider
	wafManager *security.Manager
	annotate   bool
}

// NewScanner creates a new Scanner instance
func NewScanner(prober Prober, log *logger.Logger) *Scanner {
	if log == nil {
		log = logger.Discard()
	}
	wafManager, err := security.NewManager()
	if err != nil {
		log.Warn("WAF signatures unavailable: %v", err)
	}
	return &Scanner{
		prober:     prober,
		logger:     log,
		provider:   payloads.DefaultProvider(),
		wafManager: wafManager,
		annotate:   true,
	}
}

// SetPayloadProvider replaces the source of default payloads.
func (s *Scanner) SetPayloadProvider(p *payloads.Provider) {
	s.provider = p
}

// SetAnnotate enables or disables context and element enrichment of findings
func (s *Scanner) SetAnnotate(enable bool) {
	s.annotate = enable
}

// SetWAFManager sets the WAF detector. nil disables detection.
func (s *Scanner) SetWAFManager(m *security.Manager) {
	s.wafManager = m
}

// Scan probes every target with every payload, target-major, one request
// at a time. Validation errors wrap ErrValidation and happen before any
// request. If the scan stops early the report holds the findings so far,
// has Status aborted, and the error wraps ErrAborted.
func (s *Scanner) Scan(ctx context.Context, targets, payloadOverride []string, progress ProgressFunc) (report *models.ScanReport, err error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	set, err := s.provider.Resolve(payloadOverride)
	if err != nil || len(set) == 0 {
		return nil, ErrNoPayloads
	}

	id := uuid.NewString()
	vulns := []models.Vulnerability{}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Scan %s aborted: %v", id, r)
			report = models.NewScanReport(id, targets, vulns, models.StatusAborted)
			err = fmt.Errorf("%w: %v", ErrAborted, r)
		}
	}()

	s.logger.Section("Scan " + id)
	s.logger.V("Targets: %d, payloads: %d", len(targets), len(set))

	for i, target := range targets {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.logger.Warn("Scan %s cancelled after %d/%d targets", id, i, len(targets))
			return models.NewScanReport(id, targets, vulns, models.StatusAborted),
				fmt.Errorf("%w: %w", ErrAborted, ctxErr)
		}

		if ctxErr := s.scanTarget(ctx, target, set, &vulns); ctxErr != nil {
			s.logger.Warn("Scan %s cancelled during %s", id, target)
			return models.NewScanReport(id, targets, vulns, models.StatusAborted),
				fmt.Errorf("%w: %w", ErrAborted, ctxErr)
		}

		percent := int(math.Round(100 * float64(i+1) / float64(len(targets))))
		s.logger.Progress(percent)
		if progress != nil {
			progress(percent)
		}
	}

	s.logger.Info("Scan %s completed: %d vulnerabilities", id, len(vulns))
	return models.NewScanReport(id, targets, vulns, models.StatusCompleted), nil
}

// scanTarget runs every payload against one target, appending each hit to
// found as soon as it is classified. It only returns an error when ctx ended.
func (s *Scanner) scanTarget(ctx context.Context, target string, set []string, found *[]models.Vulnerability) error {
	wafReported := false

	for _, payload := range set {
		tc := models.TestCase{
			Target:  target,
			Payload: payload,
			TestURL: mutate.Mutate(target, payload),
		}

		resp, err := s.prober.Probe(ctx, tc.TestURL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			var failure *probe.Failure
			if errors.As(err, &failure) {
				s.logger.V("Probe failed: %v", failure)
			} else {
				s.logger.V("Probe failed for %s: %v", tc.TestURL, err)
			}
			continue
		}
		tc.Identity = resp.Identity
		s.logger.Detail("%d %s", resp.StatusCode, tc.TestURL)

		if !wafReported && s.wafManager != nil {
			if waf := s.wafManager.Detect(resp.StatusCode, resp.Header, resp.Body); waf.Detected {
				s.logger.Warn("WAF detected on %s: %s (results may be skewed)", target, waf.Name)
				wafReported = true
			}
		}

		v := reflection.Classify(tc, resp.Body)
		if v == nil {
			continue
		}
		v.StatusCode = resp.StatusCode
		if s.annotate {
			reflection.Annotate(v, resp.Body)
		}
		s.logger.Info("Reflected XSS: %s", v.TestURL)
		if v.Context != "" {
			s.logger.V("Context: %s, element: %s", v.Context, v.Element)
		}
		*found = append(*found, *v)
	}
	return nil
}
