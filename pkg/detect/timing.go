package detect

import (
	"context"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/decoy"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
	"github.com/honeyguard/honeygate/pkg/infra/rendertoken"
)

// TimingDetector measures how long the form took to fill, using the signed
// render token the page carried. Sub-threshold fills are automation; a fill
// beyond the slow threshold usually means a parked tab.
//
// A missing, forged, or expired token classifies as valid with zero elapsed
// time plus a flag. Timing never escalates on input the submitter controls.
type TimingDetector struct {
	tokens           rendertoken.Manager
	tooFastThreshold float64
	tooSlowThreshold float64
}

func NewTimingDetector(tokens rendertoken.Manager, cfg config.DetectionConfig) *TimingDetector {
	return &TimingDetector{
		tokens:           tokens,
		tooFastThreshold: cfg.TooFastThreshold,
		tooSlowThreshold: cfg.TooSlowThreshold,
	}
}

func (d *TimingDetector) Name() string {
	return "timing"
}

func (d *TimingDetector) Detect(_ context.Context, capture *decoy.Capture, assessment *Assessment) {
	elapsed := 0.0
	assessment.TimingIssue = trapevent.TimingValid
	assessment.ElapsedSeconds = &elapsed

	// Page views carry no form, so there is nothing to time.
	if capture.Method != "POST" {
		return
	}

	if capture.RenderToken == "" {
		assessment.Flag(trapevent.FlagRenderTokenInvalid)
		return
	}

	renderedAt, err := d.tokens.Resolve(capture.RenderToken)
	if err != nil {
		assessment.Flag(trapevent.FlagRenderTokenInvalid)
		return
	}

	elapsed = capture.SubmittedAt.Sub(renderedAt).Seconds()

	switch {
	case elapsed < d.tooFastThreshold:
		assessment.TimingIssue = trapevent.TimingTooFast
	case elapsed > d.tooSlowThreshold:
		assessment.TimingIssue = trapevent.TimingTooSlow
	}
}
