package detect

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/decoy"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

// Assessment accumulates what the detector chain concluded about one
// captured submission.
type Assessment struct {
	HoneypotTriggered bool
	TimingIssue       string
	ElapsedSeconds    *float64
	Flags             []string
	Device            string
	OSName            string
	Browser           string
}

// Flag records a detector flag, once.
func (a *Assessment) Flag(flag string) {
	for _, existing := range a.Flags {
		if existing == flag {
			return
		}
	}
	a.Flags = append(a.Flags, flag)
}

// Detector inspects one capture and contributes its signal to the shared
// assessment. Detectors never fail: a signal either fires or it does not,
// and anything unverifiable degrades to a flag instead of an error.
type Detector interface {
	Name() string
	Detect(ctx context.Context, capture *decoy.Capture, assessment *Assessment)
}

// Chain runs detectors in registration order over one capture.
type Chain struct {
	detectors []Detector
	logger    *logrus.Logger
}

func NewChain(logger *logrus.Logger, detectors ...Detector) *Chain {
	return &Chain{
		detectors: detectors,
		logger:    logger,
	}
}

func (c *Chain) Assess(ctx context.Context, capture *decoy.Capture) *Assessment {
	assessment := &Assessment{TimingIssue: trapevent.TimingValid}

	for _, detector := range c.detectors {
		detector.Detect(ctx, capture, assessment)
	}

	c.logger.WithFields(logrus.Fields{
		"ip_address":         capture.IPAddress,
		"path":               capture.Path,
		"honeypot_triggered": assessment.HoneypotTriggered,
		"timing_issue":       assessment.TimingIssue,
		"flags":              assessment.Flags,
	}).Debug("detector chain finished")

	return assessment
}
