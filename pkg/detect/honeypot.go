package detect

import (
	"context"
	"strings"

	"github.com/honeyguard/honeygate/pkg/decoy"
)

// HoneypotDetector fires when the hidden form field carries anything.
// Browsers never fill it; form-stuffing bots fill every input they find.
type HoneypotDetector struct{}

func NewHoneypotDetector() *HoneypotDetector {
	return &HoneypotDetector{}
}

func (d *HoneypotDetector) Name() string {
	return "honeypot"
}

func (d *HoneypotDetector) Detect(_ context.Context, capture *decoy.Capture, assessment *Assessment) {
	if strings.TrimSpace(capture.Honeypot) != "" {
		assessment.HoneypotTriggered = true
	}
}
