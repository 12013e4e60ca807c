package detect

import (
	"context"

	"github.com/honeyguard/honeygate/pkg/decoy"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
	"github.com/honeyguard/honeygate/pkg/utils"
)

// UserAgentDetector classifies the submitter's user agent and flags the
// suspicious shapes: no UA at all, or one that identifies as a crawler.
type UserAgentDetector struct{}

func NewUserAgentDetector() *UserAgentDetector {
	return &UserAgentDetector{}
}

func (d *UserAgentDetector) Name() string {
	return "useragent"
}

func (d *UserAgentDetector) Detect(_ context.Context, capture *decoy.Capture, assessment *Assessment) {
	info := utils.ParseUserAgent(capture.UserAgent)
	if info == nil {
		assessment.Flag(trapevent.FlagEmptyUserAgent)
		return
	}

	assessment.Device = info.Device
	assessment.OSName = info.OS
	assessment.Browser = info.Browser

	if info.IsCrawler {
		assessment.Flag(trapevent.FlagCrawlerUserAgent)
	}
}
