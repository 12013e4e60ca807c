package detect

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/decoy"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
	"github.com/honeyguard/honeygate/pkg/infra/rendertoken"
)

var detectionCfg = config.DetectionConfig{
	TooFastThreshold: 2.0,
	TooSlowThreshold: 600.0,
}

func TestHoneypotDetector(t *testing.T) {
	detector := NewHoneypotDetector()

	tests := []struct {
		name      string
		honeypot  string
		triggered bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \t ", false},
		{"filled", "http://spam.example", true},
		{"single char", "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := &Assessment{}
			detector.Detect(context.Background(), &decoy.Capture{Honeypot: tt.honeypot}, assessment)
			assert.Equal(t, tt.triggered, assessment.HoneypotTriggered)
		})
	}
}

func TestTimingDetector_Thresholds(t *testing.T) {
	tokens := rendertoken.NewManager("test-secret", 24*time.Hour)
	detector := NewTimingDetector(tokens, detectionCfg)

	// Issued-at claims carry whole seconds, so anchor on a truncated instant.
	renderedAt := time.Now().Truncate(time.Second)
	token, err := tokens.Issue(renderedAt)
	require.NoError(t, err)

	tests := []struct {
		name    string
		elapsed time.Duration
		issue   string
	}{
		{"instant", 0, trapevent.TimingTooFast},
		{"just under fast threshold", 1990 * time.Millisecond, trapevent.TimingTooFast},
		{"exactly fast threshold", 2 * time.Second, trapevent.TimingValid},
		{"normal fill", 45 * time.Second, trapevent.TimingValid},
		{"exactly slow threshold", 600 * time.Second, trapevent.TimingValid},
		{"just over slow threshold", 600*time.Second + 10*time.Millisecond, trapevent.TimingTooSlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture := &decoy.Capture{
				Method:      "POST",
				RenderToken: token,
				SubmittedAt: renderedAt.Add(tt.elapsed),
			}
			assessment := &Assessment{}
			detector.Detect(context.Background(), capture, assessment)

			assert.Equal(t, tt.issue, assessment.TimingIssue)
			require.NotNil(t, assessment.ElapsedSeconds)
			assert.InDelta(t, tt.elapsed.Seconds(), *assessment.ElapsedSeconds, 0.001)
			assert.NotContains(t, assessment.Flags, trapevent.FlagRenderTokenInvalid)
		})
	}
}

func TestTimingDetector_InvalidTokens(t *testing.T) {
	tokens := rendertoken.NewManager("test-secret", 24*time.Hour)
	detector := NewTimingDetector(tokens, detectionCfg)

	forger := rendertoken.NewManager("other-secret", 24*time.Hour)
	forged, err := forger.Issue(time.Now())
	require.NoError(t, err)

	stale, err := tokens.Issue(time.Now().Add(-25 * time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-token"},
		{"forged signature", forged},
		{"older than max age", stale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture := &decoy.Capture{
				Method:      "POST",
				RenderToken: tt.token,
				SubmittedAt: time.Now(),
			}
			assessment := &Assessment{}
			detector.Detect(context.Background(), capture, assessment)

			assert.Equal(t, trapevent.TimingValid, assessment.TimingIssue)
			require.NotNil(t, assessment.ElapsedSeconds)
			assert.Zero(t, *assessment.ElapsedSeconds)
			assert.Contains(t, assessment.Flags, trapevent.FlagRenderTokenInvalid)
		})
	}
}

func TestTimingDetector_PageView(t *testing.T) {
	tokens := rendertoken.NewManager("test-secret", 24*time.Hour)
	detector := NewTimingDetector(tokens, detectionCfg)

	capture := &decoy.Capture{
		Method:      "GET",
		SubmittedAt: time.Now(),
	}
	assessment := &Assessment{}
	detector.Detect(context.Background(), capture, assessment)

	assert.Equal(t, trapevent.TimingValid, assessment.TimingIssue)
	require.NotNil(t, assessment.ElapsedSeconds)
	assert.Zero(t, *assessment.ElapsedSeconds)
	assert.Empty(t, assessment.Flags)
}

func TestUserAgentDetector(t *testing.T) {
	detector := NewUserAgentDetector()

	t.Run("empty user agent is flagged", func(t *testing.T) {
		assessment := &Assessment{}
		detector.Detect(context.Background(), &decoy.Capture{UserAgent: ""}, assessment)

		assert.Contains(t, assessment.Flags, trapevent.FlagEmptyUserAgent)
		assert.Empty(t, assessment.Device)
	})

	t.Run("browser is classified", func(t *testing.T) {
		assessment := &Assessment{}
		capture := &decoy.Capture{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		}
		detector.Detect(context.Background(), capture, assessment)

		assert.Equal(t, "Computer", assessment.Device)
		assert.Contains(t, assessment.OSName, "Windows")
		assert.Contains(t, assessment.Browser, "Chrome")
		assert.Empty(t, assessment.Flags)
	})

	t.Run("crawler is flagged", func(t *testing.T) {
		assessment := &Assessment{}
		capture := &decoy.Capture{
			UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		}
		detector.Detect(context.Background(), capture, assessment)

		assert.Contains(t, assessment.Flags, trapevent.FlagCrawlerUserAgent)
	})
}

func TestChain_Assess(t *testing.T) {
	tokens := rendertoken.NewManager("test-secret", 24*time.Hour)
	chain := NewChain(
		logrus.New(),
		NewHoneypotDetector(),
		NewTimingDetector(tokens, detectionCfg),
		NewUserAgentDetector(),
	)

	renderedAt := time.Now().Truncate(time.Second)
	token, err := tokens.Issue(renderedAt)
	require.NoError(t, err)

	capture := &decoy.Capture{
		Method:      "POST",
		Honeypot:    "filled by bot",
		RenderToken: token,
		SubmittedAt: renderedAt.Add(500 * time.Millisecond),
		UserAgent:   "curl/8.4.0",
	}

	assessment := chain.Assess(context.Background(), capture)

	assert.True(t, assessment.HoneypotTriggered)
	assert.Equal(t, trapevent.TimingTooFast, assessment.TimingIssue)
	require.NotNil(t, assessment.ElapsedSeconds)
	assert.InDelta(t, 0.5, *assessment.ElapsedSeconds, 0.001)
}

func TestAssessment_FlagDeduplicates(t *testing.T) {
	assessment := &Assessment{}
	assessment.Flag(trapevent.FlagRepeatOffender)
	assessment.Flag(trapevent.FlagRepeatOffender)
	assert.Equal(t, []string{trapevent.FlagRepeatOffender}, assessment.Flags)
}
