package trapevent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculate_RiskScore(t *testing.T) {
	tests := []struct {
		name      string
		honeypot  bool
		timing    string
		userAgent string
		want      int
	}{
		{name: "clean submission", timing: TimingValid, userAgent: "Mozilla/5.0", want: 0},
		{name: "honeypot only", honeypot: true, timing: TimingValid, userAgent: "Mozilla/5.0", want: 50},
		{name: "too fast only", timing: TimingTooFast, userAgent: "Mozilla/5.0", want: 30},
		{name: "missing user agent only", timing: TimingValid, want: 20},
		{name: "honeypot and too fast", honeypot: true, timing: TimingTooFast, userAgent: "curl/8.0", want: 80},
		{name: "all signals capped", honeypot: true, timing: TimingTooFast, want: 100},
		{name: "too slow adds nothing", timing: TimingTooSlow, userAgent: "Mozilla/5.0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &TrapEvent{
				HoneypotTriggered: tt.honeypot,
				TimingIssue:       tt.timing,
				UserAgent:         tt.userAgent,
			}
			event.Recalculate()
			assert.Equal(t, tt.want, event.RiskScore)
		})
	}
}

func TestRiskBand(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, RiskBandLow},
		{39, RiskBandLow},
		{40, RiskBandMedium},
		{69, RiskBandMedium},
		{70, RiskBandHigh},
		{100, RiskBandHigh},
	}

	for _, tt := range tests {
		event := &TrapEvent{RiskScore: tt.score}
		assert.Equal(t, tt.want, event.RiskBand(), "score %d", tt.score)
	}
}

func TestIsBot(t *testing.T) {
	assert.True(t, (&TrapEvent{HoneypotTriggered: true, TimingIssue: TimingValid}).IsBot())
	assert.True(t, (&TrapEvent{TimingIssue: TimingTooFast}).IsBot())
	assert.False(t, (&TrapEvent{TimingIssue: TimingTooSlow}).IsBot())
	assert.False(t, (&TrapEvent{TimingIssue: TimingValid}).IsBot())
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "", MaskPassword(""))
	assert.Equal(t, "***9 chars***", MaskPassword("secret123"))
	assert.Equal(t, "***100 chars***", MaskPassword(strings.Repeat("a", 100)))
	// multibyte passwords are counted in characters, not bytes
	assert.Equal(t, "***4 chars***", MaskPassword("пass"))
}

func TestValidate(t *testing.T) {
	valid := &TrapEvent{
		IPAddress:   "203.0.113.7",
		Path:        "/admin/",
		Method:      "POST",
		TimingIssue: TimingValid,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*TrapEvent)
		want   string
	}{
		{"missing ip", func(e *TrapEvent) { e.IPAddress = "" }, "ip_address is required"},
		{"missing path", func(e *TrapEvent) { e.Path = "" }, "path is required"},
		{"bad method", func(e *TrapEvent) { e.Method = "PUT" }, "method must be GET or POST"},
		{"bad timing", func(e *TrapEvent) { e.TimingIssue = "delayed" }, "invalid timing_issue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &TrapEvent{
				IPAddress:   valid.IPAddress,
				Path:        valid.Path,
				Method:      valid.Method,
				TimingIssue: valid.TimingIssue,
			}
			tt.mutate(event)
			err := event.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
