package alert

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/honeyguard/honeygate/pkg/domain"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

func buildTestEvent() *trapevent.TrapEvent {
	elapsed := 1.2345
	return &trapevent.TrapEvent{
		ID:                uuid.New(),
		IPAddress:         "203.0.113.9",
		Path:              "/admin/login/",
		Method:            "POST",
		Profile:           "django",
		Username:          "admin",
		PasswordMasked:    "***8 chars***",
		UserAgent:         "curl/8.0",
		Referer:           "https://example.com/admin/",
		AcceptLanguage:    "en-US,en;q=0.9",
		AcceptEncoding:    "gzip, deflate",
		HoneypotTriggered: true,
		TimingIssue:       trapevent.TimingTooFast,
		ElapsedSeconds:    &elapsed,
		RiskScore:         80,
		Metadata:          domain.MetadataJSON{"forwarded_for": "203.0.113.9"},
		CreatedAt:         time.Date(2025, 7, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestBuildMessage_Body(t *testing.T) {
	msg := BuildMessage("", buildTestEvent())

	expected := `🚨 Honeypot Alert - /admin/login/

=== Request Details ===
IP Address: 203.0.113.9
Path: /admin/login/
Method: POST
CreatedAt: 2025-07-01T12:30:00Z

=== Authentication Attempt ===
Username: admin
Password: ***8 chars***

=== Detection Flags ===
Honeypot Field Triggered: true
Timing Issue: too_fast
Submission Time: 1.23 seconds

=== Browser & Environment ===
User Agent: curl/8.0
Referer: https://example.com/admin/
Accept-Language: en-US,en;q=0.9
Accept-Encoding: gzip, deflate

=== Full Metadata ===
{
  "forwarded_for": "203.0.113.9"
}
`

	assert.Equal(t, expected, msg.Body)
}

func TestBuildMessage_DefaultSubjectPrefix(t *testing.T) {
	msg := BuildMessage("", buildTestEvent())

	assert.Equal(t, "🚨 Honeypot Alert - /admin/login/", msg.Subject)
}

func TestBuildMessage_CustomSubjectPrefix(t *testing.T) {
	msg := BuildMessage("[honeygate]", buildTestEvent())

	assert.Equal(t, "[honeygate] - /admin/login/", msg.Subject)
}

func TestBuildMessage_NilElapsedSeconds(t *testing.T) {
	event := buildTestEvent()
	event.ElapsedSeconds = nil

	msg := BuildMessage("", event)

	assert.Contains(t, msg.Body, "Submission Time: 0.00 seconds")
}

func TestBuildMessage_NilMetadata(t *testing.T) {
	event := buildTestEvent()
	event.Metadata = nil

	msg := BuildMessage("", event)

	assert.Contains(t, msg.Body, "=== Full Metadata ===\nnull")
}

func TestBuildMessage_CarriesEvent(t *testing.T) {
	event := buildTestEvent()

	msg := BuildMessage("", event)

	assert.Same(t, event, msg.Event)
}
