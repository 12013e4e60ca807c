package alert

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/honeyguard/honeygate/pkg/domain/alert"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

const DefaultSubjectPrefix = "🚨 Honeypot Alert"

const bodyTemplate = `🚨 Honeypot Alert - %s

=== Request Details ===
IP Address: %s
Path: %s
Method: %s
CreatedAt: %s

=== Authentication Attempt ===
Username: %s
Password: %s

=== Detection Flags ===
Honeypot Field Triggered: %t
Timing Issue: %s
Submission Time: %.2f seconds

=== Browser & Environment ===
User Agent: %s
Referer: %s
Accept-Language: %s
Accept-Encoding: %s

=== Full Metadata ===
%s
`

// BuildMessage renders the alert subject and plain-text body for an event.
// The password placeholder receives the masked value; the raw password is
// gone by the time an event reaches alerting.
func BuildMessage(prefix string, event *trapevent.TrapEvent) *alert.Message {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	elapsed := 0.0
	if event.ElapsedSeconds != nil {
		elapsed = *event.ElapsedSeconds
	}

	rawMetadata := "{}"
	if metadata, err := json.MarshalIndent(event.Metadata, "", "  "); err == nil {
		rawMetadata = string(metadata)
	}

	body := fmt.Sprintf(bodyTemplate,
		event.Path,
		event.IPAddress,
		event.Path,
		event.Method,
		event.CreatedAt.Format(time.RFC3339),
		event.Username,
		event.PasswordMasked,
		event.HoneypotTriggered,
		event.TimingIssue,
		elapsed,
		event.UserAgent,
		event.Referer,
		event.AcceptLanguage,
		event.AcceptEncoding,
		rawMetadata,
	)

	return &alert.Message{
		Subject: fmt.Sprintf("%s - %s", prefix, event.Path),
		Body:    body,
		Event:   event,
	}
}
