package trapevent

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/honeyguard/honeygate/pkg/domain"
	"github.com/honeyguard/honeygate/pkg/infra/database/types"
)

const (
	TimingValid   = "valid"
	TimingTooFast = "too_fast"
	TimingTooSlow = "too_slow"

	RiskBandHigh   = "high"
	RiskBandMedium = "medium"
	RiskBandLow    = "low"

	FlagRenderTokenInvalid = "render_token_invalid"
	FlagEmptyUserAgent     = "empty_user_agent"
	FlagCrawlerUserAgent   = "crawler_user_agent"
	FlagRepeatOffender     = "repeat_offender"
)

// Risk weights applied by Recalculate. The sum is capped at 100.
const (
	riskHoneypot     = 50
	riskTooFast      = 30
	riskNoUserAgent  = 20
	maxRiskScore     = 100
	highRiskBoundary = 70
	midRiskBoundary  = 40
)

// TrapEvent is one captured interaction with a decoy surface.
type TrapEvent struct {
	ID                uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	IPAddress         string              `json:"ip_address"`
	Path              string              `json:"path"`
	Method            string              `json:"method"`
	Profile           string              `json:"profile"`
	Username          string              `json:"username"`
	PasswordMasked    string              `json:"password_masked"`
	UserAgent         string              `json:"user_agent"`
	Referer           string              `json:"referer"`
	AcceptLanguage    string              `json:"accept_language"`
	AcceptEncoding    string              `json:"accept_encoding"`
	HoneypotTriggered bool                `json:"honeypot_triggered"`
	TimingIssue       string              `json:"timing_issue"`
	ElapsedSeconds    *float64            `json:"elapsed_seconds"`
	RiskScore         int                 `json:"risk_score"`
	Flags             types.StringArray   `json:"flags" gorm:"type:text[]"`
	Device            string              `json:"device"`
	OSName            string              `json:"os_name"`
	Browser           string              `json:"browser"`
	Metadata          domain.MetadataJSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func (e *TrapEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	return e.Validate()
}

func (e *TrapEvent) BeforeUpdate(tx *gorm.DB) error {
	e.UpdatedAt = time.Now()
	return e.Validate()
}

func (e *TrapEvent) Validate() error {
	if e.IPAddress == "" {
		return fmt.Errorf("ip_address is required")
	}
	if e.Path == "" {
		return fmt.Errorf("path is required")
	}
	if e.Method != "GET" && e.Method != "POST" {
		return fmt.Errorf("method must be GET or POST, got %q", e.Method)
	}
	switch e.TimingIssue {
	case "", TimingValid, TimingTooFast, TimingTooSlow:
	default:
		return fmt.Errorf("invalid timing_issue %q", e.TimingIssue)
	}
	return nil
}

func (e *TrapEvent) TableName() string {
	return "public.trap_events"
}

// Recalculate derives the risk score from the detection outcome.
func (e *TrapEvent) Recalculate() {
	score := 0
	if e.HoneypotTriggered {
		score += riskHoneypot
	}
	if e.TimingIssue == TimingTooFast {
		score += riskTooFast
	}
	if e.UserAgent == "" {
		score += riskNoUserAgent
	}
	if score > maxRiskScore {
		score = maxRiskScore
	}
	e.RiskScore = score
}

// RiskBand buckets the score for display and stats.
func (e *TrapEvent) RiskBand() string {
	switch {
	case e.RiskScore >= highRiskBoundary:
		return RiskBandHigh
	case e.RiskScore >= midRiskBoundary:
		return RiskBandMedium
	default:
		return RiskBandLow
	}
}

// IsBot reports whether the event carries an unambiguous automation signal.
// Too-slow submissions stay out: a tab left open for ten minutes is human.
func (e *TrapEvent) IsBot() bool {
	return e.HoneypotTriggered || e.TimingIssue == TimingTooFast
}

// MaskPassword replaces a captured password with its length. The raw value
// is never stored anywhere.
func MaskPassword(raw string) string {
	if raw == "" {
		return ""
	}
	return fmt.Sprintf("***%d chars***", len([]rune(raw)))
}
