package decoy

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fastjson"

	"github.com/honeyguard/honeygate/pkg/domain"
	"github.com/honeyguard/honeygate/pkg/utils"
)

// Form field names shared by every profile. Bots that scrape the page
// submit these; bots that replay canned payloads miss the hidden ones.
const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldHoneypot    = "hp"
	FieldRenderToken = "render_time"
)

// Capture is everything taken from one request against a decoy surface.
// The raw password lives only here; it is masked before anything persists.
type Capture struct {
	IPAddress      string
	Path           string
	Method         string
	Profile        string
	Username       string
	Password       string
	Honeypot       string
	RenderToken    string
	UserAgent      string
	Referer        string
	AcceptLanguage string
	AcceptEncoding string
	SubmittedAt    time.Time
	Metadata       domain.MetadataJSON
}

// FromRequest captures the request against the given profile. POST bodies
// are read as form data or JSON; credential stuffers send both. Field
// values are truncated at the profile's advertised maximums.
func FromRequest(c *fiber.Ctx, profile *Profile) *Capture {
	capture := &Capture{
		IPAddress:      utils.ClientIP(c),
		Path:           c.Path(),
		Method:         c.Method(),
		Profile:        profile.Name,
		UserAgent:      c.Get(fiber.HeaderUserAgent),
		Referer:        c.Get(fiber.HeaderReferer),
		AcceptLanguage: c.Get(fiber.HeaderAcceptLanguage),
		AcceptEncoding: c.Get(fiber.HeaderAcceptEncoding),
		SubmittedAt:    time.Now(),
	}

	if c.Method() == fiber.MethodPost {
		capture.readBody(c)
		capture.Username = utils.Truncate(capture.Username, profile.Username.MaxLength)
		capture.Password = utils.Truncate(capture.Password, profile.Password.MaxLength)
	}

	capture.Metadata = domain.MetadataJSON{
		"ip_address":      capture.IPAddress,
		"path":            capture.Path,
		"request_method":  capture.Method,
		"user_agent":      capture.UserAgent,
		"referer":         capture.Referer,
		"accept_language": capture.AcceptLanguage,
		"accept_encoding": capture.AcceptEncoding,
		"timestamp":       capture.SubmittedAt.Format(time.RFC3339),
	}

	return capture
}

func (cap *Capture) readBody(c *fiber.Ctx) {
	contentType := string(c.Request().Header.ContentType())
	if strings.Contains(contentType, fiber.MIMEApplicationJSON) {
		cap.readJSONBody(c.Body())
		return
	}

	cap.Username = c.FormValue(FieldUsername)
	cap.Password = c.FormValue(FieldPassword)
	cap.Honeypot = c.FormValue(FieldHoneypot)
	cap.RenderToken = c.FormValue(FieldRenderToken)
}

func (cap *Capture) readJSONBody(body []byte) {
	value, err := fastjson.ParseBytes(body)
	if err != nil {
		return
	}
	cap.Username = string(value.GetStringBytes(FieldUsername))
	cap.Password = string(value.GetStringBytes(FieldPassword))
	cap.Honeypot = string(value.GetStringBytes(FieldHoneypot))
	cap.RenderToken = string(value.GetStringBytes(FieldRenderToken))
}
