package http

import (
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/honeyguard/honeygate/pkg/common"
	"github.com/honeyguard/honeygate/pkg/decoy"
	"github.com/honeyguard/honeygate/pkg/i18n"
)

// profileFromCtx prefers the profile resolved by the decoy headers middleware
// and falls back to a registry lookup when the handler is mounted without it.
func profileFromCtx(c *fiber.Ctx, registry *decoy.Registry) (*decoy.Profile, bool) {
	if p, ok := c.Locals(common.ProfileContextKey).(*decoy.Profile); ok {
		return p, true
	}
	return registry.ByPath(c.Path())
}

// decoyPageData assembles the render context for a decoy login page in the
// locale negotiated from the Accept-Language header. Missing catalog keys
// render empty rather than failing: a broken string on a decoy page is
// better than no page.
func decoyPageData(profile *decoy.Profile, bundle *i18n.Bundle, acceptLanguage, renderToken, actionPath string) *decoy.PageData {
	locale := bundle.MatchLocale(acceptLanguage)
	messages := bundle.Messages(locale)
	prefix := profile.Name + "."

	return &decoy.PageData{
		Lang:              locale,
		Title:             messages[profile.TitleKey],
		SiteHeader:        messages[prefix+"site_header"],
		UsernameLabel:     messages[profile.Username.LabelKey],
		PasswordLabel:     messages[profile.Password.LabelKey],
		SubmitLabel:       messages[profile.SubmitKey],
		RememberMeLabel:   messages[prefix+"remember_me"],
		LostPasswordLabel: messages[prefix+"lost_password"],
		BackToSiteLabel:   messages[prefix+"back_to_site"],
		MaxUsernameLength: profile.Username.MaxLength,
		MaxPasswordLength: profile.Password.MaxLength,
		RenderToken:       renderToken,
		ActionPath:        actionPath,
	}
}

// decoyErrorMessage resolves the failed-login message for a profile. The
// config override wins over the catalog; both are operator-controlled, so
// markup is allowed through.
func decoyErrorMessage(profile *decoy.Profile, bundle *i18n.Bundle, locale string) template.HTML {
	if profile.ErrorOverride != "" {
		return template.HTML(profile.ErrorOverride)
	}
	if msg, ok := bundle.Message(locale, profile.ErrorKey); ok {
		return template.HTML(msg)
	}
	return ""
}
