package utils

import (
	"fmt"
	"net"
	"strings"

	"github.com/avct/uasurfer"
	"github.com/gofiber/fiber/v2"

	"github.com/honeyguard/honeygate/pkg/common"
)

type UserAgentInfo struct {
	Device    string
	OS        string
	Browser   string
	IsCrawler bool
}

// ClientIP extracts the requester address, honoring X-Forwarded-For when a
// proxy sits in front of the trap. The first hop is taken; a malformed hop
// degrades to 0.0.0.0 rather than dropping the event.
func ClientIP(c *fiber.Ctx) string {
	forwarded := c.Get(common.XForwardedForHeader)
	if forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if net.ParseIP(first) == nil {
			return common.InvalidIP
		}
		return first
	}

	remote := c.IP()
	if remote == "" {
		return common.UnknownIP
	}
	if net.ParseIP(remote) == nil {
		return common.InvalidIP
	}
	return remote
}

// ParseUserAgent classifies the submitter's user agent for the event record.
// Empty strings return nil; the caller flags those separately.
func ParseUserAgent(uaString string) *UserAgentInfo {
	if strings.TrimSpace(uaString) == "" {
		return nil
	}

	ua := uasurfer.Parse(uaString)

	device := "Unknown"
	switch ua.DeviceType {
	case uasurfer.DeviceComputer:
		device = "Computer"
	case uasurfer.DeviceTablet:
		device = "Tablet"
	case uasurfer.DevicePhone:
		device = "Phone"
	case uasurfer.DeviceConsole:
		device = "Console"
	case uasurfer.DeviceWearable:
		device = "Wearable"
	case uasurfer.DeviceTV:
		device = "TV"
	}

	os := fmt.Sprintf("%s %d.%d", ua.OS.Name.String(), ua.OS.Version.Major, ua.OS.Version.Minor)

	browser := fmt.Sprintf("%s %d.%d", ua.Browser.Name.String(), ua.Browser.Version.Major, ua.Browser.Version.Minor)

	return &UserAgentInfo{
		Device:    device,
		OS:        os,
		Browser:   browser,
		IsCrawler: ua.IsBot(),
	}
}

// Truncate caps a captured field at the profile's advertised max length,
// counted in runes so multibyte submissions do not split mid-character.
func Truncate(value string, max int) string {
	if max <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}
