package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]struct{}{
	"debug":   {},
	"info":    {},
	"warning": {},
	"error":   {},
}

// Validate checks every tunable the way the rest of the system relies on
// them. All violations are reported at once so a broken deployment fails
// with the full picture instead of one error per restart.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.SecretKey == "" {
		errs = append(errs, "server.secret_key is required")
	}
	if c.Server.TrapPort <= 0 || c.Server.TrapPort > 65535 {
		errs = append(errs, fmt.Sprintf("server.trap_port must be a valid port, got %d", c.Server.TrapPort))
	}
	if c.Server.AdminPort <= 0 || c.Server.AdminPort > 65535 {
		errs = append(errs, fmt.Sprintf("server.admin_port must be a valid port, got %d", c.Server.AdminPort))
	}

	if c.Detection.TooFastThreshold < 0.1 {
		errs = append(errs, fmt.Sprintf("detection.too_fast_threshold must be at least 0.1, got %g", c.Detection.TooFastThreshold))
	}
	if c.Detection.TooSlowThreshold < 1.0 {
		errs = append(errs, fmt.Sprintf("detection.too_slow_threshold must be at least 1.0, got %g", c.Detection.TooSlowThreshold))
	}
	if c.Detection.TooSlowThreshold <= c.Detection.TooFastThreshold {
		errs = append(errs, fmt.Sprintf(
			"detection.too_slow_threshold (%g) must be greater than detection.too_fast_threshold (%g)",
			c.Detection.TooSlowThreshold, c.Detection.TooFastThreshold,
		))
	}
	if c.Detection.RepeatOffenderThreshold < 1 {
		errs = append(errs, fmt.Sprintf("detection.repeat_offender_threshold must be at least 1, got %d", c.Detection.RepeatOffenderThreshold))
	}
	if c.Detection.TrackingWindow <= 0 {
		errs = append(errs, "detection.tracking_window must be a positive duration")
	}
	if c.Detection.RenderTokenMaxAge <= 0 {
		errs = append(errs, "detection.render_token_max_age must be a positive duration")
	}

	for _, profile := range c.Decoys.Profiles {
		if profile.Name == "" {
			errs = append(errs, "decoys.profiles entries must have a name")
			continue
		}
		// zero means "use the profile default", anything else must be usable
		if profile.MaxUsernameLength < 0 {
			errs = append(errs, fmt.Sprintf("decoys.profiles[%s].max_username_length must be at least 1", profile.Name))
		}
		if profile.MaxPasswordLength < 0 {
			errs = append(errs, fmt.Sprintf("decoys.profiles[%s].max_password_length must be at least 1", profile.Name))
		}
		for _, path := range profile.Paths {
			if !strings.HasPrefix(path, "/") {
				errs = append(errs, fmt.Sprintf("decoys.profiles[%s] path %q must start with /", profile.Name, path))
			}
		}
	}

	if _, ok := validLogLevels[strings.ToLower(c.Logging.Level)]; !ok {
		errs = append(errs, fmt.Sprintf("logging.level must be one of debug, info, warning, error, got %q", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
