package decoy

import (
	"fmt"
	"sort"

	"github.com/honeyguard/honeygate/pkg/config"
)

// Registry holds the enabled decoy profiles indexed by mount path.
type Registry struct {
	profiles map[string]*Profile
	byPath   map[string]*Profile
}

func builtinProfiles() map[string]*Profile {
	return map[string]*Profile{
		ProfileDjango:    djangoProfile(),
		ProfileWordPress: wordpressProfile(),
	}
}

// NewRegistry builds the registry from the decoys config. An empty config
// enables every built-in profile on its default paths; entries may disable
// a profile or override its paths, error message, and field limits.
func NewRegistry(cfg config.DecoysConfig) (*Registry, error) {
	builtins := builtinProfiles()
	enabled := make(map[string]*Profile)

	if len(cfg.Profiles) == 0 {
		enabled = builtins
	} else {
		for _, pc := range cfg.Profiles {
			profile, ok := builtins[pc.Name]
			if !ok {
				return nil, fmt.Errorf("unknown decoy profile %q", pc.Name)
			}
			if !pc.Enabled {
				continue
			}
			if len(pc.Paths) > 0 {
				profile.MountPaths = pc.Paths
			}
			if pc.ErrorMessage != "" {
				profile.ErrorOverride = pc.ErrorMessage
			}
			if pc.MaxUsernameLength > 0 {
				profile.Username.MaxLength = pc.MaxUsernameLength
			}
			if pc.MaxPasswordLength > 0 {
				profile.Password.MaxLength = pc.MaxPasswordLength
			}
			enabled[pc.Name] = profile
		}
	}

	if len(enabled) == 0 {
		return nil, fmt.Errorf("no decoy profiles enabled")
	}

	registry := &Registry{
		profiles: enabled,
		byPath:   make(map[string]*Profile),
	}
	for _, profile := range enabled {
		for _, path := range profile.MountPaths {
			if existing, taken := registry.byPath[path]; taken {
				return nil, fmt.Errorf("path %q claimed by both %q and %q", path, existing.Name, profile.Name)
			}
			registry.byPath[path] = profile
		}
	}

	return registry, nil
}

// ByPath resolves the profile mounted at the given request path.
func (r *Registry) ByPath(path string) (*Profile, bool) {
	profile, ok := r.byPath[path]
	return profile, ok
}

// Profiles returns the enabled profiles, ordered by name for stable
// route registration.
func (r *Registry) Profiles() []*Profile {
	out := make([]*Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
