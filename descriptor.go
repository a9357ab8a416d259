package modhost

import (
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// LoadDirective is a declared ordering requirement between two modules.
type LoadDirective int

const (
	// LoadBefore requires the referenced module to be scheduled before the
	// declaring module.
	LoadBefore LoadDirective = iota
	// LoadAfter requires the declaring module to be scheduled before the
	// referenced module.
	LoadAfter
)

// ParseLoadDirective parses the manifest representation of a directive.
func ParseLoadDirective(s string) (LoadDirective, error) {
	switch s {
	case "LOAD_BEFORE":
		return LoadBefore, nil
	case "LOAD_AFTER":
		return LoadAfter, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirective, s)
	}
}

// String returns the manifest representation of the directive.
func (d LoadDirective) String() string {
	if d == LoadAfter {
		return "LOAD_AFTER"
	}
	return "LOAD_BEFORE"
}

// SystemScope is the execution scope a module prefers to run in.
type SystemScope int

const (
	// ScopeServer modules run only on the host server.
	ScopeServer SystemScope = iota
	// ScopeClient modules exist for their client surface and run no
	// server-side logic beyond registration.
	ScopeClient
	// ScopeShared modules run on the server and expose a client surface.
	ScopeShared
)

// ParseSystemScope parses the manifest representation of a scope. The legacy
// "Scope." prefix is tolerated.
func ParseSystemScope(s string) (SystemScope, error) {
	if len(s) > 6 && s[:6] == "Scope." {
		s = s[6:]
	}
	switch s {
	case "SERVER":
		return ScopeServer, nil
	case "CLIENT":
		return ScopeClient, nil
	case "SHARED":
		return ScopeShared, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidScope, s)
	}
}

// String returns the manifest representation of the scope.
func (s SystemScope) String() string {
	switch s {
	case ScopeClient:
		return "CLIENT"
	case ScopeShared:
		return "SHARED"
	default:
		return "SERVER"
	}
}

// DependencyConstraint is one declared dependency of a module: the target
// module name, the minimum acceptable version of it, whether the dependency
// is required, and the load-order directive relating the two modules.
type DependencyConstraint struct {
	Name       string        `json:"name"`
	MinVersion string        `json:"minVersion"`
	Required   bool          `json:"required"`
	LoadPrior  LoadDirective `json:"-"`
}

// TabBinding is the optional UI-tab registration block of a manifest. It is
// only acted upon when the package also carries a tabula.json entry.
type TabBinding struct {
	HasTab         bool   `json:"hasTab"`
	ViewPermission string `json:"tabViewPermission"`
	ShortName      string `json:"tabShortName"`
}

// ModuleDescriptor is the immutable metadata record read from a module
// package's module.json. Name and MainClass are never empty and Version
// always matches MAJOR.MINOR.PATCH once parsing succeeds.
type ModuleDescriptor struct {
	Name                string
	Description         string
	Version             string
	Authors             []string
	MainClass           string
	Dependencies        []DependencyConstraint
	MinAPIVersion       string
	StoresSensitiveData bool
	UsesEncryption      bool
	PreferredScope      SystemScope
	ScopeErr            error // non-nil when preferredScope was present but unknown
	Tab                 *TabBinding
}

// rawDescriptor mirrors the exact manifest key layout.
type rawDescriptor struct {
	ModuleName          string          `json:"moduleName"`
	Description         string          `json:"description"`
	Version             string          `json:"version"`
	Authors             []string        `json:"authors"`
	MainClass           string          `json:"mainClass"`
	Dependencies        []rawDependency `json:"dependencies"`
	MinAPIVersion       string          `json:"minAPIVersion"`
	StoresSensitiveData bool            `json:"storesSensitiveData"`
	UsesEncryption      bool            `json:"usesEncryption"`
	PreferredScope      string          `json:"preferredScope"`
	Client              *TabBinding     `json:"client"`
}

type rawDependency struct {
	Name       string `json:"name"`
	MinVersion string `json:"minVersion"`
	Required   bool   `json:"required"`
	LoadPrior  string `json:"loadPrior"`
}

// ParseDescriptor parses manifest bytes into a ModuleDescriptor. A manifest
// that is not valid JSON, or that lacks moduleName, mainClass, version or
// authors, fails with ErrDescriptorMalformed; the caller excludes only that
// module from discovery. An unknown preferredScope does not fail the parse:
// it is recorded on ScopeErr so the loader can fall back to the default
// scope with a diagnostic.
func ParseDescriptor(data []byte) (*ModuleDescriptor, error) {
	var raw rawDescriptor
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDescriptorMalformed, err)
	}

	if raw.ModuleName == "" {
		return nil, fmt.Errorf("%w: moduleName is empty", ErrDescriptorMalformed)
	}
	if raw.MainClass == "" {
		return nil, fmt.Errorf("%w: module %s declares no mainClass", ErrDescriptorMalformed, raw.ModuleName)
	}
	if len(raw.Authors) == 0 {
		return nil, fmt.Errorf("%w: module %s declares no authors", ErrDescriptorMalformed, raw.ModuleName)
	}
	if _, err := semver.StrictNewVersion(raw.Version); err != nil {
		return nil, fmt.Errorf("%w: module %s version %q: %w", ErrInvalidVersion, raw.ModuleName, raw.Version, err)
	}

	desc := &ModuleDescriptor{
		Name:                raw.ModuleName,
		Description:         raw.Description,
		Version:             raw.Version,
		Authors:             raw.Authors,
		MainClass:           raw.MainClass,
		MinAPIVersion:       raw.MinAPIVersion,
		StoresSensitiveData: raw.StoresSensitiveData,
		UsesEncryption:      raw.UsesEncryption,
		Tab:                 raw.Client,
	}

	if raw.PreferredScope != "" {
		scope, err := ParseSystemScope(raw.PreferredScope)
		if err != nil {
			desc.ScopeErr = err
		} else {
			desc.PreferredScope = scope
		}
	}

	for _, dep := range raw.Dependencies {
		prior, err := ParseLoadDirective(dep.LoadPrior)
		if err != nil {
			return nil, fmt.Errorf("%w: module %s dependency %s: %w",
				ErrDescriptorMalformed, raw.ModuleName, dep.Name, err)
		}
		desc.Dependencies = append(desc.Dependencies, DependencyConstraint{
			Name:       dep.Name,
			MinVersion: dep.MinVersion,
			Required:   dep.Required,
			LoadPrior:  prior,
		})
	}

	return desc, nil
}
