package loop

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile names the trigger segments of one transaction-set shape. It is
// an immutable configuration value passed to the walker and extractor at
// construction time, so multiple transaction-set profiles can coexist in
// one process.
type Profile struct {
	// Name identifies the profile, e.g. "837P".
	Name string `yaml:"name"`

	// ClaimTrigger starts a new claim loop (CLM for 837).
	ClaimTrigger string `yaml:"claim_trigger"`

	// ServiceTrigger starts a new service-line loop (LX for 837).
	ServiceTrigger string `yaml:"service_trigger"`

	// HierarchyTrigger marks a hierarchical-level boundary that claims
	// cannot cross (HL for 837).
	HierarchyTrigger string `yaml:"hierarchy_trigger"`

	// ServiceDetail is the segment carrying procedure and charge data
	// within a service-line loop (SV1 for professional claims).
	ServiceDetail string `yaml:"service_detail"`
}

// Default837P returns the professional claim (837P) profile.
func Default837P() Profile {
	return Profile{
		Name:             "837P",
		ClaimTrigger:     "CLM",
		ServiceTrigger:   "LX",
		HierarchyTrigger: "HL",
		ServiceDetail:    "SV1",
	}
}

// Default837I returns the institutional claim (837I) profile. The loop
// shape is identical to 837P; only the service detail segment differs.
func Default837I() Profile {
	return Profile{
		Name:             "837I",
		ClaimTrigger:     "CLM",
		ServiceTrigger:   "LX",
		HierarchyTrigger: "HL",
		ServiceDetail:    "SV2",
	}
}

// Validate checks that every trigger identifier is set.
func (p Profile) Validate() error {
	if p.ClaimTrigger == "" || p.ServiceTrigger == "" || p.HierarchyTrigger == "" || p.ServiceDetail == "" {
		return fmt.Errorf("profile %q: all trigger identifiers must be set", p.Name)
	}
	return nil
}

// LoadProfile reads a trigger profile from a YAML file. Fields left empty
// in the file fall back to the 837P defaults.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}

	p := Default837P()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
