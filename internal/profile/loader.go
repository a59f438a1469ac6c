package profile

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var defaultProfiles []byte

type document struct {
	Profiles []*CompanyProfile `yaml:"profiles"`
}

// Default returns the embedded aura/beta/crisis profile table
func Default() (*Table, error) {
	return Parse(defaultProfiles)
}

// Load reads a profile table from path; an empty path selects the embedded table
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a profile document
// KnownFields(true): 오타/미사용 필드는 즉시 실패
func Parse(data []byte) (*Table, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	if len(doc.Profiles) == 0 {
		return nil, ValidationError{"profiles", "at least one profile is required"}
	}

	seen := make(map[string]bool, len(doc.Profiles))
	for i, p := range doc.Profiles {
		if p == nil {
			return nil, ValidationError{fmt.Sprintf("profiles[%d]", i), "empty entry"}
		}
		if seen[p.ID] {
			return nil, ValidationError{fmt.Sprintf("profiles[%d].id", i), fmt.Sprintf("duplicate id '%s'", p.ID)}
		}
		seen[p.ID] = true

		if err := Validate(p); err != nil {
			return nil, err
		}
	}

	return NewTable(doc.Profiles), nil
}
