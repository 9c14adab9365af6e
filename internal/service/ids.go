package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LegislatorIDs translates BioGuide legislator ids into the numeric id
// scheme some legacy consumers require. The table is published data
// loaded from a YAML mapping of bioguide id to numeric id.
type LegislatorIDs struct {
	byBioguide map[string]int
}

// LoadLegislatorIDs reads a bioguide→numeric id mapping from a YAML file.
func LoadLegislatorIDs(path string) (*LegislatorIDs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read legislator id map: %w", err)
	}

	byBioguide := make(map[string]int)
	if err := yaml.Unmarshal(data, &byBioguide); err != nil {
		return nil, fmt.Errorf("failed to parse legislator id map %s: %w", path, err)
	}

	return &LegislatorIDs{byBioguide: byBioguide}, nil
}

// NewLegislatorIDs builds a table from an in-memory mapping.
func NewLegislatorIDs(byBioguide map[string]int) *LegislatorIDs {
	return &LegislatorIDs{byBioguide: byBioguide}
}

// GovTrackID looks up the numeric id for a bioguide id.
func (l *LegislatorIDs) GovTrackID(bioguide string) (int, bool) {
	if l == nil {
		return 0, false
	}
	id, ok := l.byBioguide[bioguide]
	return id, ok
}
