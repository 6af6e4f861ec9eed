package gazetteer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// overrideFile is the on-disk shape of GAZETTEER_FILE. Only the tables that
// operators routinely extend are accepted.
type overrideFile struct {
	Places    []Place      `yaml:"places"`
	Districts []District   `yaml:"districts"`
	Sources   []SourceRule `yaml:"source_rules"`
}

// LoadFile reads extra places, districts and source rules from a YAML file.
// Incomplete entries are skipped.
func LoadFile(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("failed to read gazetteer file: %w", err)
	}
	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Tables{}, fmt.Errorf("failed to parse gazetteer file: %w", err)
	}
	return Tables{
		Places:    validPlaces(f.Places),
		Districts: validDistricts(f.Districts),
		Sources:   validSources(f.Sources),
	}, nil
}

// ParseLocationOverrides decodes a JSON array of places, as passed through the
// LOCATION_OVERRIDES environment variable. An empty string yields no places.
func ParseLocationOverrides(raw string) ([]Place, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var places []Place
	// JSON is a subset of YAML, so one decoder serves both the file and env forms.
	if err := yaml.Unmarshal([]byte(raw), &places); err != nil {
		return nil, fmt.Errorf("parse location overrides: %w", err)
	}
	return validPlaces(places), nil
}

// ParseDistrictOverrides decodes a JSON array of alarm districts.
func ParseDistrictOverrides(raw string) ([]District, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var districts []District
	if err := yaml.Unmarshal([]byte(raw), &districts); err != nil {
		return nil, fmt.Errorf("parse district overrides: %w", err)
	}
	return validDistricts(districts), nil
}

// Build assembles the default tables plus the optional YAML file and the JSON
// place and district overrides. Extensions are appended after the defaults.
func Build(file, locations, districts string) (*Gazetteer, error) {
	tables := DefaultTables()
	if file != "" {
		extra, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		tables.Append(extra)
	}
	places, err := ParseLocationOverrides(locations)
	if err != nil {
		return nil, err
	}
	ds, err := ParseDistrictOverrides(districts)
	if err != nil {
		return nil, err
	}
	tables.Append(Tables{Places: places, Districts: ds})
	return New(tables), nil
}

func validPlaces(in []Place) []Place {
	out := make([]Place, 0, len(in))
	for _, p := range in {
		if p.Lat == 0 || p.Lng == 0 || len(p.Keys) == 0 {
			continue
		}
		if p.Name == "" {
			p.Name = p.Keys[0]
		}
		out = append(out, p)
	}
	return out
}

func validDistricts(in []District) []District {
	out := make([]District, 0, len(in))
	for _, d := range in {
		if d.ID == "" || d.RegionID == "" || d.Lat == 0 || d.Lng == 0 || len(d.Keys) == 0 {
			continue
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		out = append(out, d)
	}
	return out
}

func validSources(in []SourceRule) []SourceRule {
	out := make([]SourceRule, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s.Match) == "" || s.Region == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
