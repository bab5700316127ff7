package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"progress-tracker-go/internal/models"
)

// LimitName selects one of the configured list sizes.
type LimitName string

const (
	LimitRecent    LimitName = "recent"
	LimitDashboard LimitName = "dashboard"
)

type RecentSlot struct {
	Category models.Category `yaml:"category"`
	Limit    LimitName       `yaml:"limit"`
}

// Profile says which categories a user's dashboard summarizes and which
// recent-entry lists it shows, in order.
type Profile struct {
	Stats  []models.Category `yaml:"stats"`
	Recent []RecentSlot      `yaml:"recent"`
}

type TrackingProfiles struct {
	Default Profile            `yaml:"default"`
	Users   map[string]Profile `yaml:"users"`
}

func DefaultProfile() Profile {
	return Profile{
		Stats: []models.Category{models.CategoryReading, models.CategoryDrawing, models.CategoryFitness},
		Recent: []RecentSlot{
			{Category: models.CategoryReading, Limit: LimitRecent},
			{Category: models.CategoryDrawing, Limit: LimitRecent},
			{Category: models.CategoryFitness, Limit: LimitRecent},
		},
	}
}

// For returns the profile registered for a user name, else the default.
func (p TrackingProfiles) For(userName string) Profile {
	if profile, ok := p.Users[userName]; ok {
		return profile
	}
	return p.Default
}

// LoadProfiles reads a profile file. An empty path yields the built-in
// default for everyone.
func LoadProfiles(path string) (TrackingProfiles, error) {
	if path == "" {
		return TrackingProfiles{Default: DefaultProfile()}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return TrackingProfiles{}, fmt.Errorf("read tracking profiles: %w", err)
	}
	return ParseProfiles(raw)
}

func ParseProfiles(raw []byte) (TrackingProfiles, error) {
	var profiles TrackingProfiles
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&profiles); err != nil && !errors.Is(err, io.EOF) {
		return TrackingProfiles{}, fmt.Errorf("parse tracking profiles: %w", err)
	}
	if len(profiles.Default.Stats) == 0 && len(profiles.Default.Recent) == 0 {
		profiles.Default = DefaultProfile()
	}
	if err := profiles.Default.normalize("default"); err != nil {
		return TrackingProfiles{}, err
	}
	for name, profile := range profiles.Users {
		if err := profile.normalize("users." + name); err != nil {
			return TrackingProfiles{}, err
		}
		profiles.Users[name] = profile
	}
	return profiles, nil
}

func (p *Profile) normalize(where string) error {
	for _, category := range p.Stats {
		if _, ok := statsCategories[category]; !ok {
			return fmt.Errorf("%s: stats category %q must be one of reading, drawing, fitness", where, category)
		}
	}
	for i, slot := range p.Recent {
		if !models.IsMember(string(slot.Category), models.Categories) {
			return fmt.Errorf("%s: recent category %q is unknown", where, slot.Category)
		}
		switch slot.Limit {
		case "":
			p.Recent[i].Limit = LimitRecent
		case LimitRecent, LimitDashboard:
		default:
			return fmt.Errorf("%s: recent limit %q must be recent or dashboard", where, slot.Limit)
		}
	}
	return nil
}

var statsCategories = map[models.Category]struct{}{
	models.CategoryReading: {},
	models.CategoryDrawing: {},
	models.CategoryFitness: {},
}
