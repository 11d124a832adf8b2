// Package monster provides monster template definitions and live entity
// instances for the combat engine.
package monster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template defines a reusable monster species loaded from YAML.
type Template struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	MaxHealth   int    `yaml:"max_health"`
	DamageMin   int    `yaml:"damage_min"`
	DamageMax   int    `yaml:"damage_max"`
	// Hostile monsters initiate combat during room sweeps.
	Hostile bool `yaml:"hostile"`
	// Passive monsters never counterattack, even when damaged.
	Passive  bool `yaml:"passive"`
	ExpValue int  `yaml:"exp_value"`
	// AttackTexts are narrative templates; "{name}" and "{target}" are
	// substituted at render time. Empty means built-in defaults apply.
	AttackTexts []string `yaml:"attack_texts"`
	// DeathText is broadcast to the room when the monster dies.
	DeathText string `yaml:"death_text"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHealth >= 1,
// and 1 <= DamageMin <= DamageMax; returns an error on the first violation.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("monster template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("monster template %q: name must not be empty", t.ID)
	}
	if t.MaxHealth < 1 {
		return fmt.Errorf("monster template %q: max_health must be >= 1", t.ID)
	}
	if t.DamageMin < 1 {
		return fmt.Errorf("monster template %q: damage_min must be >= 1", t.ID)
	}
	if t.DamageMax < t.DamageMin {
		return fmt.Errorf("monster template %q: damage_max must be >= damage_min", t.ID)
	}
	if t.ExpValue < 0 {
		return fmt.Errorf("monster template %q: exp_value must be >= 0", t.ID)
	}
	return nil
}

// LoadTemplateFromBytes parses a single monster template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading monster dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
