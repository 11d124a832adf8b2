package world

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlZoneFile is the top-level YAML structure for zone files.
type yamlZoneFile struct {
	Zone yamlZone `yaml:"zone"`
}

// yamlZone is the YAML representation of a zone.
type yamlZone struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	StartRoom   string     `yaml:"start_room"`
	Rooms       []yamlRoom `yaml:"rooms"`
}

// yamlRoom is the YAML representation of a room.
type yamlRoom struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Exits       []yamlExit `yaml:"exits"`
	Monsters    []string   `yaml:"monsters"`
}

// yamlExit is the YAML representation of an exit.
type yamlExit struct {
	Direction string `yaml:"direction"`
	Target    string `yaml:"target"`
}

// LoadZoneFromBytes parses and validates a zone from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the zone schema.
// Postcondition: Returns a validated Zone or a non-nil error.
func LoadZoneFromBytes(data []byte) (*Zone, error) {
	var file yamlZoneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing zone YAML: %w", err)
	}

	zone := &Zone{
		ID:          file.Zone.ID,
		Name:        file.Zone.Name,
		Description: file.Zone.Description,
		StartRoom:   file.Zone.StartRoom,
		Rooms:       make(map[string]*Room, len(file.Zone.Rooms)),
	}

	for _, yr := range file.Zone.Rooms {
		if _, exists := zone.Rooms[yr.ID]; exists {
			return nil, fmt.Errorf("zone %q: duplicate room ID %q", zone.ID, yr.ID)
		}
		room := &Room{
			ID:          yr.ID,
			ZoneID:      zone.ID,
			Title:       yr.Title,
			Description: yr.Description,
			Monsters:    yr.Monsters,
		}
		for _, ye := range yr.Exits {
			room.Exits = append(room.Exits, Exit{
				Direction:  ye.Direction,
				TargetRoom: ye.Target,
			})
		}
		zone.Rooms[yr.ID] = room
	}

	if err := zone.Validate(); err != nil {
		return nil, err
	}
	return zone, nil
}

// LoadZoneFromFile reads and validates a single zone YAML file.
//
// Precondition: path must point to a valid YAML zone file.
// Postcondition: Returns a validated Zone or a non-nil error.
func LoadZoneFromFile(path string) (*Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading zone file %s: %w", path, err)
	}
	return LoadZoneFromBytes(data)
}

// LoadZonesFromDir reads all *.yaml files in dir as zone files.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all zones or an error on the first failure.
func LoadZonesFromDir(dir string) ([]*Zone, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading zones dir %q: %w", dir, err)
	}

	var zones []*Zone
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		zone, err := LoadZoneFromFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	return zones, nil
}
