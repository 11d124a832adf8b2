// Package character defines the persisted player character model.
package character

import (
	"fmt"
	"time"
)

// Character is the durable form of a player character. Runtime combat state
// lives on the player session; these fields are what survives restarts and
// what the combat engine's persistence hook flushes.
type Character struct {
	ID   int64
	Name string
	// Location is the room ID the character occupies, updated on moves and
	// respawn teleports.
	Location      string
	MaxHealth     int
	CurrentHealth int
	Experience    int
	Currency      int
	// InCombat survives reconnects; a live session is reconstructed from it
	// when a player returns mid-fight.
	InCombat    bool
	Unconscious bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New creates an unpersisted character at the given location with full
// health.
//
// Precondition: name and location must be non-empty; maxHealth >= 1.
func New(name, location string, maxHealth int) *Character {
	return &Character{
		Name:          name,
		Location:      location,
		MaxHealth:     maxHealth,
		CurrentHealth: maxHealth,
	}
}

// Validate checks the character's structural invariants.
//
// Postcondition: Returns nil iff the character is storable.
func (c *Character) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("character: name must not be empty")
	}
	if c.Location == "" {
		return fmt.Errorf("character: location must not be empty")
	}
	if c.MaxHealth < 1 {
		return fmt.Errorf("character: max health must be >= 1, got %d", c.MaxHealth)
	}
	if c.Experience < 0 {
		return fmt.Errorf("character: experience must not be negative, got %d", c.Experience)
	}
	if c.Currency < 0 {
		return fmt.Errorf("character: currency must not be negative, got %d", c.Currency)
	}
	return nil
}
