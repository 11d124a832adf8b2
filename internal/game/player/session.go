package player

import "github.com/ellyseum/LEmud-sub002/internal/game/world"

// Session tracks a connected player's state. The combat engine reads and
// writes the vitals and combat flags; persistence collaborators flush them
// to storage.
type Session struct {
	// UID is the unique player identifier.
	UID string
	// Name is the character display name shown in-game.
	Name string
	// CharacterID is the database ID of the character for persistence.
	CharacterID int64
	// RoomID is the current room the player occupies.
	RoomID string
	// CurrentHealth may go negative during combat, down to the death floor.
	CurrentHealth int
	// MaxHealth is the character's maximum health.
	MaxHealth int
	// Experience is the character's accumulated experience.
	Experience int
	// Currency is the character's carried coin.
	Currency int
	// Inventory is the character's carried items; spilled into the room
	// on full death.
	Inventory []world.Item
	// InCombat mirrors the persisted combat flag; it survives reconnects
	// and is the basis for session reconstruction.
	InCombat bool
	// Unconscious is set when health is at or below zero but above the
	// death floor. Command restrictions are enforced elsewhere.
	Unconscious bool
	// Conn is the active connection handle; replaced on reconnect.
	Conn *Conn
}

// IsAlive reports whether the player has positive health.
func (s *Session) IsAlive() bool {
	return s.CurrentHealth > 0
}

// TakeInventory empties the session's inventory and currency, returning both
// for dropping into a room.
//
// Postcondition: Inventory is empty and Currency is zero.
func (s *Session) TakeInventory() ([]world.Item, int) {
	items := s.Inventory
	coins := s.Currency
	s.Inventory = nil
	s.Currency = 0
	return items, coins
}
