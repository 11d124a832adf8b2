// Package world provides the game world model: zones, rooms, exits, and the
// room-contents bookkeeping the combat engine relies on.
package world

import "fmt"

// Exit represents a passage from one room to another.
type Exit struct {
	// Direction is the compass direction or named exit (e.g., "stairs").
	Direction string
	// TargetRoom is the ID of the destination room.
	TargetRoom string
}

// Room is a single location in the world.
type Room struct {
	// ID uniquely identifies the room across all zones.
	ID string
	// ZoneID is the owning zone.
	ZoneID string
	// Title is the short room headline.
	Title string
	// Description is the long room text.
	Description string
	// Exits are the passages out of this room.
	Exits []Exit
	// Monsters lists the monster template names initially present in the
	// room. The Manager tracks the live contents at runtime.
	Monsters []string
}

// Zone is a named collection of rooms with a designated starting room.
type Zone struct {
	ID          string
	Name        string
	Description string
	// StartRoom is where new and respawning players are placed.
	StartRoom string
	Rooms     map[string]*Room
}

// Validate checks the zone's structural invariants.
//
// Precondition: z must not be nil.
// Postcondition: Returns nil iff ID is non-empty, at least one room exists,
// and StartRoom names a room in this zone.
func (z *Zone) Validate() error {
	if z.ID == "" {
		return fmt.Errorf("zone: id must not be empty")
	}
	if len(z.Rooms) == 0 {
		return fmt.Errorf("zone %q: must contain at least one room", z.ID)
	}
	if z.StartRoom == "" {
		return fmt.Errorf("zone %q: start_room must not be empty", z.ID)
	}
	if _, ok := z.Rooms[z.StartRoom]; !ok {
		return fmt.Errorf("zone %q: start_room %q is not a room in this zone", z.ID, z.StartRoom)
	}
	for id, room := range z.Rooms {
		if room.ID != id {
			return fmt.Errorf("zone %q: room key %q does not match room ID %q", z.ID, id, room.ID)
		}
		if room.Title == "" {
			return fmt.Errorf("zone %q: room %q: title must not be empty", z.ID, id)
		}
	}
	return nil
}

// Item is a droppable object; dead players spill their inventory into the
// room as Items.
type Item struct {
	// InstanceID uniquely identifies this item instance.
	InstanceID string
	// Name is the item's display name.
	Name string
}
