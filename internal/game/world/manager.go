package world

import (
	"fmt"
	"sort"
	"sync"
)

// Manager provides thread-safe access to the loaded world state plus the
// mutable room contents the combat engine reads and writes: which monster
// names are present in a room, and what items and currency lie on the floor.
type Manager struct {
	mu            sync.RWMutex
	zones         map[string]*Zone
	rooms         map[string]*Room
	startRoom     string
	roomMonsters  map[string][]string // roomID → monster names currently present
	floorItems    map[string][]Item
	floorCurrency map[string]int
}

// NewManager creates a Manager from the given zones.
//
// Precondition: zones must contain at least one zone; the first zone's start
// room is the global start room.
// Postcondition: Returns a Manager with all rooms indexed by ID and the
// initial monster placements copied into the live contents, or an error on
// duplicate room IDs.
func NewManager(zones []*Zone) (*Manager, error) {
	m := &Manager{
		zones:         make(map[string]*Zone, len(zones)),
		rooms:         make(map[string]*Room),
		roomMonsters:  make(map[string][]string),
		floorItems:    make(map[string][]Item),
		floorCurrency: make(map[string]int),
	}

	for _, z := range zones {
		if _, exists := m.zones[z.ID]; exists {
			return nil, fmt.Errorf("duplicate zone ID: %q", z.ID)
		}
		m.zones[z.ID] = z
		for id, room := range z.Rooms {
			if existing, exists := m.rooms[id]; exists {
				return nil, fmt.Errorf("duplicate room ID %q: in zone %q and %q", id, existing.ZoneID, z.ID)
			}
			m.rooms[id] = room
			if len(room.Monsters) > 0 {
				m.roomMonsters[id] = append([]string(nil), room.Monsters...)
			}
		}
	}

	if len(zones) > 0 {
		m.startRoom = zones[0].StartRoom
	}

	return m, nil
}

// ValidateExits checks that every exit target in every room resolves to a
// known room across all loaded zones.
//
// Postcondition: Returns nil if all exits resolve, or an error naming the
// first dangling target.
func (m *Manager) ValidateExits() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, zone := range m.zones {
		for _, room := range zone.Rooms {
			for _, exit := range room.Exits {
				if _, ok := m.rooms[exit.TargetRoom]; !ok {
					return fmt.Errorf("zone %q: room %q: exit %q targets unknown room %q",
						zone.ID, room.ID, exit.Direction, exit.TargetRoom)
				}
			}
		}
	}
	return nil
}

// GetRoom returns the room with the given ID.
//
// Postcondition: Returns (room, true) if found, or (nil, false) otherwise.
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	return room, ok
}

// StartRoom returns the global starting room ID.
func (m *Manager) StartRoom() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startRoom
}

// SetStartRoom overrides the global starting room.
//
// Precondition: id must name a loaded room.
// Postcondition: Returns an error if the room does not exist.
func (m *Manager) SetStartRoom(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[id]; !ok {
		return fmt.Errorf("start room %q does not exist", id)
	}
	m.startRoom = id
	return nil
}

// RoomIDs returns all room IDs in stable sorted order.
//
// Postcondition: Returns a non-nil sorted slice.
func (m *Manager) RoomIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ZoneCount returns the number of loaded zones.
func (m *Manager) ZoneCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.zones)
}

// RoomCount returns the number of loaded rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// MonstersInRoom returns a snapshot of the monster names currently present
// in the room.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) MonstersInRoom(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.roomMonsters[roomID]...)
}

// AddMonster records a monster name as present in the room.
//
// Precondition: roomID must name a loaded room.
// Postcondition: Returns an error if the room does not exist.
func (m *Manager) AddMonster(roomID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomID]; !ok {
		return fmt.Errorf("room %q does not exist", roomID)
	}
	m.roomMonsters[roomID] = append(m.roomMonsters[roomID], name)
	return nil
}

// RemoveMonster removes the first occurrence of the monster name from the
// room contents.
//
// Postcondition: Returns true if an entry was removed.
func (m *Manager) RemoveMonster(roomID, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := m.roomMonsters[roomID]
	for i, n := range names {
		if n == name {
			m.roomMonsters[roomID] = append(names[:i], names[i+1:]...)
			return true
		}
	}
	return false
}

// DropItems places items on the room floor.
//
// Postcondition: FloorItems(roomID) includes every dropped item.
func (m *Manager) DropItems(roomID string, items []Item) {
	if len(items) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.floorItems[roomID] = append(m.floorItems[roomID], items...)
}

// DropCurrency adds currency to the room's floor pile.
//
// Precondition: amount must be >= 0.
func (m *Manager) DropCurrency(roomID string, amount int) {
	if amount <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.floorCurrency[roomID] += amount
}

// FloorItems returns a snapshot of the items on the room floor.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) FloorItems(roomID string) []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Item(nil), m.floorItems[roomID]...)
}

// FloorCurrency returns the currency lying in the room.
func (m *Manager) FloorCurrency(roomID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.floorCurrency[roomID]
}
