package player

import (
	"fmt"
	"sync"
)

// Manager tracks all connected players and room occupancy.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	players  map[string]*Session        // uid → session
	roomSets map[string]map[string]bool // roomID → set of UIDs
}

// NewManager creates an empty player Manager.
func NewManager() *Manager {
	return &Manager{
		players:  make(map[string]*Session),
		roomSets: make(map[string]map[string]bool),
	}
}

// AddPlayer registers a new player session in the given room.
//
// Precondition: uid, name, and roomID must be non-empty; maxHealth must be >= 1.
// Postcondition: Returns the created Session with an open Conn, or an error
// if the UID is already registered.
func (m *Manager) AddPlayer(uid, name string, characterID int64, roomID string, currentHealth, maxHealth int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.players[uid]; exists {
		return nil, fmt.Errorf("player %q already connected", uid)
	}

	sess := &Session{
		UID:           uid,
		Name:          name,
		CharacterID:   characterID,
		RoomID:        roomID,
		CurrentHealth: currentHealth,
		MaxHealth:     maxHealth,
		Conn:          NewConn(uid, 64),
	}

	m.players[uid] = sess
	if m.roomSets[roomID] == nil {
		m.roomSets[roomID] = make(map[string]bool)
	}
	m.roomSets[roomID][uid] = true

	return sess, nil
}

// RemovePlayer removes a player session and cleans up room occupancy.
//
// Precondition: uid must be non-empty.
// Postcondition: The player is removed from all tracking and their Conn is
// closed. Returns an error if not found.
func (m *Manager) RemovePlayer(uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.players[uid]
	if !exists {
		return fmt.Errorf("player %q not found", uid)
	}

	if rs, ok := m.roomSets[sess.RoomID]; ok {
		delete(rs, uid)
		if len(rs) == 0 {
			delete(m.roomSets, sess.RoomID)
		}
	}

	_ = sess.Conn.Close()

	delete(m.players, uid)
	return nil
}

// ReplaceConn swaps in a fresh connection handle for a reconnecting player,
// closing the old one.
//
// Precondition: uid must identify a registered player.
// Postcondition: Returns the new Conn; the session's previous Conn is closed.
func (m *Manager) ReplaceConn(uid string) (*Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.players[uid]
	if !exists {
		return nil, fmt.Errorf("player %q not found", uid)
	}

	old := sess.Conn
	sess.Conn = NewConn(uid, 64)
	if old != nil {
		_ = old.Close()
	}
	return sess.Conn, nil
}

// MovePlayer moves a player from their current room to a new room.
//
// Precondition: uid and newRoomID must be non-empty.
// Postcondition: Returns the old room ID, or an error if the player is not found.
func (m *Manager) MovePlayer(uid, newRoomID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.players[uid]
	if !exists {
		return "", fmt.Errorf("player %q not found", uid)
	}

	oldRoomID := sess.RoomID

	if rs, ok := m.roomSets[oldRoomID]; ok {
		delete(rs, uid)
		if len(rs) == 0 {
			delete(m.roomSets, oldRoomID)
		}
	}

	sess.RoomID = newRoomID
	if m.roomSets[newRoomID] == nil {
		m.roomSets[newRoomID] = make(map[string]bool)
	}
	m.roomSets[newRoomID][uid] = true

	return oldRoomID, nil
}

// UIDsInRoom returns the UIDs of all players in the given room.
//
// Postcondition: Returns a slice of UIDs (may be empty).
func (m *Manager) UIDsInRoom(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uids, ok := m.roomSets[roomID]
	if !ok {
		return nil
	}

	result := make([]string, 0, len(uids))
	for uid := range uids {
		result = append(result, uid)
	}
	return result
}

// NamesInRoom returns the display names of all players in the given room.
//
// Postcondition: Returns a slice of names (may be empty).
func (m *Manager) NamesInRoom(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uids, ok := m.roomSets[roomID]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(uids))
	for uid := range uids {
		if sess, ok := m.players[uid]; ok {
			names = append(names, sess.Name)
		}
	}
	return names
}

// Get returns the session for the given UID.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(uid string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.players[uid]
	return sess, ok
}

// GetByName returns the session for the player with the given display name.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) GetByName(name string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sess := range m.players {
		if sess.Name == name {
			return sess, true
		}
	}
	return nil, false
}

// Count returns the total number of connected players.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}
