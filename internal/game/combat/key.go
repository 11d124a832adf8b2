package combat

import "strings"

// EntityKey identifies a shared monster instance by (room, name). At most
// one live instance exists per key at a time; a dead instance is evicted
// and a fresh one may later be created under the same key.
type EntityKey struct {
	RoomID string
	Name   string
}

// NewEntityKey builds a key with a case-folded name so "Cat" and "cat"
// resolve to the same shared instance.
func NewEntityKey(roomID, name string) EntityKey {
	return EntityKey{RoomID: roomID, Name: strings.ToLower(name)}
}

// String renders the key for log output.
func (k EntityKey) String() string {
	return k.RoomID + "/" + k.Name
}
