package gameserver

import (
	"go.uber.org/zap"

	"github.com/ellyseum/LEmud-sub002/internal/game/combat"
	"github.com/ellyseum/LEmud-sub002/internal/game/player"
)

// Broadcaster delivers combat narration to player connections. Delivery is
// best-effort: a closed connection or full buffer drops the message rather
// than blocking the game loop.
type Broadcaster struct {
	players *player.Manager
	logger  *zap.Logger
}

// NewBroadcaster creates a Broadcaster over the given player manager.
//
// Precondition: players and logger must be non-nil.
func NewBroadcaster(players *player.Manager, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{players: players, logger: logger}
}

// Send delivers a first-person message to one connection.
func (b *Broadcaster) Send(conn *player.Conn, msg string) {
	if conn == nil {
		return
	}
	if err := conn.Push([]byte(msg)); err != nil {
		b.logger.Debug("dropping message",
			zap.String("uid", conn.UID()),
			zap.Error(err))
	}
}

// Broadcast delivers a message to every occupant of a room, optionally
// excluding one player by UID.
func (b *Broadcaster) Broadcast(roomID, msg, excludeUID string) {
	for _, uid := range b.players.UIDsInRoom(roomID) {
		if uid == excludeUID {
			continue
		}
		p, ok := b.players.Get(uid)
		if !ok || p.Conn == nil {
			continue
		}
		if err := p.Conn.Push([]byte(msg)); err != nil {
			b.logger.Debug("dropping broadcast",
				zap.String("uid", uid),
				zap.String("room", roomID),
				zap.Error(err))
		}
	}
}

// Outputs adapts the Broadcaster to the combat engine's output contract.
func (b *Broadcaster) Outputs() combat.Outputs {
	return combat.Outputs{Send: b.Send, Broadcast: b.Broadcast}
}
