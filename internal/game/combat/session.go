package combat

import (
	"time"

	"github.com/ellyseum/LEmud-sub002/internal/game/player"
)

// Session is one player's private view of an ongoing fight. Sessions are
// created, resolved, and destroyed exclusively by the Orchestrator on its
// tick; nothing else mutates them.
type Session struct {
	// PlayerID is the stable identity key; the connection handle below is
	// the replaceable part.
	PlayerID string

	conn           *player.Conn
	participants   []Participant
	rounds         uint64
	breakRequested bool
	lastActive     time.Time
}

func newSession(playerID string, conn *player.Conn, now time.Time) *Session {
	return &Session{
		PlayerID:   playerID,
		conn:       conn,
		lastActive: now,
	}
}

// Participants returns a snapshot of the engaged participant list.
func (s *Session) Participants() []Participant {
	out := make([]Participant, len(s.participants))
	copy(out, s.participants)
	return out
}

// Rounds returns the session's personal round count.
func (s *Session) Rounds() uint64 {
	return s.rounds
}

func (s *Session) hasParticipant(p Participant) bool {
	for _, cur := range s.participants {
		if cur == p {
			return true
		}
	}
	return false
}

func (s *Session) addParticipant(p Participant) {
	if s.hasParticipant(p) {
		return
	}
	s.participants = append(s.participants, p)
}

func (s *Session) dropParticipant(p Participant) {
	for i, cur := range s.participants {
		if cur == p {
			s.participants = append(s.participants[:i], s.participants[i+1:]...)
			return
		}
	}
}

func (s *Session) pruneDead() {
	alive := s.participants[:0]
	for _, p := range s.participants {
		if p.IsAlive() {
			alive = append(alive, p)
		}
	}
	s.participants = alive
}

func (s *Session) hasLiveHostiles() bool {
	for _, p := range s.participants {
		if p.IsAlive() && p.Hostile() {
			return true
		}
	}
	return false
}

// ResolveRound resolves one combat round for this session and reports
// whether the session is done.
//
// Precondition: called only by the Orchestrator's tick, after the session's
// connection reference has been refreshed.
// Postcondition: dead participants are pruned from the list.
func (s *Session) ResolveRound(o *Orchestrator) bool {
	p, ok := o.players.Get(s.PlayerID)
	if !ok || s.conn == nil || s.conn.IsClosed() {
		s.participants = nil
		return true
	}

	for _, part := range s.Participants() {
		if !part.IsAlive() {
			// Already killed by another session sharing the entity.
			s.dropParticipant(part)
			continue
		}

		o.resolvePlayerAttack(p, part)

		if !part.IsAlive() {
			o.resolveKill(p, part)
			continue
		}
		if !part.Passive() {
			o.counterattack(part, p.RoomID)
		}
		// A counterattack may have downed this player and torn the
		// session down mid-pass.
		if _, live := o.sessions[s.PlayerID]; !live {
			return true
		}
	}

	s.pruneDead()
	return s.done(p)
}

// done reports the session-ended predicate: disengage requested, player
// downed, or no live participants remain.
func (s *Session) done(p *player.Session) bool {
	if s.breakRequested {
		return true
	}
	if !p.IsAlive() {
		return true
	}
	return len(s.participants) == 0
}
