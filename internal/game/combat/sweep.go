package combat

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ellyseum/LEmud-sub002/internal/game/dice"
	"github.com/ellyseum/LEmud-sub002/internal/game/monster"
	"github.com/ellyseum/LEmud-sub002/internal/game/player"
)

// sweepRooms is the second resolution path of every round: it lets idle
// hostile monsters initiate combat without waiting to be attacked. For every
// room with monsters and occupants, each hostile instance first notices
// occupants it has never seen (zero-damage aggression entries), then — if it
// has not already attacked this round — picks a target and strikes.
func (o *Orchestrator) sweepRooms() {
	for _, roomID := range o.world.RoomIDs() {
		occupants := o.players.UIDsInRoom(roomID)
		if len(occupants) == 0 {
			continue
		}
		sort.Strings(occupants)
		o.sweepRoom(roomID, occupants)
	}
}

func (o *Orchestrator) sweepRoom(roomID string, occupants []string) {
	eligible := make([]string, 0, len(occupants))
	for _, uid := range occupants {
		p, ok := o.players.Get(uid)
		if ok && p.IsAlive() && p.Conn != nil && !p.Conn.IsClosed() {
			eligible = append(eligible, uid)
		}
	}

	seen := make(map[EntityKey]bool)
	for _, name := range o.world.MonstersInRoom(roomID) {
		key := NewEntityKey(roomID, name)
		if seen[key] {
			continue
		}
		seen[key] = true

		inst, ok := o.entities[key]
		if !ok {
			tmpl, found := o.templates.Get(name)
			if !found || !tmpl.Hostile {
				continue
			}
			inst = monster.NewInstance(tmpl, roomID, o.src)
			o.entities[key] = inst
		}
		if !inst.IsAlive() || !inst.Hostile() || inst.Passive() {
			continue
		}

		// Notice players who arrived after the instance spawned.
		for _, uid := range occupants {
			if !inst.HasAggro(uid) {
				inst.AddAggro(uid, 0)
			}
		}

		if o.attacked[key] == o.round {
			continue
		}

		victimUID, ok := o.pickSweepTarget(inst, eligible)
		if !ok {
			continue
		}
		o.attacked[key] = o.round

		victim, ok := o.players.Get(victimUID)
		if !ok {
			continue
		}
		o.resolveMonsterAttack(inst, victim)

		if victim.IsAlive() {
			if _, has := o.sessions[victimUID]; !has {
				o.engageDefender(victim, inst, key)
			}
		}
	}
}

// pickSweepTarget prefers a present aggressor chosen at random; with no
// aggressor present, the configured policy either picks a random occupant
// (registering them as a fresh aggressor) or leaves the monster idle.
func (o *Orchestrator) pickSweepTarget(inst Participant, eligible []string) (string, bool) {
	if len(eligible) == 0 {
		return "", false
	}

	present := make([]string, 0, len(eligible))
	for _, uid := range eligible {
		if inst.HasAggro(uid) {
			present = append(present, uid)
		}
	}
	if len(present) > 0 {
		return present[dice.Pick(o.src, len(present))], true
	}

	if !strings.EqualFold(o.tuning.SweepTargetPolicy, SweepRandomOccupant) {
		return "", false
	}
	uid := eligible[dice.Pick(o.src, len(eligible))]
	inst.AddAggro(uid, 0)
	return uid, true
}

// engageDefender opens a combat session on behalf of a player a hostile
// monster just attacked.
func (o *Orchestrator) engageDefender(p *player.Session, inst Participant, key EntityKey) {
	s := newSession(p.UID, p.Conn, o.now())
	s.addParticipant(inst)
	o.sessions[p.UID] = s
	o.addTargeter(key, p.UID)
	p.InCombat = true
	o.persist(p)
	o.out.Send(p.Conn, fmt.Sprintf("The %s attacks you! You are now in combat!", inst.Name()))
	o.logger.Debug("sweep engaged defender",
		zap.String("uid", p.UID),
		zap.String("entity", key.String()))
}
