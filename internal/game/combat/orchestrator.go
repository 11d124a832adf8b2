package combat

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ellyseum/LEmud-sub002/internal/game/dice"
	"github.com/ellyseum/LEmud-sub002/internal/game/monster"
	"github.com/ellyseum/LEmud-sub002/internal/game/player"
	"github.com/ellyseum/LEmud-sub002/internal/game/world"
)

// ErrUnknownPlayer is returned when an operation names a player with no
// live connection.
var ErrUnknownPlayer = errors.New("combat: unknown player")

// Sweep target policies for hostile monsters with no aggressor present.
const (
	// SweepRandomOccupant attacks a uniformly random room occupant,
	// registering them as a fresh aggressor.
	SweepRandomOccupant = "random_occupant"
	// SweepNone leaves the monster idle until someone aggresses it.
	SweepNone = "none"
)

// Tuning holds the combat balance knobs. The zero value is not usable; start
// from DefaultTuning or map it from loaded configuration.
type Tuning struct {
	// ReconnectGrace is how long an unreachable connection is tolerated
	// before the session is torn down.
	ReconnectGrace time.Duration
	// PlayerHitChance is the probability a player attack lands.
	PlayerHitChance float64
	// PlayerDamageMin and PlayerDamageMax bound the player damage roll.
	PlayerDamageMin int
	PlayerDamageMax int
	// MonsterHitChance is the probability a monster attack lands.
	MonsterHitChance float64
	// DeathFloor is the negative health at which a player fully dies.
	// Health between zero and the floor is unconsciousness.
	DeathFloor int
	// RespawnHealthFraction of max health is restored on respawn.
	RespawnHealthFraction float64
	// SweepTargetPolicy selects behavior for hostiles with no present
	// aggressor: SweepRandomOccupant or SweepNone.
	SweepTargetPolicy string
}

// DefaultTuning returns the stock combat balance.
func DefaultTuning() Tuning {
	return Tuning{
		ReconnectGrace:        10 * time.Second,
		PlayerHitChance:       0.5,
		PlayerDamageMin:       1,
		PlayerDamageMax:       3,
		MonsterHitChance:      0.5,
		DeathFloor:            -10,
		RespawnHealthFraction: 0.5,
		SweepTargetPolicy:     SweepRandomOccupant,
	}
}

// Outputs delivers combat narration. Both calls are fire-and-forget; the
// engine never blocks on delivery.
type Outputs struct {
	// Send delivers a first-person message to one connection.
	Send func(conn *player.Conn, msg string)
	// Broadcast delivers a message to all occupants of a room, optionally
	// excluding one player by UID.
	Broadcast func(roomID, msg, excludeUID string)
}

// PersistFunc flushes a player's vitals and combat flags to storage. Called
// fire-and-forget from the engine's perspective.
type PersistFunc func(p *player.Session)

// TemplateSource resolves monster templates by name.
type TemplateSource interface {
	Get(name string) (*monster.Template, bool)
}

// Orchestrator is the process-wide combat coordinator. It owns all combat
// sessions, the shared monster entity registry, the targeting registry, and
// the attacked-this-round markers.
//
// The orchestrator is single-writer by design: ProcessCombatRound runs on
// one goroutine, and Engage, Break, HandleDisconnect, and TransferSession
// must be serialized onto that same goroutine by the embedding server. It
// takes no locks of its own.
type Orchestrator struct {
	tuning    Tuning
	logger    *zap.Logger
	src       dice.Source
	world     *world.Manager
	players   *player.Manager
	templates TemplateSource
	out       Outputs
	persist   PersistFunc

	sessions  map[string]*Session           // player UID → session
	entities  map[EntityKey]Participant     // shared live monster instances
	targeting map[EntityKey]map[string]bool // entity key → targeting UIDs
	attacked  map[EntityKey]uint64          // entity key → last round attacked
	round     uint64
	now       func() time.Time
}

// NewOrchestrator creates the combat coordinator.
//
// Precondition: worldMgr, players, templates, src, and logger must be
// non-nil. Nil Outputs callbacks and a nil persist func default to no-ops.
func NewOrchestrator(tuning Tuning, worldMgr *world.Manager, players *player.Manager, templates TemplateSource, src dice.Source, out Outputs, persist PersistFunc, logger *zap.Logger) *Orchestrator {
	if out.Send == nil {
		out.Send = func(*player.Conn, string) {}
	}
	if out.Broadcast == nil {
		out.Broadcast = func(string, string, string) {}
	}
	if persist == nil {
		persist = func(*player.Session) {}
	}
	return &Orchestrator{
		tuning:    tuning,
		logger:    logger,
		src:       src,
		world:     worldMgr,
		players:   players,
		templates: templates,
		out:       out,
		persist:   persist,
		sessions:  make(map[string]*Session),
		entities:  make(map[EntityKey]Participant),
		targeting: make(map[EntityKey]map[string]bool),
		attacked:  make(map[EntityKey]uint64),
		now:       time.Now,
	}
}

// Round returns the global round counter.
func (o *Orchestrator) Round() uint64 {
	return o.round
}

// ActiveSessions returns the number of live combat sessions.
func (o *Orchestrator) ActiveSessions() int {
	return len(o.sessions)
}

// InCombat reports whether the player has a live session or a persisted
// combat flag awaiting reconstruction.
func (o *Orchestrator) InCombat(uid string) bool {
	if _, ok := o.sessions[uid]; ok {
		return true
	}
	p, ok := o.players.Get(uid)
	return ok && p.InCombat
}

// ProcessCombatRound resolves one global combat round: every session in
// stable UID order, then the hostile room sweep. Invoked by the external
// tick scheduler.
func (o *Orchestrator) ProcessCombatRound() {
	o.round++

	uids := make([]string, 0, len(o.sessions))
	for uid := range o.sessions {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	for _, uid := range uids {
		s, ok := o.sessions[uid]
		if !ok {
			// Removed by an earlier session's kill resolution.
			continue
		}
		p, ok := o.players.Get(uid)
		if !ok {
			o.teardownSession(uid)
			continue
		}
		if p.Conn == nil || p.Conn.IsClosed() {
			if o.now().Sub(s.lastActive) > o.tuning.ReconnectGrace {
				o.logger.Info("reconnect grace expired",
					zap.String("uid", uid),
					zap.Duration("grace", o.tuning.ReconnectGrace))
				o.teardownSession(uid)
				o.out.Broadcast(p.RoomID, fmt.Sprintf("%s is no longer in combat.", p.Name), uid)
			}
			continue
		}
		if s.conn != p.Conn {
			// Reconnect hand-off landed between ticks.
			s.conn = p.Conn
		}
		s.lastActive = o.now()
		s.rounds++

		if s.ResolveRound(o) {
			o.endSession(s)
		}
	}

	o.sweepRooms()

	o.logger.Debug("combat round resolved",
		zap.Uint64("round", o.round),
		zap.Int("sessions", len(o.sessions)),
		zap.Int("entities", len(o.entities)))
}

// Engage starts or retargets combat for the player against the named
// monster in their room. Returns false with a narrative message when the
// target cannot be resolved, and ErrUnknownPlayer when the player has no
// live connection.
func (o *Orchestrator) Engage(uid, targetName string) (bool, error) {
	p, ok := o.players.Get(uid)
	if !ok || p.Conn == nil || p.Conn.IsClosed() {
		return false, ErrUnknownPlayer
	}
	if !p.IsAlive() {
		o.out.Send(p.Conn, "You are in no condition to fight!")
		return false, nil
	}

	inst := o.resolveEntity(p.RoomID, targetName)
	if inst == nil {
		o.out.Send(p.Conn, fmt.Sprintf("You don't see a %s here.", targetName))
		return false, nil
	}
	name := inst.Name()
	key := NewEntityKey(p.RoomID, name)

	s, exists := o.sessions[uid]
	switch {
	case !exists:
		s = newSession(uid, p.Conn, o.now())
		o.sessions[uid] = s
		p.InCombat = true
		o.persist(p)
		o.out.Send(p.Conn, fmt.Sprintf("You move to attack the %s!", name))
		o.out.Broadcast(p.RoomID, fmt.Sprintf("%s moves to attack the %s!", p.Name, name), uid)
	case s.hasParticipant(inst):
		o.out.Send(p.Conn, fmt.Sprintf("You are already fighting the %s!", name))
		return true, nil
	case len(s.participants) > 0:
		// Single active target per player: clear the prior engagement.
		for _, prev := range s.Participants() {
			o.removeTargeter(NewEntityKey(p.RoomID, prev.Name()), uid)
		}
		s.participants = nil
		o.out.Send(p.Conn, fmt.Sprintf("You turn to attack the %s!", name))
		o.out.Broadcast(p.RoomID, fmt.Sprintf("%s turns to attack the %s!", p.Name, name), uid)
	default:
		o.out.Send(p.Conn, fmt.Sprintf("You move to attack the %s!", name))
		o.out.Broadcast(p.RoomID, fmt.Sprintf("%s moves to attack the %s!", p.Name, name), uid)
	}

	o.addTargeter(key, uid)
	s.addParticipant(inst)
	o.logger.Debug("player engaged",
		zap.String("uid", uid),
		zap.String("entity", key.String()))
	return true, nil
}

// Break requests disengage for the player. Breaking is a request, not a
// guarantee: it is honored at the next round resolution only if no hostile
// participant remains.
func (o *Orchestrator) Break(uid string) bool {
	s, ok := o.sessions[uid]
	if !ok {
		if p, ok := o.players.Get(uid); ok {
			o.out.Send(p.Conn, "You are not in combat.")
		}
		return false
	}
	s.breakRequested = true
	if p, ok := o.players.Get(uid); ok {
		o.out.Send(p.Conn, "You attempt to break off combat!")
	}
	return true
}

// HandleDisconnect removes the player's session on a deliberate disconnect,
// strips them from every targeting entry, and clears the attacked-this-round
// marker for entities that still have other targeters so those entities do
// not sit idle waiting for a round already spent on the departed player.
func (o *Orchestrator) HandleDisconnect(uid string) {
	if _, ok := o.sessions[uid]; !ok {
		return
	}
	delete(o.sessions, uid)
	o.stripTargeting(uid, true)
	if p, ok := o.players.Get(uid); ok {
		p.InCombat = false
		o.persist(p)
		o.out.Broadcast(p.RoomID, fmt.Sprintf("%s is no longer in combat (disconnected).", p.Name), uid)
	}
	o.logger.Debug("combat session removed on disconnect", zap.String("uid", uid))
}

// TransferSession hands an existing combat session over to the player's
// current connection after a reconnect or device switch. The session and the
// player's combat flag survive the swap; transferred participants are marked
// attacked for the upcoming round so the swap does not hand the monster a
// free counterattack. If no session exists but the persisted flag says the
// player was in combat, a session is reconstructed against the first hostile
// occupant of their room.
func (o *Orchestrator) TransferSession(uid string) {
	p, ok := o.players.Get(uid)
	if !ok {
		return
	}

	s, ok := o.sessions[uid]
	if !ok {
		if p.InCombat {
			o.reconstructSession(p)
		}
		return
	}

	// Re-snapshot around the swap so a participant list lost to a stale
	// alias shows up as a repairable diff rather than silent data loss.
	before := s.Participants()
	s.conn = p.Conn
	s.lastActive = o.now()
	if len(s.participants) != len(before) {
		s.participants = before
	}
	for _, part := range s.Participants() {
		o.attacked[NewEntityKey(p.RoomID, part.Name())] = o.round + 1
	}
	o.logger.Info("combat session transferred",
		zap.String("uid", uid),
		zap.Int("participants", len(s.participants)))
}

func (o *Orchestrator) reconstructSession(p *player.Session) {
	for _, name := range o.world.MonstersInRoom(p.RoomID) {
		key := NewEntityKey(p.RoomID, name)
		inst, ok := o.entities[key]
		if !ok {
			tmpl, found := o.templates.Get(name)
			if !found || !tmpl.Hostile {
				continue
			}
			inst = monster.NewInstance(tmpl, p.RoomID, o.src)
			o.entities[key] = inst
		}
		if !inst.IsAlive() || !inst.Hostile() {
			continue
		}

		s := newSession(p.UID, p.Conn, o.now())
		s.addParticipant(inst)
		o.sessions[p.UID] = s
		o.addTargeter(key, p.UID)
		o.attacked[key] = o.round + 1
		o.out.Send(p.Conn, fmt.Sprintf("You are still fighting the %s!", inst.Name()))
		o.logger.Info("combat session reconstructed",
			zap.String("uid", p.UID),
			zap.String("entity", key.String()))
		return
	}

	// Nothing hostile left to resume against.
	p.InCombat = false
	o.persist(p)
}

// resolveEntity finds or lazily creates the shared monster instance for a
// name prefix in the room.
func (o *Orchestrator) resolveEntity(roomID, target string) Participant {
	want := strings.ToLower(strings.TrimSpace(target))
	if want == "" {
		return nil
	}
	for _, name := range o.world.MonstersInRoom(roomID) {
		if !strings.HasPrefix(strings.ToLower(name), want) {
			continue
		}
		key := NewEntityKey(roomID, name)
		if inst, ok := o.entities[key]; ok && inst.IsAlive() {
			return inst
		}
		tmpl, ok := o.templates.Get(name)
		if !ok {
			continue
		}
		inst := monster.NewInstance(tmpl, roomID, o.src)
		o.entities[key] = inst
		return inst
	}
	return nil
}

// resolvePlayerAttack rolls one player attack against a participant.
func (o *Orchestrator) resolvePlayerAttack(p *player.Session, part Participant) {
	name := part.Name()
	if !dice.Chance(o.src, o.tuning.PlayerHitChance) {
		o.out.Send(p.Conn, fmt.Sprintf("You swing at the %s and miss!", name))
		o.out.Broadcast(p.RoomID, fmt.Sprintf("%s swings at the %s and misses!", p.Name, name), p.UID)
		return
	}
	dmg := dice.Between(o.src, o.tuning.PlayerDamageMin, o.tuning.PlayerDamageMax)
	applied := part.TakeDamage(dmg)
	part.AddAggro(p.UID, applied)
	o.out.Send(p.Conn, fmt.Sprintf("You hit the %s for %d damage!", name, applied))
	o.out.Broadcast(p.RoomID, fmt.Sprintf("%s hits the %s!", p.Name, name), p.UID)
}

// counterattack lets a surviving participant strike back, subject to the
// one-attack-per-entity-per-round marker. The victim is drawn uniformly from
// every player currently targeting the entity, not just the acting session's
// player; that is why counterattacks resolve here rather than inside the
// session.
func (o *Orchestrator) counterattack(part Participant, roomID string) {
	key := NewEntityKey(roomID, part.Name())
	if o.attacked[key] == o.round {
		return
	}
	o.attacked[key] = o.round

	candidates := make([]string, 0, len(o.targeting[key]))
	for uid := range o.targeting[key] {
		if p, ok := o.players.Get(uid); ok && p.IsAlive() {
			candidates = append(candidates, uid)
		}
	}
	if len(candidates) == 0 {
		return
	}
	sort.Strings(candidates)

	victim, ok := o.players.Get(candidates[dice.Pick(o.src, len(candidates))])
	if !ok {
		return
	}
	o.resolveMonsterAttack(part, victim)
}

// resolveMonsterAttack rolls one monster attack against a player, applying
// unconsciousness or full death when the result crosses those thresholds.
func (o *Orchestrator) resolveMonsterAttack(part Participant, victim *player.Session) {
	name := part.Name()
	if !dice.Chance(o.src, o.tuning.MonsterHitChance) {
		o.out.Send(victim.Conn, fmt.Sprintf("The %s attacks you and misses!", name))
		o.out.Broadcast(victim.RoomID, fmt.Sprintf("The %s attacks %s and misses!", name, victim.Name), victim.UID)
		return
	}

	dmg := part.RollAttackDamage()
	victim.CurrentHealth -= dmg
	if victim.CurrentHealth < o.tuning.DeathFloor {
		victim.CurrentHealth = o.tuning.DeathFloor
	}
	o.out.Send(victim.Conn, fmt.Sprintf("The %s hits you for %d damage!", name, dmg))
	o.out.Broadcast(victim.RoomID, part.AttackText(victim.Name), victim.UID)

	switch {
	case victim.CurrentHealth <= o.tuning.DeathFloor:
		o.resolvePlayerDeath(victim)
	case victim.CurrentHealth <= 0:
		victim.Unconscious = true
		o.out.Send(victim.Conn, "You collapse, unconscious!")
		o.out.Broadcast(victim.RoomID, fmt.Sprintf("%s collapses, unconscious!", victim.Name), victim.UID)
		o.teardownSession(victim.UID)
	default:
		o.persist(victim)
	}
}

// resolvePlayerDeath handles full death: inventory and currency spill into
// the room, the player is teleported to the start room, and health is
// restored to the respawn fraction of maximum.
func (o *Orchestrator) resolvePlayerDeath(victim *player.Session) {
	items, coins := victim.TakeInventory()
	if len(items) > 0 {
		o.world.DropItems(victim.RoomID, items)
	}
	if coins > 0 {
		o.world.DropCurrency(victim.RoomID, coins)
	}

	o.out.Send(victim.Conn, "You have died!")
	o.out.Broadcast(victim.RoomID, fmt.Sprintf("%s has died!", victim.Name), victim.UID)

	start := o.world.StartRoom()
	if _, err := o.players.MovePlayer(victim.UID, start); err != nil {
		o.logger.Warn("respawn teleport failed",
			zap.String("uid", victim.UID),
			zap.Error(err))
	}

	respawn := int(float64(victim.MaxHealth) * o.tuning.RespawnHealthFraction)
	if respawn < 1 {
		respawn = 1
	}
	victim.CurrentHealth = respawn
	victim.Unconscious = false

	o.teardownSession(victim.UID)
	o.out.Broadcast(start, fmt.Sprintf("%s staggers in, looking shaken.", victim.Name), victim.UID)
	o.logger.Info("player died",
		zap.String("uid", victim.UID),
		zap.String("respawn_room", start),
		zap.Int("dropped_items", len(items)),
		zap.Int("dropped_currency", coins))
}

// resolveKill settles a monster death globally: experience splits evenly
// across every targeter, every other targeter's session ends now, and the
// shared entity is evicted from all registries.
func (o *Orchestrator) resolveKill(actor *player.Session, part Participant) {
	key := NewEntityKey(actor.RoomID, part.Name())

	targeters := o.targeters(key)
	if len(targeters) == 0 {
		targeters = []string{actor.UID}
	}

	o.out.Broadcast(actor.RoomID, part.DeathText(), "")

	share := part.ExpValue() / len(targeters)
	for _, uid := range targeters {
		tp, ok := o.players.Get(uid)
		if !ok {
			continue
		}
		tp.Experience += share
		o.out.Send(tp.Conn, fmt.Sprintf("You gain %d experience!", share))
		o.persist(tp)
	}

	for _, uid := range targeters {
		ts, ok := o.sessions[uid]
		if !ok {
			continue
		}
		ts.dropParticipant(part)
		if uid == actor.UID {
			// The acting session ends through its own done predicate.
			continue
		}
		o.finishSession(ts)
	}

	o.world.RemoveMonster(actor.RoomID, part.Name())
	delete(o.entities, key)
	delete(o.targeting, key)
	delete(o.attacked, key)
	o.logger.Info("monster killed",
		zap.String("entity", key.String()),
		zap.Int("targeters", len(targeters)),
		zap.Int("exp_share", share))
}

// endSession settles a session that reported done. A disengage request is
// denied with a narrative message while hostile participants remain.
func (o *Orchestrator) endSession(s *Session) {
	if _, ok := o.sessions[s.PlayerID]; !ok {
		return
	}
	p, ok := o.players.Get(s.PlayerID)
	if !ok {
		o.teardownSession(s.PlayerID)
		return
	}
	if !p.IsAlive() {
		o.teardownSession(s.PlayerID)
		return
	}
	if s.breakRequested && s.hasLiveHostiles() {
		s.breakRequested = false
		o.out.Send(s.conn, "You cannot break away while your foes press the attack!")
		return
	}
	o.finishSession(s)
}

// finishSession gracefully ends a session with combat-off notices.
func (o *Orchestrator) finishSession(s *Session) {
	delete(o.sessions, s.PlayerID)
	o.stripTargeting(s.PlayerID, false)

	p, ok := o.players.Get(s.PlayerID)
	if !ok {
		return
	}
	p.InCombat = false
	o.persist(p)
	o.out.Send(p.Conn, "*Combat Off*")
	o.out.Broadcast(p.RoomID, fmt.Sprintf("%s is no longer in combat.", p.Name), p.UID)
}

// teardownSession silently removes a session and clears the player's combat
// flag. Used for death, unconsciousness, and expired reconnect grace.
func (o *Orchestrator) teardownSession(uid string) {
	delete(o.sessions, uid)
	o.stripTargeting(uid, false)
	if p, ok := o.players.Get(uid); ok {
		p.InCombat = false
		o.persist(p)
	}
}

func (o *Orchestrator) addTargeter(key EntityKey, uid string) {
	if o.targeting[key] == nil {
		o.targeting[key] = make(map[string]bool)
	}
	o.targeting[key][uid] = true
}

func (o *Orchestrator) removeTargeter(key EntityKey, uid string) {
	set, ok := o.targeting[key]
	if !ok {
		return
	}
	delete(set, uid)
	if len(set) == 0 {
		delete(o.targeting, key)
	}
}

// stripTargeting removes the player from every targeting entry. With
// clearMarkers set, entities that keep other targeters also have their
// attacked-this-round marker cleared.
func (o *Orchestrator) stripTargeting(uid string, clearMarkers bool) {
	for key, set := range o.targeting {
		if !set[uid] {
			continue
		}
		delete(set, uid)
		if len(set) == 0 {
			delete(o.targeting, key)
			continue
		}
		if clearMarkers {
			delete(o.attacked, key)
		}
	}
}

// EngagedNames returns the names of the player's live participants, for
// status output.
func (o *Orchestrator) EngagedNames(uid string) []string {
	s, ok := o.sessions[uid]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(s.participants))
	for _, part := range s.participants {
		if part.IsAlive() {
			names = append(names, part.Name())
		}
	}
	return names
}

// LookAt returns a wound-state description for the named monster in the
// room, resolving (or lazily creating) the shared instance like Engage does.
func (o *Orchestrator) LookAt(roomID, target string) (string, bool) {
	inst := o.resolveEntity(roomID, target)
	if inst == nil {
		return "", false
	}
	if hd, ok := inst.(interface{ HealthDescription() string }); ok {
		return fmt.Sprintf("The %s looks %s.", inst.Name(), hd.HealthDescription()), true
	}
	return fmt.Sprintf("You see the %s.", inst.Name()), true
}

// targeters returns the UIDs targeting the key in sorted order.
func (o *Orchestrator) targeters(key EntityKey) []string {
	set := o.targeting[key]
	out := make([]string, 0, len(set))
	for uid := range set {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out
}
