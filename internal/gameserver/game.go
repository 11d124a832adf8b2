// Package gameserver wires the combat engine to connections, persistence,
// and the round tick, and serializes every externally triggered mutation
// onto the single game-loop goroutine the engine requires.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ellyseum/LEmud-sub002/internal/config"
	"github.com/ellyseum/LEmud-sub002/internal/game/character"
	"github.com/ellyseum/LEmud-sub002/internal/game/combat"
	"github.com/ellyseum/LEmud-sub002/internal/game/dice"
	"github.com/ellyseum/LEmud-sub002/internal/game/player"
	"github.com/ellyseum/LEmud-sub002/internal/game/world"
	"github.com/ellyseum/LEmud-sub002/internal/storage/postgres"
)

// defaultMaxHealth is the starting maximum health for new characters.
const defaultMaxHealth = 100

// Game owns the combat orchestrator and the single goroutine all combat
// mutations run on. Command entry points (Attack, BreakCombat, Login,
// Logout) enqueue onto that goroutine and wait for completion, preserving
// the engine's single-writer discipline.
type Game struct {
	cfg       config.GameConfig
	logger    *zap.Logger
	world     *world.Manager
	players   *player.Manager
	store     CharacterStore
	orch      *combat.Orchestrator
	broadcast *Broadcaster
	persist   combat.PersistFunc
	actions   chan func()
}

// TuningFromConfig maps the loaded game configuration onto the combat
// engine's tuning knobs.
func TuningFromConfig(cfg config.GameConfig) combat.Tuning {
	return combat.Tuning{
		ReconnectGrace:        cfg.ReconnectGrace,
		PlayerHitChance:       cfg.PlayerHitChance,
		PlayerDamageMin:       cfg.PlayerDamageMin,
		PlayerDamageMax:       cfg.PlayerDamageMax,
		MonsterHitChance:      cfg.MonsterHitChance,
		DeathFloor:            cfg.DeathFloor,
		RespawnHealthFraction: cfg.RespawnHealthFraction,
		SweepTargetPolicy:     cfg.SweepTargetPolicy,
	}
}

// NewGame assembles the game server around an already-loaded world.
//
// Precondition: worldMgr, templates, src, and logger must be non-nil; store
// may be nil for an ephemeral (unpersisted) server.
func NewGame(cfg config.GameConfig, worldMgr *world.Manager, templates combat.TemplateSource, store CharacterStore, src dice.Source, logger *zap.Logger) *Game {
	players := player.NewManager()
	broadcast := NewBroadcaster(players, logger)

	var saver CharacterSaver
	if store != nil {
		saver = store
	}
	persist := NewPersistFunc(saver, logger)
	orch := combat.NewOrchestrator(
		TuningFromConfig(cfg),
		worldMgr,
		players,
		templates,
		src,
		broadcast.Outputs(),
		persist,
		logger,
	)

	return &Game{
		cfg:       cfg,
		logger:    logger,
		world:     worldMgr,
		players:   players,
		store:     store,
		orch:      orch,
		broadcast: broadcast,
		persist:   persist,
		actions:   make(chan func(), 256),
	}
}

// Players exposes the player manager for transports.
func (g *Game) Players() *player.Manager {
	return g.players
}

// Run drives the game loop until ctx is cancelled. The combat round fires
// every RoundInterval; all command entry points execute between rounds on
// this goroutine.
func (g *Game) Run(ctx context.Context) {
	ticks := NewTickManager(g.cfg.RoundInterval)
	ticks.RegisterTick("combat_round", func() {
		g.enqueue(func() { g.orch.ProcessCombatRound() })
	})
	ticks.Start(ctx)

	g.logger.Info("game loop started",
		zap.Duration("round_interval", g.cfg.RoundInterval))
	for {
		select {
		case <-ctx.Done():
			g.logger.Info("game loop stopped")
			return
		case fn := <-g.actions:
			fn()
		}
	}
}

// enqueue schedules fn on the game loop without waiting.
func (g *Game) enqueue(fn func()) {
	g.actions <- fn
}

// do runs fn on the game loop and waits for it to complete.
//
// Precondition: Run must be active, and fn must not call do recursively.
func (g *Game) do(fn func()) {
	done := make(chan struct{})
	g.actions <- func() {
		defer close(done)
		fn()
	}
	<-done
}

// Login resolves (or creates) the named character, registers a player
// session, and hands any surviving combat session over to the fresh
// connection. Logging in from a second device replaces the first.
func (g *Game) Login(ctx context.Context, name string) (*player.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("login: character name must not be empty")
	}

	c, err := g.loadOrCreateCharacter(ctx, name)
	if err != nil {
		return nil, err
	}
	if _, ok := g.world.GetRoom(c.Location); !ok {
		c.Location = g.world.StartRoom()
	}

	var (
		sess *player.Session
		lerr error
	)
	g.do(func() {
		if existing, ok := g.players.GetByName(c.Name); ok {
			if _, err := g.players.ReplaceConn(existing.UID); err != nil {
				lerr = err
				return
			}
			g.orch.TransferSession(existing.UID)
			sess = existing
			return
		}

		uid := uuid.New().String()
		sess, lerr = g.players.AddPlayer(uid, c.Name, c.ID, c.Location, c.CurrentHealth, c.MaxHealth)
		if lerr != nil {
			return
		}
		sess.Experience = c.Experience
		sess.Currency = c.Currency
		sess.InCombat = c.InCombat
		sess.Unconscious = c.Unconscious
		if sess.InCombat {
			// Server restarted mid-fight; rebuild the session from the
			// persisted flag.
			g.orch.TransferSession(uid)
		}
	})
	if lerr != nil {
		return nil, lerr
	}

	g.logger.Info("player logged in",
		zap.String("uid", sess.UID),
		zap.String("name", sess.Name),
		zap.String("room", sess.RoomID))
	return sess, nil
}

func (g *Game) loadOrCreateCharacter(ctx context.Context, name string) (*character.Character, error) {
	if g.store == nil {
		return character.New(name, g.world.StartRoom(), defaultMaxHealth), nil
	}
	c, err := g.store.GetByName(ctx, name)
	if errors.Is(err, postgres.ErrCharacterNotFound) {
		return g.store.Create(ctx, character.New(name, g.world.StartRoom(), defaultMaxHealth))
	}
	if err != nil {
		return nil, fmt.Errorf("loading character %q: %w", name, err)
	}
	return c, nil
}

// Logout tears down combat state, flushes vitals, and removes the player.
func (g *Game) Logout(uid string) {
	g.do(func() {
		g.orch.HandleDisconnect(uid)
		if p, ok := g.players.Get(uid); ok {
			g.persist(p)
			_ = g.players.RemovePlayer(uid)
			g.broadcast.Broadcast(p.RoomID, fmt.Sprintf("%s has left.", p.Name), uid)
		}
	})
	g.logger.Info("player logged out", zap.String("uid", uid))
}

// Attack engages the named target for the player.
func (g *Game) Attack(uid, target string) (bool, error) {
	var (
		ok  bool
		err error
	)
	g.do(func() { ok, err = g.orch.Engage(uid, target) })
	return ok, err
}

// BreakCombat requests disengage for the player.
func (g *Game) BreakCombat(uid string) bool {
	var ok bool
	g.do(func() { ok = g.orch.Break(uid) })
	return ok
}

// InCombat reports whether the player is mid-fight.
func (g *Game) InCombat(uid string) bool {
	var in bool
	g.do(func() { in = g.orch.InCombat(uid) })
	return in
}

// Status returns a one-line vitals summary for the player.
func (g *Game) Status(uid string) (string, error) {
	var (
		out string
		err error
	)
	g.do(func() {
		p, ok := g.players.Get(uid)
		if !ok {
			err = combat.ErrUnknownPlayer
			return
		}
		out = fmt.Sprintf("HP %d/%d  XP %d  %d coins", p.CurrentHealth, p.MaxHealth, p.Experience, p.Currency)
		if p.Unconscious {
			out += "  [unconscious]"
		}
		if names := g.orch.EngagedNames(uid); len(names) > 0 {
			out += "  fighting: " + strings.Join(names, ", ")
		}
	})
	return out, err
}

// Examine returns a wound-state description of the named monster in the
// player's room.
func (g *Game) Examine(uid, target string) (string, error) {
	var (
		out string
		err error
	)
	g.do(func() {
		p, ok := g.players.Get(uid)
		if !ok {
			err = combat.ErrUnknownPlayer
			return
		}
		desc, found := g.orch.LookAt(p.RoomID, target)
		if !found {
			out = fmt.Sprintf("You don't see a %s here.", target)
			return
		}
		out = desc
	})
	return out, err
}
