// Package frontend drives the player-facing Telnet command loop, bridging
// parsed text commands to the game backend.
package frontend

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ellyseum/LEmud-sub002/internal/frontend/telnet"
	"github.com/ellyseum/LEmud-sub002/internal/game/command"
	"github.com/ellyseum/LEmud-sub002/internal/game/player"
)

// GameAPI is the backend surface the session handler drives. It is
// implemented by gameserver.Game.
type GameAPI interface {
	Login(ctx context.Context, name string) (*player.Session, error)
	Logout(uid string)
	Attack(uid, target string) (bool, error)
	BreakCombat(uid string) bool
	Status(uid string) (string, error)
	Examine(uid, target string) (string, error)
	Look(uid string) (string, error)
	Move(uid, direction string) (string, error)
	Say(uid, text string) (string, error)
	Who(uid string) (string, error)
}

// SessionHandler runs the command loop for one connected client.
type SessionHandler struct {
	game     GameAPI
	registry *command.Registry
	logger   *zap.Logger
}

// NewSessionHandler creates a handler dispatching to the given backend.
//
// Precondition: game, registry, and logger must be non-nil.
func NewSessionHandler(game GameAPI, registry *command.Registry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		game:     game,
		registry: registry,
		logger:   logger,
	}
}

// HandleSession prompts for a character name, logs the player in, and
// processes commands until the client quits or the connection drops.
//
// Postcondition: On a transport drop the player's game connection is closed
// but the player is NOT logged out; an active combat session survives into
// the reconnect grace window.
func (h *SessionHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	_ = conn.WriteLine(telnet.Colorize(telnet.BrightCyan, "Welcome to LEmud."))

	name, err := h.promptName(conn)
	if err != nil {
		return err
	}

	sess, err := h.game.Login(ctx, name)
	if err != nil {
		_ = conn.WriteLine("That name cannot be used. Goodbye.")
		return fmt.Errorf("login %q: %w", name, err)
	}
	uid := sess.UID
	pc := sess.Conn

	// Pump game events out to the client. The events channel closes when
	// the connection handle is replaced (reconnect elsewhere) or removed;
	// closing the telnet conn unblocks the read loop below.
	go func() {
		for data := range pc.Events() {
			if werr := conn.WriteLine(string(data)); werr != nil {
				break
			}
		}
		_ = conn.Close()
	}()

	if look, lerr := h.game.Look(uid); lerr == nil {
		h.writeBlock(conn, look)
	}

	for {
		_ = conn.WritePrompt("> ")
		line, rerr := conn.ReadLine()
		if rerr != nil {
			_ = pc.Close()
			h.logger.Debug("client read failed, leaving session for grace window",
				zap.String("uid", uid), zap.Error(rerr))
			return rerr
		}
		select {
		case <-ctx.Done():
			h.game.Logout(uid)
			return ctx.Err()
		default:
		}

		if quit := h.dispatch(conn, uid, line); quit {
			// Farewell first: Logout closes the game-side connection,
			// which shuts the event pump and this telnet conn with it.
			_ = conn.WriteLine("Goodbye.")
			h.game.Logout(uid)
			return nil
		}
	}
}

// promptName reads a non-empty character name, retrying on blank input.
func (h *SessionHandler) promptName(conn *telnet.Conn) (string, error) {
	for {
		_ = conn.WritePrompt("By what name are you known? ")
		line, err := conn.ReadLine()
		if err != nil {
			return "", err
		}
		if name := strings.TrimSpace(line); name != "" {
			return name, nil
		}
	}
}

// dispatch executes one command line. Returns true when the player quits.
func (h *SessionHandler) dispatch(conn *telnet.Conn, uid, line string) bool {
	parsed := command.Parse(line)
	if parsed.Command == "" {
		return false
	}
	cmd, ok := h.registry.Resolve(parsed.Command)
	if !ok {
		_ = conn.WriteLine("Huh? Type 'help' for a list of commands.")
		return false
	}

	switch cmd.Handler {
	case command.HandlerMove:
		out, err := h.game.Move(uid, cmd.Name)
		h.reply(conn, out, err)
	case command.HandlerLook:
		if parsed.RawArgs != "" {
			out, err := h.game.Examine(uid, parsed.RawArgs)
			h.reply(conn, out, err)
		} else {
			out, err := h.game.Look(uid)
			h.reply(conn, out, err)
		}
	case command.HandlerExamine:
		if parsed.RawArgs == "" {
			_ = conn.WriteLine("Examine what?")
			return false
		}
		out, err := h.game.Examine(uid, parsed.RawArgs)
		h.reply(conn, out, err)
	case command.HandlerAttack:
		if parsed.RawArgs == "" {
			_ = conn.WriteLine("Attack what?")
			return false
		}
		// Engage feedback arrives through the event pump.
		if _, err := h.game.Attack(uid, parsed.RawArgs); err != nil {
			_ = conn.WriteLine("You can't do that right now.")
		}
	case command.HandlerBreak:
		h.game.BreakCombat(uid)
	case command.HandlerStatus:
		out, err := h.game.Status(uid)
		h.reply(conn, out, err)
	case command.HandlerSay:
		out, err := h.game.Say(uid, parsed.RawArgs)
		h.reply(conn, out, err)
	case command.HandlerWho:
		out, err := h.game.Who(uid)
		h.reply(conn, out, err)
	case command.HandlerHelp:
		h.writeHelp(conn)
	case command.HandlerQuit:
		return true
	default:
		_ = conn.WriteLine("Huh? Type 'help' for a list of commands.")
	}
	return false
}

// reply writes a backend response, masking internal errors behind a
// generic message.
func (h *SessionHandler) reply(conn *telnet.Conn, out string, err error) {
	if err != nil {
		h.logger.Warn("command failed", zap.Error(err))
		_ = conn.WriteLine("You can't do that right now.")
		return
	}
	h.writeBlock(conn, out)
}

// writeBlock writes a possibly multi-line response line by line.
func (h *SessionHandler) writeBlock(conn *telnet.Conn, text string) {
	for _, line := range strings.Split(text, "\n") {
		_ = conn.WriteLine(line)
	}
}

func (h *SessionHandler) writeHelp(conn *telnet.Conn) {
	order := []string{
		command.CategoryMovement,
		command.CategoryWorld,
		command.CategoryCombat,
		command.CategoryCommunication,
		command.CategorySystem,
	}
	byCat := h.registry.CommandsByCategory()
	for _, cat := range order {
		cmds := byCat[cat]
		if len(cmds) == 0 {
			continue
		}
		_ = conn.WriteLine(telnet.Colorize(telnet.Bold, strings.ToUpper(cat[:1])+cat[1:]))
		for _, cmd := range cmds {
			names := cmd.Name
			if len(cmd.Aliases) > 0 {
				names += " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			_ = conn.WriteLine(fmt.Sprintf("  %-24s %s", names, cmd.Help))
		}
	}
}
