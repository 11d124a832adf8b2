package gameserver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ellyseum/LEmud-sub002/internal/game/combat"
	"github.com/ellyseum/LEmud-sub002/internal/game/player"
	"github.com/ellyseum/LEmud-sub002/internal/game/world"
)

// Look returns the full room description for the player's current room:
// title, description, exits, monsters, floor contents, and other players.
func (g *Game) Look(uid string) (string, error) {
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
		room, ok := g.world.GetRoom(p.RoomID)
		if !ok {
			err = fmt.Errorf("look: room %q not found", p.RoomID)
			return
		}
		out = g.describeRoom(room, p)
	})
	return out, err
}

func (g *Game) describeRoom(room *world.Room, viewer *player.Session) string {
	var b strings.Builder
	b.WriteString(room.Title)
	if room.Description != "" {
		b.WriteString("\n")
		b.WriteString(room.Description)
	}

	exits := make([]string, 0, len(room.Exits))
	for _, e := range room.Exits {
		exits = append(exits, e.Direction)
	}
	sort.Strings(exits)
	if len(exits) == 0 {
		b.WriteString("\nThere are no obvious exits.")
	} else {
		b.WriteString("\nExits: " + strings.Join(exits, ", "))
	}

	for _, name := range g.world.MonstersInRoom(room.ID) {
		b.WriteString(fmt.Sprintf("\nA %s is here.", name))
	}
	for _, item := range g.world.FloorItems(room.ID) {
		b.WriteString(fmt.Sprintf("\nA %s lies on the ground.", item.Name))
	}
	if coins := g.world.FloorCurrency(room.ID); coins > 0 {
		b.WriteString(fmt.Sprintf("\nA pile of %d coins lies here.", coins))
	}

	others := g.players.NamesInRoom(room.ID)
	sort.Strings(others)
	for _, name := range others {
		if name == viewer.Name {
			continue
		}
		b.WriteString(fmt.Sprintf("\n%s is here.", name))
	}
	return b.String()
}

// Move walks the player through the named exit. Movement is refused while
// the player has an active combat session.
//
// Postcondition: Returns the new room's description on success, or a
// player-facing refusal message.
func (g *Game) Move(uid, direction string) (string, error) {
	direction = strings.ToLower(strings.TrimSpace(direction))
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
		if g.orch.InCombat(uid) {
			out = "You can't leave while fighting!"
			return
		}
		room, ok := g.world.GetRoom(p.RoomID)
		if !ok {
			err = fmt.Errorf("move: room %q not found", p.RoomID)
			return
		}
		var target string
		for _, e := range room.Exits {
			if strings.EqualFold(e.Direction, direction) {
				target = e.TargetRoom
				break
			}
		}
		if target == "" {
			out = "You can't go that way."
			return
		}
		dest, ok := g.world.GetRoom(target)
		if !ok {
			err = fmt.Errorf("move: exit %q of room %q leads to unknown room %q", direction, room.ID, target)
			return
		}
		old, merr := g.players.MovePlayer(uid, dest.ID)
		if merr != nil {
			err = merr
			return
		}
		g.broadcast.Broadcast(old, fmt.Sprintf("%s leaves %s.", p.Name, direction), uid)
		g.broadcast.Broadcast(dest.ID, fmt.Sprintf("%s arrives.", p.Name), uid)
		out = g.describeRoom(dest, p)
	})
	return out, err
}

// Say sends a chat line to everyone in the player's room.
func (g *Game) Say(uid, text string) (string, error) {
	text = strings.TrimSpace(text)
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
		if text == "" {
			out = "Say what?"
			return
		}
		g.broadcast.Broadcast(p.RoomID, fmt.Sprintf("%s says, '%s'", p.Name, text), uid)
		out = fmt.Sprintf("You say, '%s'", text)
	})
	return out, err
}

// Who lists the players in the same room.
func (g *Game) Who(uid string) (string, error) {
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
		names := g.players.NamesInRoom(p.RoomID)
		sort.Strings(names)
		out = "Players here: " + strings.Join(names, ", ")
	})
	return out, err
}
