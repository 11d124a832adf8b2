// Package command provides the command registry, parser, and built-in
// command definitions for the player-facing text surface.
package command

// Categories for organizing commands in help output.
const (
	CategoryMovement      = "movement"
	CategoryWorld         = "world"
	CategoryCombat        = "combat"
	CategoryCommunication = "communication"
	CategorySystem        = "system"
)

// Handler identifiers mapping commands to session-handler dispatch.
const (
	HandlerMove    = "move"
	HandlerLook    = "look"
	HandlerExamine = "examine"
	HandlerAttack  = "attack"
	HandlerBreak   = "break"
	HandlerStatus  = "status"
	HandlerSay     = "say"
	HandlerWho     = "who"
	HandlerQuit    = "quit"
	HandlerHelp    = "help"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command for help output.
	Category string
	// Handler selects the session-handler dispatch branch.
	Handler string
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		// Movement
		{Name: "north", Aliases: []string{"n"}, Help: "Move north", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "south", Aliases: []string{"s"}, Help: "Move south", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "east", Aliases: []string{"e"}, Help: "Move east", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "west", Aliases: []string{"w"}, Help: "Move west", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "up", Aliases: []string{"u"}, Help: "Move up", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "down", Aliases: []string{"d"}, Help: "Move down", Category: CategoryMovement, Handler: HandlerMove},

		// World
		{Name: "look", Aliases: []string{"l"}, Help: "Look around the current room", Category: CategoryWorld, Handler: HandlerLook},
		{Name: "examine", Aliases: []string{"ex"}, Help: "Examine a monster in the room", Category: CategoryWorld, Handler: HandlerExamine},

		// Combat
		{Name: "attack", Aliases: []string{"att", "kill"}, Help: "Attack a target (attack <name>)", Category: CategoryCombat, Handler: HandlerAttack},
		{Name: "break", Aliases: []string{"bk", "flee"}, Help: "Attempt to break off combat", Category: CategoryCombat, Handler: HandlerBreak},
		{Name: "status", Aliases: []string{"st", "score"}, Help: "Show your vitals and current fight", Category: CategoryCombat, Handler: HandlerStatus},

		// Communication
		{Name: "say", Aliases: []string{"'"}, Help: "Say something to the room", Category: CategoryCommunication, Handler: HandlerSay},
		{Name: "who", Aliases: nil, Help: "List players in the room", Category: CategoryCommunication, Handler: HandlerWho},

		// System
		{Name: "quit", Aliases: []string{"exit"}, Help: "Disconnect from the game", Category: CategorySystem, Handler: HandlerQuit},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}

// IsMovementCommand reports whether the command name is a movement direction.
func IsMovementCommand(name string) bool {
	switch name {
	case "north", "south", "east", "west", "up", "down":
		return true
	default:
		return false
	}
}
