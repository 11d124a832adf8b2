package command

import (
	"fmt"
	"sort"
)

// Registry maps command names and aliases to Command definitions.
type Registry struct {
	byName map[string]*Command // name or alias → command
	names  []string            // canonical names, insertion order
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Command, len(cmds))}
	for i := range cmds {
		cmd := &cmds[i]
		if _, taken := r.byName[cmd.Name]; taken {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		r.byName[cmd.Name] = cmd
		r.names = append(r.names, cmd.Name)
		for _, alias := range cmd.Aliases {
			if _, taken := r.byName[alias]; taken {
				return nil, fmt.Errorf("alias %q of command %q is already registered", alias, cmd.Name)
			}
			r.byName[alias] = cmd
		}
	}
	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by canonical name or alias.
//
// Postcondition: Returns (command, true) if found, or (nil, false).
func (r *Registry) Resolve(input string) (*Command, bool) {
	cmd, ok := r.byName[input]
	return cmd, ok
}

// Commands returns all registered commands in registration order.
func (r *Registry) Commands() []*Command {
	result := make([]*Command, 0, len(r.names))
	for _, name := range r.names {
		result = append(result, r.byName[name])
	}
	return result
}

// CommandsByCategory returns commands grouped by category, each group
// sorted by name.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	categories := make(map[string][]*Command)
	for _, cmd := range r.Commands() {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	for _, group := range categories {
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
	}
	return categories
}
