package command

import "testing"

func TestDefaultRegistry_ResolvesNamesAndAliases(t *testing.T) {
	r := DefaultRegistry()

	cases := map[string]string{
		"attack": "attack",
		"kill":   "attack",
		"bk":     "break",
		"flee":   "break",
		"l":      "look",
		"n":      "north",
		"'":      "say",
		"?":      "help",
	}
	for input, want := range cases {
		cmd, ok := r.Resolve(input)
		if !ok {
			t.Errorf("Resolve(%q) not found", input)
			continue
		}
		if cmd.Name != want {
			t.Errorf("Resolve(%q) = %q, want %q", input, cmd.Name, want)
		}
	}

	if _, ok := r.Resolve("xyzzy"); ok {
		t.Error("Resolve should not find unregistered commands")
	}
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "look"},
		{Name: "look"},
	})
	if err == nil {
		t.Fatal("expected error for duplicate command name")
	}
}

func TestNewRegistry_AliasCollision(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "look", Aliases: []string{"l"}},
		{Name: "leave", Aliases: []string{"l"}},
	})
	if err == nil {
		t.Fatal("expected error for colliding alias")
	}
}

func TestCommandsByCategory(t *testing.T) {
	r := DefaultRegistry()
	byCat := r.CommandsByCategory()
	if len(byCat[CategoryMovement]) != 6 {
		t.Errorf("movement commands = %d, want 6", len(byCat[CategoryMovement]))
	}
	combatCmds := byCat[CategoryCombat]
	for i := 1; i < len(combatCmds); i++ {
		if combatCmds[i-1].Name > combatCmds[i].Name {
			t.Fatalf("category group not sorted: %q before %q", combatCmds[i-1].Name, combatCmds[i].Name)
		}
	}
}

func TestIsMovementCommand(t *testing.T) {
	if !IsMovementCommand("north") || !IsMovementCommand("down") {
		t.Error("directions should be movement commands")
	}
	if IsMovementCommand("attack") {
		t.Error("attack is not a movement command")
	}
}
