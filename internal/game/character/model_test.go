package character

import (
	"strings"
	"testing"
)

func TestNew_StartsAtFullHealth(t *testing.T) {
	c := New("Alice", "temple_square", 100)
	if c.CurrentHealth != 100 || c.MaxHealth != 100 {
		t.Errorf("health = %d/%d, want 100/100", c.CurrentHealth, c.MaxHealth)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("new character should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Character)
		wantErr string
	}{
		{"empty name", func(c *Character) { c.Name = "" }, "name"},
		{"empty location", func(c *Character) { c.Location = "" }, "location"},
		{"zero max health", func(c *Character) { c.MaxHealth = 0 }, "max health"},
		{"negative experience", func(c *Character) { c.Experience = -1 }, "experience"},
		{"negative currency", func(c *Character) { c.Currency = -5 }, "currency"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New("Alice", "temple_square", 100)
			tc.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_NegativeCurrentHealthAllowed(t *testing.T) {
	// Unconscious characters persist with health below zero.
	c := New("Alice", "temple_square", 100)
	c.CurrentHealth = -4
	c.Unconscious = true
	if err := c.Validate(); err != nil {
		t.Errorf("unconscious vitals should be storable: %v", err)
	}
}
