package monster

import (
	"strings"
	"testing"
)

// fixedSrc returns val for every Intn call.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

func catTemplate() *Template {
	return &Template{
		ID: "cat", Name: "cat", MaxHealth: 20,
		DamageMin: 1, DamageMax: 3, ExpValue: 10,
		AttackTexts: []string{"The {name} claws at {target}!"},
		DeathText:   "The {name} goes limp.",
	}
}

func TestNewInstance(t *testing.T) {
	inst := NewInstance(catTemplate(), "town-square", fixedSrc{})
	if inst.ID == "" {
		t.Error("expected a generated instance ID")
	}
	if inst.CurrentHealth != 20 || inst.MaxHealth != 20 {
		t.Errorf("health = %d/%d, want 20/20", inst.CurrentHealth, inst.MaxHealth)
	}
	if !inst.IsAlive() {
		t.Error("fresh instance should be alive")
	}
	if inst.Hostile() || inst.Passive() {
		t.Error("cat should be neither hostile nor passive")
	}
	if inst.RoomID != "town-square" {
		t.Errorf("room = %q, want town-square", inst.RoomID)
	}
}

func TestTakeDamage_ClampsAtZero(t *testing.T) {
	inst := NewInstance(catTemplate(), "r", fixedSrc{})
	applied := inst.TakeDamage(15)
	if applied != 15 || inst.CurrentHealth != 5 {
		t.Fatalf("applied=%d health=%d, want 15/5", applied, inst.CurrentHealth)
	}
	applied = inst.TakeDamage(50)
	if applied != 5 {
		t.Errorf("applied = %d, want 5 (clamped)", applied)
	}
	if inst.CurrentHealth != 0 {
		t.Errorf("health = %d, want 0", inst.CurrentHealth)
	}
	if inst.IsAlive() {
		t.Error("instance at 0 health should be dead")
	}
}

func TestRollAttackDamage_Bounds(t *testing.T) {
	inst := NewInstance(catTemplate(), "r", fixedSrc{val: 0})
	if got := inst.RollAttackDamage(); got != 1 {
		t.Errorf("low roll = %d, want 1", got)
	}
	inst = NewInstance(catTemplate(), "r", fixedSrc{val: 2})
	if got := inst.RollAttackDamage(); got != 3 {
		t.Errorf("high roll = %d, want 3", got)
	}
}

func TestAttackText_Substitution(t *testing.T) {
	inst := NewInstance(catTemplate(), "r", fixedSrc{val: 0})
	text := inst.AttackText("Alice")
	if text != "The cat claws at Alice!" {
		t.Errorf("attack text = %q", text)
	}
}

func TestAttackText_DefaultPool(t *testing.T) {
	tmpl := catTemplate()
	tmpl.AttackTexts = nil
	inst := NewInstance(tmpl, "r", fixedSrc{val: 0})
	text := inst.AttackText("Alice")
	if !strings.Contains(text, "cat") || !strings.Contains(text, "Alice") {
		t.Errorf("default attack text missing substitutions: %q", text)
	}
}

func TestDeathText(t *testing.T) {
	inst := NewInstance(catTemplate(), "r", fixedSrc{})
	if got := inst.DeathText(); got != "The cat goes limp." {
		t.Errorf("death text = %q", got)
	}

	tmpl := catTemplate()
	tmpl.DeathText = ""
	inst = NewInstance(tmpl, "r", fixedSrc{})
	if !strings.Contains(inst.DeathText(), "cat") {
		t.Errorf("default death text missing name: %q", inst.DeathText())
	}
}

func TestAggro_FlipsHostile(t *testing.T) {
	inst := NewInstance(catTemplate(), "r", fixedSrc{})
	if inst.Hostile() {
		t.Fatal("cat starts non-hostile")
	}

	inst.AddAggro("alice", 0)
	if !inst.Hostile() {
		t.Error("AddAggro must flip the monster hostile, even at zero damage")
	}
	if !inst.HasAggro("alice") {
		t.Error("alice should be on the ledger")
	}

	inst.AddAggro("alice", 3)
	inst.AddAggro("bob", 2)
	aggr := inst.Aggressors()
	if len(aggr) != 2 {
		t.Errorf("aggressors = %v, want 2 entries", aggr)
	}

	inst.RemoveAggro("alice")
	if inst.HasAggro("alice") {
		t.Error("alice should be removed")
	}

	inst.ClearAggro()
	if len(inst.Aggressors()) != 0 {
		t.Error("ledger should be empty after ClearAggro")
	}
	if !inst.Hostile() {
		t.Error("clearing the ledger does not reset hostility")
	}
}

func TestNewInstanceFromStats(t *testing.T) {
	inst := NewInstanceFromStats(Stats{
		Name: "golem", MaxHealth: 40, DamageMin: 2, DamageMax: 6,
		Hostile: true, ExpValue: 30,
	}, "vault", fixedSrc{})
	if inst.Name() != "golem" || !inst.Hostile() || inst.ExpValue() != 30 {
		t.Errorf("unexpected instance: %+v", inst)
	}
	if inst.TemplateID != "" {
		t.Errorf("explicit-stat spawn should have no template ID, got %q", inst.TemplateID)
	}
}

func TestHealthDescription(t *testing.T) {
	inst := NewInstance(catTemplate(), "r", fixedSrc{})
	if got := inst.HealthDescription(); got != "unharmed" {
		t.Errorf("full health = %q, want unharmed", got)
	}
	inst.TakeDamage(19)
	if got := inst.HealthDescription(); got != "critically wounded" {
		t.Errorf("1/20 health = %q, want critically wounded", got)
	}
	inst.TakeDamage(1)
	if got := inst.HealthDescription(); got != "dead" {
		t.Errorf("0 health = %q, want dead", got)
	}
}
