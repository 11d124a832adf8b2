package monster

import (
	"strings"

	"github.com/google/uuid"
)

// Source is the randomness provider used for damage rolls and flavor text
// selection. Declared locally so the package does not depend on the combat
// engine's dice wiring.
type Source interface {
	Intn(n int) int
}

// defaultAttackTexts is used when a template provides no attack flavor text.
var defaultAttackTexts = []string{
	"The {name} lunges at {target}!",
	"The {name} snaps viciously at {target}!",
	"The {name} strikes out at {target}!",
}

// defaultDeathText is used when a template provides no death message.
const defaultDeathText = "The {name} collapses and dies."

// Stats holds explicit construction values for an Instance created without a
// template.
type Stats struct {
	Name      string
	MaxHealth int
	DamageMin int
	DamageMax int
	Hostile   bool
	Passive   bool
	ExpValue  int
}

// Instance is a live monster entity shared by every combat session that
// targets it. The aggression ledger and hostility flag are mutated only by
// the combat orchestrator's single-writer tick.
type Instance struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// TemplateID is the source template's ID; empty for explicit-stat spawns.
	TemplateID string
	// RoomID is the room this instance occupies.
	RoomID string
	// CurrentHealth is the instance's current health; never below zero.
	CurrentHealth int
	// MaxHealth is the instance's maximum health.
	MaxHealth int
	// DamageMin and DamageMax bound the uniform attack damage roll.
	DamageMin int
	DamageMax int

	name        string
	hostile     bool
	passive     bool
	expValue    int
	attackTexts []string
	deathText   string
	aggro       map[string]int // player UID → cumulative damage dealt
	src         Source
}

// NewInstance creates a live monster from a template, placed in roomID.
//
// Precondition: tmpl and src must be non-nil; roomID must be non-empty.
// Postcondition: CurrentHealth equals tmpl.MaxHealth; the aggression ledger
// is empty.
func NewInstance(tmpl *Template, roomID string, src Source) *Instance {
	return &Instance{
		ID:            uuid.New().String(),
		TemplateID:    tmpl.ID,
		RoomID:        roomID,
		CurrentHealth: tmpl.MaxHealth,
		MaxHealth:     tmpl.MaxHealth,
		DamageMin:     tmpl.DamageMin,
		DamageMax:     tmpl.DamageMax,
		name:          tmpl.Name,
		hostile:       tmpl.Hostile,
		passive:       tmpl.Passive,
		expValue:      tmpl.ExpValue,
		attackTexts:   tmpl.AttackTexts,
		deathText:     tmpl.DeathText,
		aggro:         make(map[string]int),
		src:           src,
	}
}

// NewInstanceFromStats creates a live monster from explicit stats.
//
// Precondition: src must be non-nil; stats.Name must be non-empty;
// stats.MaxHealth >= 1; stats.DamageMin <= stats.DamageMax.
func NewInstanceFromStats(stats Stats, roomID string, src Source) *Instance {
	return &Instance{
		ID:            uuid.New().String(),
		RoomID:        roomID,
		CurrentHealth: stats.MaxHealth,
		MaxHealth:     stats.MaxHealth,
		DamageMin:     stats.DamageMin,
		DamageMax:     stats.DamageMax,
		name:          stats.Name,
		hostile:       stats.Hostile,
		passive:       stats.Passive,
		expValue:      stats.ExpValue,
		aggro:         make(map[string]int),
		src:           src,
	}
}

// Name returns the monster's display name.
func (i *Instance) Name() string { return i.name }

// IsAlive reports whether the instance has health remaining.
func (i *Instance) IsAlive() bool { return i.CurrentHealth > 0 }

// Hostile reports whether the monster initiates combat during room sweeps.
func (i *Instance) Hostile() bool { return i.hostile }

// Passive reports whether the monster never counterattacks.
func (i *Instance) Passive() bool { return i.passive }

// ExpValue returns the experience awarded when this monster is killed.
func (i *Instance) ExpValue() int { return i.expValue }

// TakeDamage reduces health by amount, flooring at zero, and returns the
// damage actually applied.
//
// Precondition: amount must be >= 0.
// Postcondition: CurrentHealth >= 0; return value <= amount.
func (i *Instance) TakeDamage(amount int) int {
	applied := amount
	if applied > i.CurrentHealth {
		applied = i.CurrentHealth
	}
	i.CurrentHealth -= applied
	return applied
}

// RollAttackDamage returns a uniform roll in [DamageMin, DamageMax].
func (i *Instance) RollAttackDamage() int {
	if i.DamageMax <= i.DamageMin {
		return i.DamageMin
	}
	return i.DamageMin + i.src.Intn(i.DamageMax-i.DamageMin+1)
}

// AttackText returns a randomly selected attack narrative with "{name}" and
// "{target}" substituted.
//
// Postcondition: Returns a non-empty string.
func (i *Instance) AttackText(target string) string {
	pool := i.attackTexts
	if len(pool) == 0 {
		pool = defaultAttackTexts
	}
	text := pool[i.src.Intn(len(pool))]
	return i.substitute(text, target)
}

// DeathText returns the monster's death message with "{name}" substituted.
//
// Postcondition: Returns a non-empty string.
func (i *Instance) DeathText() string {
	text := i.deathText
	if text == "" {
		text = defaultDeathText
	}
	return i.substitute(text, "")
}

func (i *Instance) substitute(text, target string) string {
	text = strings.ReplaceAll(text, "{name}", i.name)
	return strings.ReplaceAll(text, "{target}", target)
}

// HasAggro reports whether the given player is on the aggression ledger.
func (i *Instance) HasAggro(uid string) bool {
	_, ok := i.aggro[uid]
	return ok
}

// AddAggro records damage dealt by the given player and forces the monster
// hostile. A zero damage entry still registers the player as an aggressor;
// this is how idle hostiles notice late arrivals.
//
// Postcondition: HasAggro(uid) is true; Hostile() is true.
func (i *Instance) AddAggro(uid string, damage int) {
	i.aggro[uid] += damage
	i.hostile = true
}

// RemoveAggro deletes the given player from the aggression ledger.
func (i *Instance) RemoveAggro(uid string) {
	delete(i.aggro, uid)
}

// Aggressors returns the UIDs of every player on the aggression ledger.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (i *Instance) Aggressors() []string {
	out := make([]string, 0, len(i.aggro))
	for uid := range i.aggro {
		out = append(out, uid)
	}
	return out
}

// ClearAggro empties the aggression ledger. Hostility is unchanged.
func (i *Instance) ClearAggro() {
	i.aggro = make(map[string]int)
}

// HealthDescription returns a visible wound state suitable for examine output.
//
// Postcondition: Returns a non-empty string.
func (i *Instance) HealthDescription() string {
	if i.CurrentHealth <= 0 {
		return "dead"
	}
	pct := float64(i.CurrentHealth) / float64(i.MaxHealth)
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
