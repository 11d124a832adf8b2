// Package combat implements the round-based combat engine: shared monster
// entities, per-player combat sessions, and the orchestrator that drives
// both from a single tick.
package combat

// Participant is a combatant engaged by a combat session. *monster.Instance
// is the canonical implementation; the contract is kept small so tests can
// supply scripted participants.
type Participant interface {
	// Name returns the participant's display name.
	Name() string
	// IsAlive reports whether the participant has health remaining.
	IsAlive() bool
	// TakeDamage applies damage, clamped so health never drops below zero,
	// and returns the damage actually applied.
	TakeDamage(amount int) int
	// RollAttackDamage returns a uniform roll over the damage range.
	RollAttackDamage() int
	// AttackText returns a third-person attack narrative for the target.
	AttackText(target string) string
	// DeathText returns the participant's death narrative.
	DeathText() string
	// Hostile reports whether the participant initiates combat on sweeps.
	Hostile() bool
	// Passive reports whether the participant never counterattacks.
	Passive() bool
	// ExpValue returns the experience awarded on kill.
	ExpValue() int
	// HasAggro reports whether the player is on the aggression ledger.
	HasAggro(uid string) bool
	// AddAggro records damage dealt by the player and forces hostility.
	// A zero-damage entry still registers the player as an aggressor.
	AddAggro(uid string, damage int)
	// RemoveAggro drops the player from the aggression ledger.
	RemoveAggro(uid string)
	// Aggressors returns the UIDs of every player on the ledger.
	Aggressors() []string
	// ClearAggro empties the ledger without changing hostility.
	ClearAggro()
}
