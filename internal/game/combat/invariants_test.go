package combat

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/ellyseum/LEmud-sub002/internal/game/monster"
)

// One counterattack per entity per round, regardless of how many sessions
// share the entity.
func TestProperty_AtMostOneCounterattackPerRound(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		playerCount := rapid.IntRange(1, 5).Draw(rt, "players")
		rounds := rapid.IntRange(1, 6).Draw(rt, "rounds")
		damage := rapid.IntRange(1, 9).Draw(rt, "damage")
		pick := rapid.IntRange(0, 7).Draw(rt, "pick")

		tn := detTuning()
		tn.PlayerHitChance = 0 // nobody lands a kill
		tn.MonsterHitChance = 1

		tmpl := catTemplate()
		tmpl.MaxHealth = 1000
		tmpl.DamageMin = damage
		tmpl.DamageMax = damage

		h := newHarness(t, tn, stubTemplates{"cat": tmpl})
		h.orch.src = fixedSrc{pick}
		h.placeMonster("cave", "cat")

		start := 1000
		for i := 0; i < playerCount; i++ {
			uid := fmt.Sprintf("p%d", i)
			h.addPlayer(uid, fmt.Sprintf("Player%d", i), "cave", start)
			h.engage(uid, "cat")
		}

		for r := 0; r < rounds; r++ {
			h.orch.ProcessCombatRound()
		}

		lost := 0
		for i := 0; i < playerCount; i++ {
			p, ok := h.players.Get(fmt.Sprintf("p%d", i))
			if !ok {
				rt.Fatal("player vanished")
			}
			lost += start - p.CurrentHealth
		}
		if want := rounds * damage; lost != want {
			rt.Fatalf("total health lost = %d, want %d (%d rounds, one %d-damage counterattack each)", lost, want, rounds, damage)
		}
	})
}

// A kill awards every targeter exactly floor(expValue / targeterCount) and
// tears every targeter's session down, not just the killer's.
func TestProperty_KillSplitsExperienceGlobally(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		playerCount := rapid.IntRange(1, 5).Draw(rt, "players")
		expValue := rapid.IntRange(0, 200).Draw(rt, "exp")

		tn := detTuning() // attacks always land, damage 2
		tmpl := catTemplate()
		tmpl.MaxHealth = 2 // dies to the first hit
		tmpl.ExpValue = expValue

		h := newHarness(t, tn, stubTemplates{"cat": tmpl})
		h.placeMonster("cave", "cat")

		for i := 0; i < playerCount; i++ {
			uid := fmt.Sprintf("p%d", i)
			h.addPlayer(uid, fmt.Sprintf("Player%d", i), "cave", 100)
			h.engage(uid, "cat")
		}

		h.orch.ProcessCombatRound()

		share := expValue / playerCount
		for i := 0; i < playerCount; i++ {
			p, _ := h.players.Get(fmt.Sprintf("p%d", i))
			if p.Experience != share {
				rt.Fatalf("player %d experience = %d, want %d", i, p.Experience, share)
			}
			if p.InCombat {
				rt.Fatalf("player %d combat flag should be cleared", i)
			}
		}
		if h.orch.ActiveSessions() != 0 {
			rt.Fatalf("sessions = %d, want 0 after a global kill", h.orch.ActiveSessions())
		}
		if len(h.orch.targeting) != 0 || len(h.orch.entities) != 0 {
			rt.Fatal("registries should be empty after the kill")
		}
	})
}

// Monster health never underflows below zero no matter the damage applied.
func TestProperty_MonsterHealthNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxHealth := rapid.IntRange(1, 50).Draw(rt, "maxHealth")
		tmpl := catTemplate()
		tmpl.MaxHealth = maxHealth
		inst := monster.NewInstance(tmpl, "cave", fixedSrc{0})

		for inst.IsAlive() {
			amount := rapid.IntRange(1, 100).Draw(rt, "damage")
			applied := inst.TakeDamage(amount)
			if applied > amount {
				rt.Fatalf("applied %d > requested %d", applied, amount)
			}
			if inst.CurrentHealth < 0 {
				rt.Fatalf("health underflowed to %d", inst.CurrentHealth)
			}
		}
	})
}
