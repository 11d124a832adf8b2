package player

import (
	"testing"

	"github.com/ellyseum/LEmud-sub002/internal/game/world"
)

func itemFixture(name string) world.Item {
	return world.Item{InstanceID: name + "-1", Name: name}
}

func TestSessionIsAlive(t *testing.T) {
	sess := &Session{CurrentHealth: 1}
	if !sess.IsAlive() {
		t.Error("health 1 should be alive")
	}
	sess.CurrentHealth = 0
	if sess.IsAlive() {
		t.Error("health 0 should not be alive")
	}
	sess.CurrentHealth = -5
	if sess.IsAlive() {
		t.Error("negative health should not be alive")
	}
}
