package gameserver_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/ellyseum/LEmud-sub002/internal/game/player"
	"github.com/ellyseum/LEmud-sub002/internal/gameserver"
)

type capturedVitals struct {
	id          int64
	location    string
	currentHP   int
	experience  int
	currency    int
	inCombat    bool
	unconscious bool
}

type captureSaver struct {
	got chan capturedVitals
}

func (c *captureSaver) SaveVitals(_ context.Context, id int64, location string, currentHP, experience, currency int, inCombat, unconscious bool) error {
	c.got <- capturedVitals{id, location, currentHP, experience, currency, inCombat, unconscious}
	return nil
}

func TestNewPersistFunc_FlushesSessionSnapshot(t *testing.T) {
	saver := &captureSaver{got: make(chan capturedVitals, 1)}
	persist := gameserver.NewPersistFunc(saver, zaptest.NewLogger(t))

	sess := &player.Session{
		UID:           "a",
		Name:          "Alice",
		CharacterID:   7,
		RoomID:        "cave",
		CurrentHealth: -2,
		MaxHealth:     100,
		Experience:    35,
		Currency:      12,
		Unconscious:   true,
	}
	persist(sess)

	select {
	case got := <-saver.got:
		want := capturedVitals{7, "cave", -2, 35, 12, false, true}
		if got != want {
			t.Errorf("saved %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("vitals were never flushed")
	}
}

func TestNewPersistFunc_SkipsUnpersistedSessions(t *testing.T) {
	saver := &captureSaver{got: make(chan capturedVitals, 1)}
	persist := gameserver.NewPersistFunc(saver, zaptest.NewLogger(t))

	persist(&player.Session{UID: "a", Name: "Guest"}) // CharacterID zero

	select {
	case got := <-saver.got:
		t.Errorf("unexpected save %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}
