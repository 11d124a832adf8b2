package gameserver_test

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/ellyseum/LEmud-sub002/internal/game/player"
	"github.com/ellyseum/LEmud-sub002/internal/gameserver"
)

func drain(c *player.Conn) []string {
	var out []string
	for {
		select {
		case msg := <-c.Events():
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestBroadcaster_ExcludesOnePlayer(t *testing.T) {
	pm := player.NewManager()
	alice, err := pm.AddPlayer("a", "Alice", 1, "square", 100, 100)
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	bob, err := pm.AddPlayer("b", "Bob", 2, "square", 100, 100)
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}

	b := gameserver.NewBroadcaster(pm, zaptest.NewLogger(t))
	b.Broadcast("square", "A cat yowls.", "a")

	if got := drain(alice.Conn); len(got) != 0 {
		t.Errorf("excluded player got %v", got)
	}
	if got := drain(bob.Conn); len(got) != 1 || got[0] != "A cat yowls." {
		t.Errorf("bob got %v, want the broadcast", got)
	}
}

func TestBroadcaster_SendToClosedConnIsDropped(t *testing.T) {
	pm := player.NewManager()
	alice, err := pm.AddPlayer("a", "Alice", 1, "square", 100, 100)
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	_ = alice.Conn.Close()

	b := gameserver.NewBroadcaster(pm, zaptest.NewLogger(t))
	// Must not panic or block.
	b.Send(alice.Conn, "hello?")
	b.Broadcast("square", "anyone?", "")
}
