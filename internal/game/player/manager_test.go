package player

import "testing"

func addTestPlayer(t *testing.T, m *Manager, uid, name, room string) *Session {
	t.Helper()
	sess, err := m.AddPlayer(uid, name, 1, room, 100, 100)
	if err != nil {
		t.Fatalf("AddPlayer(%s): %v", uid, err)
	}
	return sess
}

func TestAddPlayer(t *testing.T) {
	m := NewManager()
	sess := addTestPlayer(t, m, "u1", "Alice", "square")

	if sess.UID != "u1" || sess.Name != "Alice" || sess.RoomID != "square" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if sess.Conn == nil || sess.Conn.IsClosed() {
		t.Error("expected an open connection handle")
	}
	if m.Count() != 1 {
		t.Errorf("count = %d, want 1", m.Count())
	}
}

func TestAddPlayer_Duplicate(t *testing.T) {
	m := NewManager()
	addTestPlayer(t, m, "u1", "Alice", "square")
	if _, err := m.AddPlayer("u1", "Alice2", 2, "square", 50, 50); err == nil {
		t.Fatal("expected duplicate UID error")
	}
}

func TestRemovePlayer(t *testing.T) {
	m := NewManager()
	sess := addTestPlayer(t, m, "u1", "Alice", "square")

	if err := m.RemovePlayer("u1"); err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	if !sess.Conn.IsClosed() {
		t.Error("removal must close the connection")
	}
	if len(m.UIDsInRoom("square")) != 0 {
		t.Error("room occupancy should be empty")
	}
	if err := m.RemovePlayer("u1"); err == nil {
		t.Error("expected error removing twice")
	}
}

func TestMovePlayer(t *testing.T) {
	m := NewManager()
	addTestPlayer(t, m, "u1", "Alice", "square")

	old, err := m.MovePlayer("u1", "alley")
	if err != nil {
		t.Fatalf("MovePlayer: %v", err)
	}
	if old != "square" {
		t.Errorf("old room = %q, want square", old)
	}
	if uids := m.UIDsInRoom("alley"); len(uids) != 1 || uids[0] != "u1" {
		t.Errorf("alley occupants = %v", uids)
	}
	if len(m.UIDsInRoom("square")) != 0 {
		t.Error("square should be empty")
	}
}

func TestReplaceConn(t *testing.T) {
	m := NewManager()
	sess := addTestPlayer(t, m, "u1", "Alice", "square")
	oldConn := sess.Conn

	newConn, err := m.ReplaceConn("u1")
	if err != nil {
		t.Fatalf("ReplaceConn: %v", err)
	}
	if newConn == oldConn {
		t.Fatal("expected a fresh connection handle")
	}
	if !oldConn.IsClosed() {
		t.Error("old connection must be closed")
	}
	if sess.Conn != newConn || newConn.IsClosed() {
		t.Error("session should hold the new open connection")
	}

	if _, err := m.ReplaceConn("ghost"); err == nil {
		t.Error("expected error for unknown player")
	}
}

func TestConn_PushAndClose(t *testing.T) {
	c := NewConn("u1", 2)
	if err := c.Push([]byte("hello")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if got := <-c.Events(); string(got) != "hello" {
		t.Errorf("event = %q, want hello", got)
	}

	_ = c.Close()
	if err := c.Push([]byte("late")); err == nil {
		t.Error("push after close should fail")
	}
	// Close is idempotent.
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestConn_BufferFull(t *testing.T) {
	c := NewConn("u1", 1)
	if err := c.Push([]byte("a")); err != nil {
		t.Fatalf("first push: %v", err)
	}
	if err := c.Push([]byte("b")); err == nil {
		t.Error("expected buffer-full error")
	}
}

func TestNamesInRoom(t *testing.T) {
	m := NewManager()
	addTestPlayer(t, m, "u1", "Alice", "square")
	addTestPlayer(t, m, "u2", "Bob", "square")

	names := m.NamesInRoom("square")
	if len(names) != 2 {
		t.Errorf("names = %v, want 2", names)
	}
	if _, ok := m.GetByName("Bob"); !ok {
		t.Error("expected Bob by name")
	}
}

func TestTakeInventory(t *testing.T) {
	m := NewManager()
	sess := addTestPlayer(t, m, "u1", "Alice", "square")
	sess.Currency = 42
	sess.Inventory = append(sess.Inventory, itemFixture("sword"))

	items, coins := sess.TakeInventory()
	if len(items) != 1 || coins != 42 {
		t.Errorf("took %v / %d coins", items, coins)
	}
	if len(sess.Inventory) != 0 || sess.Currency != 0 {
		t.Error("session should be emptied")
	}
}
