package monster

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemplate(t *testing.T, dir, file string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), data, 0644); err != nil {
		t.Fatalf("writing %s: %v", file, err)
	}
}

func TestTemplateStore_Get(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "cat.yaml", validTemplateYAML())

	store, err := NewTemplateStore(dir, time.Minute)
	if err != nil {
		t.Fatalf("NewTemplateStore: %v", err)
	}

	tmpl, ok := store.Get("cat")
	if !ok {
		t.Fatal("expected cat template")
	}
	if tmpl.MaxHealth != 20 {
		t.Errorf("max_health = %d, want 20", tmpl.MaxHealth)
	}

	// Lookup is case-insensitive.
	if _, ok := store.Get("CAT"); !ok {
		t.Error("expected case-insensitive lookup to succeed")
	}
	if _, ok := store.Get("dragon"); ok {
		t.Error("expected miss for unknown template")
	}
}

func TestTemplateStore_RefreshAfterTTL(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "cat.yaml", validTemplateYAML())

	store, err := NewTemplateStore(dir, time.Minute)
	if err != nil {
		t.Fatalf("NewTemplateStore: %v", err)
	}

	// External edit: the cat toughens up.
	writeTemplate(t, dir, "cat.yaml", []byte(`
id: cat
name: cat
max_health: 50
damage_min: 2
damage_max: 4
exp_value: 25
`))

	// Within the TTL the cached value is served.
	tmpl, _ := store.Get("cat")
	if tmpl.MaxHealth != 20 {
		t.Fatalf("expected cached max_health 20, got %d", tmpl.MaxHealth)
	}

	// Advance past the TTL; the edit is picked up.
	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	tmpl, ok := store.Get("cat")
	if !ok {
		t.Fatal("expected cat template after refresh")
	}
	if tmpl.MaxHealth != 50 {
		t.Errorf("max_health = %d after refresh, want 50", tmpl.MaxHealth)
	}
}

func TestTemplateStore_FailedRefreshKeepsCache(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "cat.yaml", validTemplateYAML())

	store, err := NewTemplateStore(dir, time.Minute)
	if err != nil {
		t.Fatalf("NewTemplateStore: %v", err)
	}

	writeTemplate(t, dir, "cat.yaml", []byte("{{broken"))
	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, ok := store.Get("cat"); !ok {
		t.Error("expected stale template to survive a failed refresh")
	}
}

func TestTemplateStore_DuplicateNameFails(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "cat.yaml", validTemplateYAML())
	writeTemplate(t, dir, "cat2.yaml", []byte(`
id: cat2
name: cat
max_health: 5
damage_min: 1
damage_max: 1
`))

	if _, err := NewTemplateStore(dir, time.Minute); err == nil {
		t.Fatal("expected error for duplicate template name")
	}
}
