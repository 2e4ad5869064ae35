package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSetGetDelete(t *testing.T) {
	st := openTestStore(t)

	if _, ok, err := st.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want miss", ok, err)
	}

	if err := st.Set("k", "v1"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if v, ok, _ := st.Get("k"); !ok || v != "v1" {
		t.Fatalf("Get(k) = %q, %v", v, ok)
	}

	// Set replaces atomically per key.
	if err := st.Set("k", "v2"); err != nil {
		t.Fatalf("Set() overwrite error: %v", err)
	}
	if v, _, _ := st.Get("k"); v != "v2" {
		t.Fatalf("Get(k) after overwrite = %q", v)
	}

	if err := st.Delete("k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := st.Get("k"); ok {
		t.Fatal("key survived Delete")
	}

	// Deleting an absent key is not an error.
	if err := st.Delete("k"); err != nil {
		t.Fatalf("Delete(absent) error: %v", err)
	}
}

func TestKeysPrefix(t *testing.T) {
	st := openTestStore(t)

	for _, k := range []string{"listing:movies", "listing:tv", "watch:movie:1:0:0", "listing:manual:x"} {
		if err := st.Set(k, "v"); err != nil {
			t.Fatalf("Set(%q) error: %v", k, err)
		}
	}

	keys, err := st.Keys("listing:")
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("Keys(listing:) = %v, want 3 keys", keys)
	}

	keys, err = st.Keys("watch:")
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	if len(keys) != 1 || keys[0] != "watch:movie:1:0:0" {
		t.Fatalf("Keys(watch:) = %v", keys)
	}
}

func TestKeysPrefixEscapesLikeMetacharacters(t *testing.T) {
	st := openTestStore(t)

	st.Set("a_b", "v")
	st.Set("axb", "v")
	st.Set("a%b", "v")

	keys, err := st.Keys("a_")
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	if len(keys) != 1 || keys[0] != "a_b" {
		t.Fatalf("Keys(a_) = %v, underscore must be literal", keys)
	}

	keys, _ = st.Keys("a%")
	if len(keys) != 1 || keys[0] != "a%b" {
		t.Fatalf("Keys(a%%) = %v, percent must be literal", keys)
	}
}
