package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCacheSetGet(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v", data, ok, err)
	}
	if string(data) != "v" {
		t.Errorf("Get() = %q, want %q", data, "v")
	}
}

func TestFileCacheMiss(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("Get() reported a hit for a missing key")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry still returned")
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"), 0)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("deleted entry still returned")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key should not error: %v", err)
	}
}

func TestFileCacheWeirdKeys(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()

	ctx := context.Background()
	key := "layout:../..\\evil/😈 key"
	if err := c.Set(ctx, key, []byte("ok"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if data, ok, _ := c.Get(ctx, key); !ok || string(data) != "ok" {
		t.Errorf("Get() = %q, %v", data, ok)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("null cache should never hit")
	}
}

func TestLayoutKeyStable(t *testing.T) {
	type opts struct{ Sweeps int }

	a := LayoutKey("abc", opts{24})
	b := LayoutKey("abc", opts{24})
	if a != b {
		t.Error("identical inputs produced different keys")
	}
	if c := LayoutKey("abc", opts{12}); c == a {
		t.Error("different options produced the same key")
	}
	if d := LayoutKey("def", opts{24}); d == a {
		t.Error("different graph hashes produced the same key")
	}
}

func TestScopedKeyerPrefixes(t *testing.T) {
	type opts struct{ Sweeps int }

	base := NewDefaultKeyer().LayoutKey("abc", opts{24})
	scoped := NewScopedKeyer(nil, "tenant-a:").LayoutKey("abc", opts{24})

	if scoped != "tenant-a:"+base {
		t.Errorf("scoped key = %q, want %q", scoped, "tenant-a:"+base)
	}

	other := NewScopedKeyer(nil, "tenant-b:").LayoutKey("abc", opts{24})
	if scoped == other {
		t.Error("different prefixes produced the same key")
	}
}

func TestScopedKeyerNests(t *testing.T) {
	inner := NewScopedKeyer(nil, "staging:")
	outer := NewScopedKeyer(inner, "eu:")

	key := outer.LayoutKey("abc", nil)
	want := "eu:staging:" + NewDefaultKeyer().LayoutKey("abc", nil)
	if key != want {
		t.Errorf("nested key = %q, want %q", key, want)
	}
}

func TestLayoutKeyMatchesDefaultKeyer(t *testing.T) {
	if LayoutKey("abc", 7) != NewDefaultKeyer().LayoutKey("abc", 7) {
		t.Error("package-level LayoutKey diverged from the default keyer")
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("layered"))
	if len(h) != 64 {
		t.Errorf("Hash() length = %d, want 64 hex chars", len(h))
	}
	if h == Hash([]byte("other")) {
		t.Error("different inputs produced the same hash")
	}
}
