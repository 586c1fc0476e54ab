package cli

import (
	"context"
	"io"
	"testing"
)

func TestParseBBox(t *testing.T) {
	lng1, lat1, lng2, lat2, err := parseBBox("6.7,45.7,7.1,46.0")
	if err != nil {
		t.Fatalf("parseBBox: %v", err)
	}
	if lng1 != 6.7 || lat1 != 45.7 || lng2 != 7.1 || lat2 != 46.0 {
		t.Errorf("parseBBox = %v,%v,%v,%v", lng1, lat1, lng2, lat2)
	}

	// Spaces after commas are tolerated.
	if _, _, _, _, err := parseBBox("6.7, 45.7, 7.1, 46.0"); err != nil {
		t.Errorf("parseBBox with spaces: %v", err)
	}

	for _, bad := range []string{"", "1,2,3", "1,2,3,4,5", "a,2,3,4"} {
		if _, _, _, _, err := parseBBox(bad); err == nil {
			t.Errorf("parseBBox(%q) should fail", bad)
		}
	}
}

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "ridgemap" {
		t.Errorf("root use = %q", root.Use)
	}

	want := map[string]bool{
		"generate":   false,
		"serve":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()

	// Null backends need no external services.
	if _, err := newCache(ctx, cacheSettings{noCache: true}); err != nil {
		t.Errorf("no-cache: %v", err)
	}
	if _, err := newCache(ctx, cacheSettings{backend: backendNone}); err != nil {
		t.Errorf("backend none: %v", err)
	}

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	store, err := newCache(ctx, cacheSettings{backend: backendFile})
	if err != nil {
		t.Fatalf("backend file: %v", err)
	}
	defer store.Close()

	// Shared backends require an address before touching the network.
	if _, err := newCache(ctx, cacheSettings{backend: backendRedis}); err == nil {
		t.Error("redis without --cache-addr should fail")
	}
	if _, err := newCache(ctx, cacheSettings{backend: backendMongo}); err == nil {
		t.Error("mongo without --cache-addr should fail")
	}
	if _, err := newCache(ctx, cacheSettings{backend: "memcached"}); err == nil {
		t.Error("unknown backend should fail")
	}
}
