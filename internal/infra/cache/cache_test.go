package cache

import (
	"context"
	"testing"
	"time"
)

func TestKeyDistinguishesArgumentBoundaries(t *testing.T) {
	a := Key("ShowAllCandidates", []string{"ab", "c"})
	b := Key("ShowAllCandidates", []string{"a", "bc"})
	if a == b {
		t.Fatalf("keys collide: %s", a)
	}
	if Key("ShowAllCandidates", []string{"e1"}) != Key("ShowAllCandidates", []string{"e1"}) {
		t.Fatalf("key not deterministic")
	}
	if Key("CalculateResult", []string{"e1"}) == Key("ShowAllCandidates", []string{"e1"}) {
		t.Fatalf("transaction name not part of key")
	}
	if len(a) > 250 {
		t.Fatalf("key too long for memcached: %d", len(a))
	}
}

func TestMemoryQueryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryQueryCache(time.Minute)

	if _, ok := c.Get(ctx, "SayHello", nil); ok {
		t.Fatalf("expected miss")
	}

	c.Set(ctx, "SayHello", nil, []byte(`{"Value":"Hello World!"}`))
	got, ok := c.Get(ctx, "SayHello", nil)
	if !ok || string(got) != `{"Value":"Hello World!"}` {
		t.Fatalf("expected hit got %s %v", got, ok)
	}

	c.Flush(ctx)
	if _, ok := c.Get(ctx, "SayHello", nil); ok {
		t.Fatalf("expected miss after flush")
	}
}

func TestMemoryQueryCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryQueryCache(10 * time.Millisecond)
	c.Set(ctx, "CalculateResult", []string{"e1"}, []byte("[]"))
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get(ctx, "CalculateResult", []string{"e1"}); ok {
		t.Fatalf("expected entry to expire")
	}
}
