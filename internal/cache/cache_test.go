package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

type advice struct {
	PlayerID string `json:"playerId"`
	MaxBid   int    `json:"maxBid"`
}

func TestKey(t *testing.T) {
	if got := Key("bid", 7, "nba-001", "12"); got != "advice:bid:v7:nba-001:12" {
		t.Errorf("unexpected key %q", got)
	}
	if got := Key("budget", 0); got != "advice:budget:v0" {
		t.Errorf("unexpected key %q", got)
	}
}

func caches(t *testing.T) map[string]AdviceCache {
	t.Helper()
	out := map[string]AdviceCache{"memory": NewMemoryAdviceCache(time.Minute)}
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		rc, err := NewRedisAdviceCache(context.Background(), RedisConfig{
			Addr:      addr,
			Namespace: "test-" + uuid.NewString(),
			TTL:       time.Minute,
		})
		if err != nil {
			t.Fatalf("NewRedisAdviceCache() failed: %v", err)
		}
		out["redis"] = rc
	}
	return out
}

func TestAdviceCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			var got advice
			found, err := c.Get(ctx, Key("bid", 1, "nba-001"), &got)
			if err != nil || found {
				t.Fatalf("expected a clean miss, got found=%v err=%v", found, err)
			}

			want := advice{PlayerID: "nba-001", MaxBid: 63}
			if err := c.Set(ctx, Key("bid", 1, "nba-001"), want); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			found, err = c.Get(ctx, Key("bid", 1, "nba-001"), &got)
			if err != nil || !found {
				t.Fatalf("expected a hit, got found=%v err=%v", found, err)
			}
			if got != want {
				t.Errorf("expected %+v, got %+v", want, got)
			}

			found, _ = c.Get(ctx, Key("bid", 2, "nba-001"), &got)
			if found {
				t.Error("a newer version must miss")
			}
		})
	}
}

func TestMemoryAdviceCacheExpires(t *testing.T) {
	c := NewMemoryAdviceCache(time.Minute)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	if err := c.Set(context.Background(), "k", advice{MaxBid: 1}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)

	var got advice
	if found, _ := c.Get(context.Background(), "k", &got); found {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Error("expired entry should be dropped on read")
	}
}

func TestMemoryAdviceCacheBounded(t *testing.T) {
	c := NewMemoryAdviceCache(time.Hour)
	for i := 0; i < memoryMaxEntries+10; i++ {
		if err := c.Set(context.Background(), Key("bid", i), i); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() > memoryMaxEntries {
		t.Errorf("cache grew past %d entries: %d", memoryMaxEntries, c.Len())
	}
}
