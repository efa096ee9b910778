package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shekhar-gif/weather-dashboard/internal/models"
)

type fetcherStub struct {
	calls int
	err   error
}

func (f *fetcherStub) Fetch(ctx context.Context, city string) (*models.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.Snapshot{City: city, Temperature: float64(20 + f.calls)}, nil
}

func newTestCache(fetcher Fetcher, ttl time.Duration, maxEntries int) (*Cache, *time.Time) {
	c := New(fetcher, ttl, maxEntries)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestGetOrFetch_HitWithinTTL(t *testing.T) {
	fetcher := &fetcherStub{}
	c, now := newTestCache(fetcher, DefaultTTL, 0)

	first, err := c.GetOrFetch(context.Background(), "Delhi")
	if err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}

	*now = now.Add(599 * time.Second)
	second, err := c.GetOrFetch(context.Background(), "Delhi")
	if err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}

	if fetcher.calls != 1 {
		t.Errorf("fetcher calls = %d, want 1", fetcher.calls)
	}
	if first != second {
		t.Error("expected the identical cached snapshot within the TTL")
	}
}

func TestGetOrFetch_ExpiryTriggersRefetch(t *testing.T) {
	fetcher := &fetcherStub{}
	c, now := newTestCache(fetcher, DefaultTTL, 0)

	if _, err := c.GetOrFetch(context.Background(), "Delhi"); err != nil {
		t.Fatal(err)
	}

	*now = now.Add(600 * time.Second)
	if _, err := c.GetOrFetch(context.Background(), "Delhi"); err != nil {
		t.Fatal(err)
	}

	if fetcher.calls != 2 {
		t.Errorf("fetcher calls = %d, want 2 (entry expired at exactly the TTL)", fetcher.calls)
	}
}

func TestGetOrFetch_KeyNormalization(t *testing.T) {
	fetcher := &fetcherStub{}
	c, _ := newTestCache(fetcher, DefaultTTL, 0)

	if _, err := c.GetOrFetch(context.Background(), "Delhi"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetOrFetch(context.Background(), "  delhi "); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetOrFetch(context.Background(), "DELHI"); err != nil {
		t.Fatal(err)
	}

	if fetcher.calls != 1 {
		t.Errorf("fetcher calls = %d, want 1 (keys should normalize to one entry)", fetcher.calls)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestGetOrFetch_ErrorsAreCached(t *testing.T) {
	fetcher := &fetcherStub{err: errors.New("no matching location found")}
	c, now := newTestCache(fetcher, DefaultTTL, 0)

	_, err1 := c.GetOrFetch(context.Background(), "Atlantis")
	_, err2 := c.GetOrFetch(context.Background(), "Atlantis")

	if err1 == nil || err2 == nil {
		t.Fatal("expected cached error on both calls")
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher calls = %d, want 1 (error cached for the TTL)", fetcher.calls)
	}

	// The cached error expires like a success.
	*now = now.Add(601 * time.Second)
	fetcher.err = nil
	snap, err := c.GetOrFetch(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("GetOrFetch after expiry: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a fresh snapshot after the cached error expired")
	}
	if fetcher.calls != 2 {
		t.Errorf("fetcher calls = %d, want 2", fetcher.calls)
	}
}

func TestGetOrFetch_EvictsOldestAtBound(t *testing.T) {
	fetcher := &fetcherStub{}
	c, now := newTestCache(fetcher, DefaultTTL, 2)

	if _, err := c.GetOrFetch(context.Background(), "alpha"); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(time.Second)
	if _, err := c.GetOrFetch(context.Background(), "beta"); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(time.Second)
	if _, err := c.GetOrFetch(context.Background(), "gamma"); err != nil {
		t.Fatal(err)
	}

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	// alpha was fetched first, so it should be the evicted entry;
	// beta must still be served from cache.
	calls := fetcher.calls
	if _, err := c.GetOrFetch(context.Background(), "beta"); err != nil {
		t.Fatal(err)
	}
	if fetcher.calls != calls {
		t.Error("beta should have been a cache hit")
	}
	if _, err := c.GetOrFetch(context.Background(), "alpha"); err != nil {
		t.Fatal(err)
	}
	if fetcher.calls != calls+1 {
		t.Error("alpha should have been evicted and refetched")
	}
}

func TestGetOrFetch_RefreshDoesNotEvict(t *testing.T) {
	fetcher := &fetcherStub{}
	c, now := newTestCache(fetcher, time.Second, 2)

	if _, err := c.GetOrFetch(context.Background(), "alpha"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetOrFetch(context.Background(), "beta"); err != nil {
		t.Fatal(err)
	}

	// Refreshing an expired key replaces it in place at the bound.
	*now = now.Add(2 * time.Second)
	if _, err := c.GetOrFetch(context.Background(), "alpha"); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}
