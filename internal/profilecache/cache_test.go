package profilecache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

func testExtraction(t *testing.T) *contour.Extraction {
	t.Helper()
	c, err := contour.Fallback(45, 7.2)
	if err != nil {
		t.Fatalf("Fallback failed: %v", err)
	}
	return &contour.Extraction{Contour: c, Threshold: 150}
}

func TestNew_InvalidSize(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("expected error for size 0")
	}
}

func TestGet_MissThenHit(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	key := Key{Source: "/photos/a.png", LengthMm: 45, MaxDiaMm: 7.2}
	want := testExtraction(t)
	calls := 0
	compute := func() (*contour.Extraction, error) {
		calls++
		return want, nil
	}

	got, cached, err := c.Get(key, compute)
	if err != nil || cached || got != want {
		t.Fatalf("first Get: got %v cached=%v err=%v", got, cached, err)
	}
	got, cached, err = c.Get(key, compute)
	if err != nil || !cached || got != want {
		t.Fatalf("second Get: got %v cached=%v err=%v", got, cached, err)
	}
	if calls != 1 {
		t.Errorf("compute calls: got %d, want 1", calls)
	}
}

func TestGet_MeasurementsArePartOfKey(t *testing.T) {
	c, _ := New(4)
	calls := 0
	compute := func() (*contour.Extraction, error) {
		calls++
		return testExtraction(t), nil
	}

	c.Get(Key{Source: "a", LengthMm: 45, MaxDiaMm: 7.2}, compute)
	c.Get(Key{Source: "a", LengthMm: 50, MaxDiaMm: 7.2}, compute)
	if calls != 2 {
		t.Errorf("compute calls: got %d, want 2", calls)
	}
}

func TestGet_UnavailableIsCached(t *testing.T) {
	c, _ := New(4)
	key := Key{Source: "blank.png", LengthMm: 45, MaxDiaMm: 7.2}
	calls := 0
	compute := func() (*contour.Extraction, error) {
		calls++
		return nil, fmt.Errorf("tracing: %w", contour.ErrNoRegionFound)
	}

	for i := 0; i < 3; i++ {
		got, _, err := c.Get(key, compute)
		if got != nil {
			t.Errorf("call %d: expected nil extraction", i)
		}
		if !errors.Is(err, contour.ErrNoRegionFound) {
			t.Errorf("call %d: expected ErrNoRegionFound, got %v", i, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute calls: got %d, want 1", calls)
	}
}

func TestGet_OtherErrorsNotCached(t *testing.T) {
	c, _ := New(4)
	key := Key{Source: "missing.png", LengthMm: 45, MaxDiaMm: 7.2}
	calls := 0
	compute := func() (*contour.Extraction, error) {
		calls++
		return nil, errors.New("failed to open image")
	}

	for i := 0; i < 2; i++ {
		if _, _, err := c.Get(key, compute); err == nil {
			t.Errorf("call %d: expected error", i)
		}
	}
	if calls != 2 {
		t.Errorf("compute calls: got %d, want 2", calls)
	}
	if c.Len() != 0 {
		t.Errorf("Len: got %d, want 0", c.Len())
	}
}

func TestGet_SingleFlight(t *testing.T) {
	c, _ := New(4)
	key := Key{Source: "shared.png", LengthMm: 45, MaxDiaMm: 7.2}
	want := testExtraction(t)
	var calls int32
	compute := func() (*contour.Extraction, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return want, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, _, err := c.Get(key, compute)
			if err != nil || got != want {
				t.Errorf("Get: got %v err=%v", got, err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("compute calls: got %d, want 1", n)
	}
}

func TestEvictAndClear(t *testing.T) {
	c, _ := New(8)
	compute := func() (*contour.Extraction, error) { return testExtraction(t), nil }

	c.Get(Key{Source: "a", LengthMm: 45, MaxDiaMm: 7}, compute)
	c.Get(Key{Source: "a", LengthMm: 50, MaxDiaMm: 7}, compute)
	c.Get(Key{Source: "b", LengthMm: 45, MaxDiaMm: 7}, compute)

	c.Evict("a")
	if c.Len() != 1 {
		t.Errorf("after Evict: Len %d, want 1", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("after Clear: Len %d, want 0", c.Len())
	}
}

func TestGet_Bounded(t *testing.T) {
	c, _ := New(2)
	compute := func() (*contour.Extraction, error) { return testExtraction(t), nil }

	for _, src := range []string{"a", "b", "c"} {
		c.Get(Key{Source: src, LengthMm: 45, MaxDiaMm: 7}, compute)
	}
	if c.Len() != 2 {
		t.Errorf("Len: got %d, want 2", c.Len())
	}
	if _, cached, _ := c.Get(Key{Source: "a", LengthMm: 45, MaxDiaMm: 7}, compute); cached {
		t.Error("least recently used entry should have been evicted")
	}
}
