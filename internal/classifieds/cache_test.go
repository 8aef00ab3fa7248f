package classifieds_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/internal/classifieds"
)

func TestResolve_Unknown(t *testing.T) {
	c := classifieds.NewCache()
	if _, ok := c.Resolve(uuid.New()); ok {
		t.Error("Resolve() of unregistered id reported ok")
	}
}

func TestConservation(t *testing.T) {
	c := classifieds.NewCache()
	id, creator := uuid.New(), uuid.New()

	const n = 5
	for i := 0; i < n; i++ {
		c.Register(id, creator)
	}
	if got := c.Interest(id); got != n {
		t.Fatalf("Interest() after %d registers = %d", n, got)
	}

	for m := 1; m <= n; m++ {
		got, ok := c.Resolve(id)
		if !ok || got != creator {
			t.Fatalf("Resolve() #%d = %v, %v; want %v, true", m, got, ok, creator)
		}
		if want := n - m; c.Interest(id) != want {
			t.Errorf("Interest() after %d resolves = %d, want %d", m, c.Interest(id), want)
		}
	}

	if c.Len() != 0 {
		t.Errorf("Len() after draining = %d, want 0", c.Len())
	}
	if _, ok := c.Resolve(id); ok {
		t.Error("Resolve() after draining reported ok")
	}
}

func TestRegister_KeepsFirstCreator(t *testing.T) {
	c := classifieds.NewCache()
	id, first, second := uuid.New(), uuid.New(), uuid.New()

	c.Register(id, first)
	c.Register(id, second)

	if got, _ := c.Resolve(id); got != first {
		t.Errorf("Resolve() = %v, want first creator %v", got, first)
	}
}

func TestListingThenFetchScenario(t *testing.T) {
	c := classifieds.NewCache()
	u := uuid.New()
	a, b, cc, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{a, b, cc} {
		c.Register(id, u)
	}

	if got, ok := c.Resolve(a); !ok || got != u {
		t.Fatalf("Resolve(A) = %v, %v", got, ok)
	}
	if _, ok := c.Resolve(a); ok {
		t.Error("second Resolve(A) should miss")
	}
	if got, ok := c.Resolve(b); !ok || got != u {
		t.Fatalf("Resolve(B) = %v, %v", got, ok)
	}
	if c.Interest(b) != 0 {
		t.Error("B should be gone after its only fetch")
	}
	if _, ok := c.Resolve(d); ok {
		t.Error("Resolve(D) of never-listed id should miss")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (only C left)", c.Len())
	}
}

func TestConcurrentRegisterResolve(t *testing.T) {
	c := classifieds.NewCache()
	id, creator := uuid.New(), uuid.New()

	const workers, per = 8, 200
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				c.Register(id, creator)
			}
		}()
	}
	wg.Wait()

	var hits sync.WaitGroup
	var mu sync.Mutex
	resolved := 0
	for w := 0; w < workers; w++ {
		hits.Add(1)
		go func() {
			defer hits.Done()
			// Each worker tries more than its share; extras must miss.
			for i := 0; i < per+10; i++ {
				if _, ok := c.Resolve(id); ok {
					mu.Lock()
					resolved++
					mu.Unlock()
				}
				if n := c.Interest(id); n < 0 {
					t.Errorf("Interest() went negative: %d", n)
				}
			}
		}()
	}
	hits.Wait()

	if resolved != workers*per {
		t.Errorf("resolved %d times, want exactly %d", resolved, workers*per)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}
