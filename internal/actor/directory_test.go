package actor

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"claque/internal/core"
	"claque/internal/overlay"
)

func newTestDirectory(seed uint32, size int, clock core.Clock) *Directory {
	return New(seed, DefaultConfig(size), overlay.NewMemoryStore(), clock, nil)
}

func TestActorAtDeterministic(t *testing.T) {
	a := newTestDirectory(4000, 500, nil)
	b := newTestDirectory(4000, 500, nil)
	for _, idx := range []int{0, 1, 37, 250, 499} {
		x, err := a.ActorAt(idx)
		if err != nil {
			t.Fatalf("ActorAt(%d): %v", idx, err)
		}
		y, err := b.ActorAt(idx)
		if err != nil {
			t.Fatalf("ActorAt(%d): %v", idx, err)
		}
		if !reflect.DeepEqual(x, y) {
			t.Errorf("index %d differs across instances:\n%+v\n%+v", idx, x, y)
		}
	}
}

func TestActorAtDifferentSeeds(t *testing.T) {
	a := newTestDirectory(4000, 500, nil)
	b := newTestDirectory(4001, 500, nil)
	same := 0
	for i := 2; i < 100; i++ {
		x, _ := a.ActorAt(i)
		y, _ := b.ActorAt(i)
		if x.Name == y.Name {
			same++
		}
	}
	if same > 5 {
		t.Errorf("different seeds produced %d/98 identical names", same)
	}
}

func TestActorAtOutOfRange(t *testing.T) {
	d := newTestDirectory(1, 10, nil)
	for _, idx := range []int{-1, 10, 9999} {
		if _, err := d.ActorAt(idx); !errors.Is(err, ErrNotFound) {
			t.Errorf("ActorAt(%d) = %v, want ErrNotFound", idx, err)
		}
	}
}

func TestGeneratePopulationNamesUnique(t *testing.T) {
	d := newTestDirectory(4000, 2000, nil)
	pop := d.GeneratePopulation()
	if len(pop) != 2000 {
		t.Fatalf("population size = %d", len(pop))
	}
	seen := make(map[string]int)
	for _, a := range pop {
		seen[a.Name]++
	}
	for name, n := range seen {
		if n > 1 {
			t.Errorf("display name %q appears %d times", name, n)
		}
	}
}

func TestGeneratePopulationReproducible(t *testing.T) {
	a := newTestDirectory(77, 800, nil).GeneratePopulation()
	b := newTestDirectory(77, 800, nil).GeneratePopulation()
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Fatalf("resolved name at %d differs: %q vs %q", i, a[i].Name, b[i].Name)
		}
	}
}

func TestReservedStaffIndices(t *testing.T) {
	d := newTestDirectory(4000, 100, nil)
	admin, _ := d.ActorAt(0)
	mod, _ := d.ActorAt(1)
	if admin.Role != core.RoleAdmin {
		t.Errorf("index 0 role = %v, want admin", admin.Role)
	}
	if mod.Role != core.RoleModerator {
		t.Errorf("index 1 role = %v, want moderator", mod.Role)
	}
}

func TestRoleDistributionBounds(t *testing.T) {
	cfg := DefaultConfig(100000)
	cfg.ReserveStaff = false
	d := New(9, cfg, overlay.NewMemoryStore(), nil, nil)

	var admins, mods int
	for i := 0; i < cfg.PopulationSize; i++ {
		a, _ := d.ActorAt(i)
		switch a.Role {
		case core.RoleAdmin:
			admins++
		case core.RoleModerator:
			mods++
		}
	}
	adminFrac := float64(admins) / float64(cfg.PopulationSize)
	modFrac := float64(mods) / float64(cfg.PopulationSize)
	if adminFrac < cfg.AdminWeight*0.8 || adminFrac > cfg.AdminWeight*1.2 {
		t.Errorf("admin fraction %v outside ±20%% of %v", adminFrac, cfg.AdminWeight)
	}
	if modFrac < cfg.ModeratorWeight*0.8 || modFrac > cfg.ModeratorWeight*1.2 {
		t.Errorf("moderator fraction %v outside ±20%% of %v", modFrac, cfg.ModeratorWeight)
	}
	if admins >= mods {
		t.Errorf("expected admins (%d) rarer than moderators (%d)", admins, mods)
	}
}

func TestProfileIgnoresOverlay(t *testing.T) {
	clock := core.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	d := newTestDirectory(4000, 50, clock)
	before := d.Profile(3)

	d.SetFatigue(before.ID, 0.9, clock.Now())
	after := d.Profile(3)
	if !reflect.DeepEqual(before, after) {
		t.Error("Profile should be pure; overlay writes leaked into it")
	}

	stamped, _ := d.ActorAt(3)
	if stamped.Fatigue != 0.9 {
		t.Errorf("ActorAt should stamp fatigue, got %v", stamped.Fatigue)
	}
}

func TestFatigueRecovery(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := core.NewFakeClock(start)
	cfg := DefaultConfig(10)
	cfg.FatigueRecoveryPerHour = 0.5
	d := New(1, cfg, overlay.NewMemoryStore(), clock, nil)

	d.SetFatigue("actor-00001", 1.0, clock.Now())
	if got := d.Fatigue("actor-00001", clock.Now()); got != 1.0 {
		t.Errorf("fresh fatigue = %v, want 1.0", got)
	}

	if got := d.Fatigue("actor-00001", start.Add(time.Hour)); got != 0.5 {
		t.Errorf("after 1h = %v, want 0.5", got)
	}
	if got := d.Fatigue("actor-00001", start.Add(3*time.Hour)); got != 0 {
		t.Errorf("after 3h = %v, want 0 (clamped)", got)
	}
}

func TestAddFatigueAccumulates(t *testing.T) {
	clock := core.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	d := newTestDirectory(1, 10, clock)

	now := clock.Now()
	d.AddFatigue("actor-00002", 0.3, now)
	d.AddFatigue("actor-00002", 0.3, now)
	// No elapsed time between sends, so no recovery applies.
	if got := d.Fatigue("actor-00002", now); got != 0.6 {
		t.Errorf("fatigue = %v, want 0.6", got)
	}

	d.AddFatigue("actor-00002", 0.9, now)
	if got := d.Fatigue("actor-00002", now); got != 1.0 {
		t.Errorf("fatigue should clamp at 1.0, got %v", got)
	}
}

func TestFatiguePersistsAcrossDirectories(t *testing.T) {
	store := overlay.NewMemoryStore()
	clock := core.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cfg := DefaultConfig(10)

	d1 := New(1, cfg, store, clock, nil)
	d1.SetFatigue("actor-00004", 0.8, clock.Now())

	d2 := New(1, cfg, store, clock, nil)
	if got := d2.Fatigue("actor-00004", clock.Now()); got != 0.8 {
		t.Errorf("fatigue did not survive a restart: %v", got)
	}
}

type failingStore struct{}

func (failingStore) Load() (map[string]overlay.Entry, error) {
	return nil, errors.New("disk on fire")
}
func (failingStore) Put(string, overlay.Entry) error { return errors.New("disk on fire") }
func (failingStore) Close() error                    { return nil }

func TestBrokenStoreIsNotFatal(t *testing.T) {
	d := New(1, DefaultConfig(10), failingStore{}, nil, nil)
	now := time.Now()
	// Reads degrade to zero fatigue, writes are logged and dropped.
	if got := d.Fatigue("actor-00001", now); got != 0 {
		t.Errorf("fatigue from broken store = %v, want 0", got)
	}
	d.SetFatigue("actor-00001", 0.5, now)
	if got := d.Fatigue("actor-00001", now); got != 0.5 {
		t.Errorf("in-memory fatigue should still work: %v", got)
	}
}

func TestMarkActive(t *testing.T) {
	clock := core.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	d := newTestDirectory(1, 10, clock)
	if !d.LastActive("actor-00001").IsZero() {
		t.Error("never-active actor should report zero time")
	}
	d.MarkActive("actor-00001", clock.Now())
	a, _ := d.ActorAt(1)
	if !a.LastActive.Equal(clock.Now()) {
		t.Errorf("LastActive not stamped: %v", a.LastActive)
	}
}
