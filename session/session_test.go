package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/a-bouts/river-twin/fleet"
	"github.com/a-bouts/river-twin/scenario"
)

func TestCreateAndGet(t *testing.T) {
	st := NewStore(scenario.Default())

	id, state := st.Create()
	if id == "" {
		t.Fatal("Create() returned an empty id")
	}
	if len(state.Ships) != 3 || state.Hour != 0 {
		t.Errorf("Create() = (%v); want the seed fleet at hour 0", state)
	}

	got, err := st.Get(id)
	if err != nil {
		t.Fatalf("Get(%s) = (%v); want (nil)", id, err)
	}
	if got.Ships[2].Name != "Tanker One" {
		t.Errorf("Get().Ships[2] = (%s); want (Tanker One)", got.Ships[2].Name)
	}

	if _, err := st.Get("unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) = (%v); want (%v)", err, ErrNotFound)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	st := NewStore(scenario.Default())
	a, _ := st.Create()
	b, _ := st.Create()

	if _, _, err := st.Step(a, 10); err != nil {
		t.Fatalf("Step() = (%v); want (nil)", err)
	}

	sa, _ := st.Get(a)
	sb, _ := st.Get(b)
	if sa.Hour != 1 || sa.Ships[0].Progress != 1 {
		t.Errorf("session a = (%v); want hour 1", sa)
	}
	if sb.Hour != 0 || sb.Ships[0].Progress != 0 {
		t.Errorf("session b = (%v); want untouched", sb)
	}
}

func TestStep(t *testing.T) {
	st := NewStore(scenario.Default())
	id, _ := st.Create()

	state, halted, err := st.Step(id, 50)
	if err != nil {
		t.Fatalf("Step() = (%v); want (nil)", err)
	}
	if len(halted) != 1 || halted[0].Category != fleet.Barge {
		t.Errorf("Step(50) halted = (%v); want the barge", halted)
	}
	if state.Ships[1].Progress != 1 || state.Ships[1].Status != fleet.StatusHalted {
		t.Errorf("barge = (%v); want halted at 1", state.Ships[1])
	}

	if _, _, err := st.Step("unknown", 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("Step(unknown) = (%v); want (%v)", err, ErrNotFound)
	}
}

func TestConcurrentSteps(t *testing.T) {
	st := NewStore(scenario.Default())
	id, _ := st.Create()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Step(id, 0)
		}()
	}
	wg.Wait()

	state, _ := st.Get(id)
	if state.Hour != 20 {
		t.Errorf("Hour = (%d); want (20)", state.Hour)
	}
}

func TestDelete(t *testing.T) {
	st := NewStore(scenario.Default())
	id, _ := st.Create()

	if err := st.Delete(id); err != nil {
		t.Errorf("Delete() = (%v); want (nil)", err)
	}
	if err := st.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice = (%v); want (%v)", err, ErrNotFound)
	}
	if st.Len() != 0 {
		t.Errorf("Len() = (%d); want (0)", st.Len())
	}
}

func TestSweep(t *testing.T) {
	st := NewStore(scenario.Default())
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	old, _ := st.Create()
	now = now.Add(2 * time.Hour)
	fresh, _ := st.Create()

	if removed := st.Sweep(time.Hour); removed != 1 {
		t.Errorf("Sweep() = (%d); want (1)", removed)
	}
	if _, err := st.Get(old); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(old) = (%v); want (%v)", err, ErrNotFound)
	}
	if _, err := st.Get(fresh); err != nil {
		t.Errorf("Get(fresh) = (%v); want (nil)", err)
	}
}
