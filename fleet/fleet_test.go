package fleet

import (
	"testing"
)

const scheldtLen = 6

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		wind     float64
		speed    float64
		status   string
	}{
		{"calm container", Container, 0, 1, StatusMoving},
		{"calm barge", Barge, 10, 1, StatusMoving},
		{"slow threshold is strict", Tanker, 30, 1, StatusMoving},
		{"just above slow threshold", Tanker, 30.01, 0.5, StatusSlow},
		{"medium wind barge", Barge, 35, 0.5, StatusSlow},
		{"halt threshold is strict", Barge, 45, 0.5, StatusSlow},
		{"barge above 45 halts", Barge, 45.01, 0, StatusHalted},
		{"barge in a storm", Barge, 120, 0, StatusHalted},
		// only barges have a hard stop; other categories stay at the slow rule
		{"container above 45", Container, 50, 0.5, StatusSlow},
		{"tanker above 45", Tanker, 80, 0.5, StatusSlow},
		{"unknown category calm", Category("Ferry"), 5, 1, StatusMoving},
		{"unknown category storm", Category("Ferry"), 60, 0.5, StatusSlow},
		{"empty category", Category(""), 40, 0.5, StatusSlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Classify(tt.category, tt.wind)
			if m.Speed != tt.speed || m.Status != tt.status {
				t.Errorf("Classify(%s, %f) = (%f, %s); want (%f, %s)", tt.category, tt.wind, m.Speed, m.Status, tt.speed, tt.status)
			}
		})
	}
}

func TestRulesOrder(t *testing.T) {
	rs := Rules()
	if len(rs) != 3 {
		t.Fatalf("len(Rules()) = (%d); want (3)", len(rs))
	}
	want := []string{"barge-halt", "slow", "moving"}
	for i, r := range rs {
		if r.Name != want[i] {
			t.Errorf("Rules()[%d] = (%s); want (%s)", i, r.Name, want[i])
		}
	}

	rs[0].Speed = 42
	if Rules()[0].Speed != 0 {
		t.Errorf("Rules() exposes the internal table")
	}
}

func TestLevelOf(t *testing.T) {
	if LevelOf(StatusHalted) != LevelRed || LevelOf(StatusSlow) != LevelYellow || LevelOf(StatusMoving) != LevelGreen {
		t.Errorf("LevelOf() does not follow the rule table")
	}
	if LevelOf("") != "" {
		t.Errorf("LevelOf(\"\") = (%s); want ()", LevelOf(""))
	}
}

func TestAdvanceAllMovingInCalm(t *testing.T) {
	for _, wind := range []float64{0, 10, 25, 30} {
		ships := []Ship{
			{Name: "a", Category: Container, Progress: 0},
			{Name: "b", Category: Barge, Progress: 1},
			{Name: "c", Category: Tanker, Progress: 2},
		}
		Advance(ships, wind, scheldtLen)
		for i, s := range ships {
			if s.Status != StatusMoving || s.Progress != float64(i)+1 {
				t.Errorf("wind %f: %s = (%f, %s); want (%f, %s)", wind, s.Name, s.Progress, s.Status, float64(i)+1, StatusMoving)
			}
		}
	}
}

func TestAdvanceMediumWindSlowsEveryone(t *testing.T) {
	for _, wind := range []float64{30.5, 40, 45} {
		ships := Seed()
		Advance(ships, wind, scheldtLen)
		for i, s := range ships {
			want := Seed()[i].Progress + 0.5
			if s.Status != StatusSlow || s.Progress != want {
				t.Errorf("wind %f: %s = (%f, %s); want (%f, %s)", wind, s.Name, s.Progress, s.Status, want, StatusSlow)
			}
		}
	}
}

func TestAdvanceHighWind(t *testing.T) {
	ships := Seed()
	Advance(ships, 46, scheldtLen)

	if ships[0].Status != StatusSlow || ships[0].Progress != 0.5 {
		t.Errorf("container = (%f, %s); want (0.5, %s)", ships[0].Progress, ships[0].Status, StatusSlow)
	}
	if ships[1].Status != StatusHalted || ships[1].Progress != 1 {
		t.Errorf("barge = (%f, %s); want (1, %s)", ships[1].Progress, ships[1].Status, StatusHalted)
	}
	if ships[2].Status != StatusSlow || ships[2].Progress != 2.5 {
		t.Errorf("tanker = (%f, %s); want (2.5, %s)", ships[2].Progress, ships[2].Status, StatusSlow)
	}
}

func TestAdvanceScenarios(t *testing.T) {
	tests := []struct {
		name     string
		wind     float64
		ship     Ship
		progress float64
		status   string
	}{
		{"halted barge stays put", 50, Ship{Category: Barge, Progress: 0}, 0, StatusHalted},
		{"tanker slows", 35, Ship{Category: Tanker, Progress: 2}, 2.5, StatusSlow},
		{"container reaches the lock and wraps", 10, Ship{Category: Container, Progress: 4}, 0, StatusMoving},
		{"wrap from a fractional progress", 10, Ship{Category: Container, Progress: 4.5}, 0, StatusMoving},
		{"slow ship lands exactly on the lock and wraps", 35, Ship{Category: Tanker, Progress: 4.5}, 0, StatusSlow},
		{"slow ship short of the lock", 35, Ship{Category: Tanker, Progress: 4}, 4.5, StatusSlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ships := []Ship{tt.ship}
			Advance(ships, tt.wind, scheldtLen)
			if ships[0].Progress != tt.progress || ships[0].Status != tt.status {
				t.Errorf("Advance(%v, %f) = (%f, %s); want (%f, %s)", tt.ship, tt.wind, ships[0].Progress, ships[0].Status, tt.progress, tt.status)
			}
		})
	}
}

func TestAdvanceIsCyclic(t *testing.T) {
	ships := []Ship{{Name: "a", Category: Container}}
	want := []float64{1, 2, 3, 4, 0, 1, 2, 3, 4, 0}
	for i, w := range want {
		Advance(ships, 0, scheldtLen)
		if ships[0].Progress != w {
			t.Fatalf("step %d: progress = (%f); want (%f)", i+1, ships[0].Progress, w)
		}
	}
}

func TestAdvanceEmpty(t *testing.T) {
	Advance(nil, 50, scheldtLen)
	Advance([]Ship{}, -3, scheldtLen)
}

func TestStateStep(t *testing.T) {
	seed := Seed()
	s := NewState(seed)

	halted := s.Step(scheldtLen, 50)
	if s.Hour != 1 || s.Wind != 50 {
		t.Errorf("after Step: hour=%d wind=%f; want hour=1 wind=50", s.Hour, s.Wind)
	}
	if len(halted) != 1 || halted[0].Name != "Barge Albert" {
		t.Errorf("Step(50) halted = (%v); want (Barge Albert)", halted)
	}
	if seed[0].Progress != 0 {
		t.Errorf("NewState shares the seed slice")
	}

	// still halted: not reported again
	halted = s.Step(scheldtLen, 50)
	if len(halted) != 0 {
		t.Errorf("second Step(50) halted = (%v); want none", halted)
	}

	s.Step(scheldtLen, 10)
	halted = s.Step(scheldtLen, 60)
	if len(halted) != 1 {
		t.Errorf("Step(60) after calm halted = (%v); want (Barge Albert)", halted)
	}
	if s.Hour != 4 {
		t.Errorf("Hour = (%d); want (4)", s.Hour)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := NewState(Seed())
	snap := s.Snapshot()
	s.Step(scheldtLen, 0)
	if snap.Ships[0].Progress != 0 || snap.Hour != 0 {
		t.Errorf("Snapshot changed after Step: %v", snap)
	}
}
