package fleet

// State is the simulation owned by a single session.
type State struct {
	Hour  int     `json:"hour"`
	Wind  float64 `json:"wind"`
	Ships []Ship  `json:"ships"`
}

func NewState(ships []Ship) *State {
	s := make([]Ship, len(ships))
	copy(s, ships)
	return &State{Ships: s}
}

// Step advances the simulation one hour and returns the ships that became
// halted on this step.
func (s *State) Step(pathLen int, windSpeed float64) []Ship {
	before := make([]string, len(s.Ships))
	for i, sh := range s.Ships {
		before[i] = sh.Status
	}

	Advance(s.Ships, windSpeed, pathLen)
	s.Hour++
	s.Wind = windSpeed

	var halted []Ship
	for i, sh := range s.Ships {
		if sh.Status == StatusHalted && before[i] != StatusHalted {
			halted = append(halted, sh)
		}
	}
	return halted
}

// Snapshot returns a deep copy safe to hand to other goroutines.
func (s *State) Snapshot() State {
	ships := make([]Ship, len(s.Ships))
	copy(ships, s.Ships)
	return State{Hour: s.Hour, Wind: s.Wind, Ships: ships}
}
