package fleet

type Category string

const (
	Container Category = "Container"
	Barge     Category = "Barge"
	Tanker    Category = "Tanker"
)

const (
	StatusHalted = "HALTED (Wind)"
	StatusSlow   = "SLOW (Safety)"
	StatusMoving = "MOVING"
)

// Level is the severity of a status, used to colour markers.
type Level string

const (
	LevelRed    Level = "red"
	LevelYellow Level = "yellow"
	LevelGreen  Level = "green"
)

// Movement is the outcome of a rule: how far a ship moves in one step.
type Movement struct {
	Speed  float64 `json:"speed"`
	Status string  `json:"status"`
	Level  Level   `json:"level"`
}

type Rule struct {
	Name    string
	Matches func(c Category, windSpeed float64) bool
	Movement
}

// Thresholds are strict: a wind of exactly 30 or 45 km/h does not trigger
// the corresponding rule.
const (
	BargeHaltWind = 45.0
	SlowWind      = 30.0
)

var rules = []Rule{
	{
		Name: "barge-halt",
		Matches: func(c Category, windSpeed float64) bool {
			return c == Barge && windSpeed > BargeHaltWind
		},
		Movement: Movement{Speed: 0, Status: StatusHalted, Level: LevelRed},
	},
	{
		Name: "slow",
		Matches: func(_ Category, windSpeed float64) bool {
			return windSpeed > SlowWind
		},
		Movement: Movement{Speed: 0.5, Status: StatusSlow, Level: LevelYellow},
	},
	{
		Name: "moving",
		Matches: func(Category, float64) bool {
			return true
		},
		Movement: Movement{Speed: 1, Status: StatusMoving, Level: LevelGreen},
	},
}

// Rules returns the ordered rule table. The first matching rule wins.
func Rules() []Rule {
	rs := make([]Rule, len(rules))
	copy(rs, rules)
	return rs
}

// Classify picks the movement for a ship category under the given wind.
// Only barges halt; every other category, known or not, falls through to
// the slow and moving rules.
func Classify(c Category, windSpeed float64) Movement {
	for _, r := range rules {
		if r.Matches(c, windSpeed) {
			return r.Movement
		}
	}
	return rules[len(rules)-1].Movement
}

// LevelOf maps a status label back to its severity.
func LevelOf(status string) Level {
	for _, r := range rules {
		if r.Status == status {
			return r.Level
		}
	}
	return ""
}
