package fleet

type Ship struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Progress float64  `json:"progress"`
	Status   string   `json:"status"`
	Color    string   `json:"color"`
}

// Seed is the fleet every new session starts with.
func Seed() []Ship {
	return []Ship{
		{Name: "MSC Belgium", Category: Container, Progress: 0, Color: "blue"},
		{Name: "Barge Albert", Category: Barge, Progress: 1, Color: "green"},
		{Name: "Tanker One", Category: Tanker, Progress: 2, Color: "red"},
	}
}

// Advance moves every ship one step along a path of pathLen waypoints.
// Ships are independent of each other. A ship reaching the last waypoint
// restarts from the sea entrance on the same step.
func Advance(ships []Ship, windSpeed float64, pathLen int) {
	for i := range ships {
		m := Classify(ships[i].Category, windSpeed)
		ships[i].Status = m.Status
		ships[i].Progress += m.Speed
		if ships[i].Progress >= float64(pathLen-1) {
			ships[i].Progress = 0
		}
	}
}
