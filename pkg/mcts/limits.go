package mcts

import (
	"encoding/json"
	"strings"
)

// Search budget, there is no time limit or cancellation: the search always
// runs all of its simulations
type Limits struct {
	Simulations int `json:"simulations"`
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return strings.TrimSpace(builder.String())
}

func DefaultLimits() *Limits {
	return &Limits{
		Simulations: DefaultSimulations,
	}
}

// Set the number of trajectories run by a single search
func (l *Limits) SetSimulations(simulations int) *Limits {
	l.Simulations = max(1, simulations)
	return l
}
