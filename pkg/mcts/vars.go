package mcts

import (
	"math"
	"math/rand"

	"lukechampine.com/frand"
)

// Exploration parameter used in the UCB formula, higher values increase
// exploration while lower values increase exploitation. Default is 1.
var ExplorationParam float64 = 1

// Set the exploration parameter used in the UCB formula
func SetExplorationParam(c float64) {
	ExplorationParam = max(0.0, c)
}

// Added to the child's visit count in the UCB denominator, so unvisited
// children get a very large (but finite) score
const Epsilon = 1e-6

// Default number of simulations per move
const DefaultSimulations = 100

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return int64(frand.Uint64n(math.MaxInt64))
}

// Set custom seed generator function for random number generators used by
// self-play and the agents, by default draws from a CSPRNG
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}

// New generator seeded with SeedGeneratorFn, offset lets parallel workers
// diverge while staying reproducible with a fixed seed
func NewRand(offset int64) *rand.Rand {
	return rand.New(rand.NewSource(SeedGeneratorFn() + offset))
}
