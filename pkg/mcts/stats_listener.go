package mcts

import "github.com/IlikeChooros/go-uttt/pkg/uttt"

type ListenerTreeStats struct {
	Simulations int
	TimeMs      int64
	Size        int
	BestMove    uttt.Move
	// Root value from the perspective of the side to move at the root
	Eval float64
	Pv   []uttt.Move
}

// Convert tree state to 'ListenerTreeStats' struct
func toListenerStats(tree *Tree) ListenerTreeStats {
	return ListenerTreeStats{
		Simulations: tree.simulations,
		TimeMs:      tree.elapsed().Milliseconds(),
		Size:        tree.Size(),
		BestMove:    tree.BestMove(),
		Eval:        tree.RootValue(),
		Pv:          tree.Pv(),
	}
}

// Listener function callback, will receive current tree statistics
type ListenerFunc func(ListenerTreeStats)

type StatsListener struct {
	// called every N simulations
	onSimulation ListenerFunc
	nSimulations int

	// called once the search used up its budget
	onStop ListenerFunc
}

func NewStatsListener() StatsListener {
	return StatsListener{nSimulations: 1}
}

// Attach new on simulation callback, computing the stats walks the tree,
// so keep the interval large
func (listener *StatsListener) OnSimulation(onSimulation ListenerFunc) *StatsListener {
	listener.onSimulation = onSimulation
	return listener
}

func (listener *StatsListener) SetSimulationInterval(n int) *StatsListener {
	listener.nSimulations = max(1, n)
	return listener
}

// Attach 'on search end' callback
func (listener *StatsListener) OnStop(onStop ListenerFunc) *StatsListener {
	listener.onStop = onStop
	return listener
}

func (listener *StatsListener) invokeSimulation(tree *Tree) {
	if listener.onSimulation != nil && tree.simulations%listener.nSimulations == 0 {
		listener.onSimulation(toListenerStats(tree))
	}
}

func (listener *StatsListener) invokeStop(tree *Tree) {
	if listener.onStop != nil {
		listener.onStop(toListenerStats(tree))
	}
}
