package search

import "github.com/poiesic/simrank/core"

// Monitor provides hooks to observe the orchestrator.
// Implement this interface to track generations as they move through their states.
// Submitted, StateChanged, Discarded and Delivered are invoked while the
// session lock is held, so they arrive in generation order: a generation's
// Cancelled state is never reported before the Submitted of the generation
// that replaced it. EmbeddingFailed is called from worker goroutines without
// the lock and may interleave with events of other generations.
// Implementations must not call back into the Orchestrator synchronously.
type Monitor interface {
	Submitted(gen core.Generation, query string, candidates int)
	StateChanged(gen core.Generation, state State)
	EmbeddingFailed(gen core.Generation, candidate core.Candidate, err error)
	Discarded(gen core.Generation)
	Delivered(delivery Delivery)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Submitted(_ core.Generation, _ string, _ int) {}
func (n *noopMonitor) StateChanged(_ core.Generation, _ State) {}
func (n *noopMonitor) EmbeddingFailed(_ core.Generation, _ core.Candidate, _ error) {}
func (n *noopMonitor) Discarded(_ core.Generation) {}
func (n *noopMonitor) Delivered(_ Delivery) {}
