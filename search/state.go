package search

import "github.com/poiesic/simrank/core"

// State is the lifecycle position of a generation.
type State int

const (
	// StateIdle means no generation has been submitted yet.
	StateIdle State = iota
	// StateEmbedding means the query and candidate texts are being embedded.
	StateEmbedding
	// StateRanking means all embeddings are in and similarities are being computed.
	StateRanking
	// StateDelivered means the listener received a ranked result.
	StateDelivered
	// StateFailed means the listener received an error.
	StateFailed
	// StateCancelled means a newer generation superseded this one before delivery.
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEmbedding:
		return "embedding"
	case StateRanking:
		return "ranking"
	case StateDelivered:
		return "delivered"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Delivery is the outcome handed to a Listener. Exactly one of Results and
// Err is meaningful; Results is empty, not nil, for an empty candidate set.
type Delivery struct {
	Generation core.Generation
	Query      string
	Results    []core.RankedResult
	Err        error
}

// Listener receives the outcome of the newest generation.
type Listener func(Delivery)
