package enum

// NodeStatus is the election progress of a single node. Transitions are
// one-directional: Candidate may become Defeated or Leader, never back.
type NodeStatus int32

const (
	Candidate NodeStatus = iota
	Defeated
	Leader
)

func (s NodeStatus) String() string {
	switch s {
	case Candidate:
		return "candidate"
	case Defeated:
		return "defeated"
	case Leader:
		return "leader"
	default:
		return "unknown"
	}
}
