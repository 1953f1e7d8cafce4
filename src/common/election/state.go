package election

import (
	"errors"
	"fmt"

	"github.com/viluon/ring-election/src/common/models/enum"
)

var (
	// ErrNotifyAsCandidate reports a Notify delivered to a node that is
	// still contending. Under per-link ordered delivery this cannot happen,
	// so it signals a broken transport guarantee.
	ErrNotifyAsCandidate = errors.New("notify received while still a candidate")

	// ErrLeaderConflict reports two different leader identities observed by
	// the same node.
	ErrLeaderConflict = errors.New("conflicting leader identities")
)

// State is the mutable election state of a single node. The zero value is a
// candidate that has not yet sent its first probe.
type State struct {
	Status      enum.NodeStatus
	Phase       uint64 // number of the last probe this node originated
	LeaderID    uint64 // learned leader identity, valid once LeaderKnown
	LeaderKnown bool
}

// Resolved reports whether the node has reached its final outcome: it is the
// leader, or it is defeated and knows who won.
func (s State) Resolved() bool {
	return s.Status == enum.Leader || (s.Status == enum.Defeated && s.LeaderKnown)
}

func (s State) String() string {
	switch {
	case s.Status == enum.Candidate:
		return fmt.Sprintf("candidate(phase=%d)", s.Phase)
	case s.Status == enum.Defeated && s.LeaderKnown:
		return fmt.Sprintf("defeated(leader=%d)", s.LeaderID)
	case s.Status == enum.Defeated:
		return "defeated(leader unknown)"
	default:
		return "leader"
	}
}

/* --- TRANSITIONS --- */

// nextPhase advances a contending node to its next probe round.
func (s *State) nextPhase() error {
	if s.Status != enum.Candidate {
		return fmt.Errorf("next phase requested for %s node", s.Status)
	}
	s.Phase++
	return nil
}

// defeat marks a candidate as out of the contest. The winner is not yet
// known at this point; it arrives later with a Notify.
func (s *State) defeat() error {
	if s.Status != enum.Candidate {
		return fmt.Errorf("defeat requested for %s node", s.Status)
	}
	s.Status = enum.Defeated
	return nil
}

// lead marks a candidate as the elected leader.
func (s *State) lead() error {
	if s.Status != enum.Candidate {
		return fmt.Errorf("leadership claimed by %s node", s.Status)
	}
	s.Status = enum.Leader
	return nil
}

// learnLeader records the elected identity on a defeated node. It may be set
// exactly once; a second Notify with the same identity is a no-op and a
// different identity is an invariant violation.
func (s *State) learnLeader(id uint64) (recorded bool, err error) {
	if s.Status != enum.Defeated {
		return false, fmt.Errorf("leader identity offered to %s node", s.Status)
	}
	if s.LeaderKnown {
		if s.LeaderID != id {
			return false, fmt.Errorf("%w: recorded %d, received %d", ErrLeaderConflict, s.LeaderID, id)
		}
		return false, nil
	}
	s.LeaderID = id
	s.LeaderKnown = true
	return true, nil
}
