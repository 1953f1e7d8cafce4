package election

import (
	"fmt"

	"github.com/viluon/ring-election/src/common/models/enum"
	"github.com/viluon/ring-election/src/common/protocol"
)

// Outbound is a message the machine wants sent toward a ring neighbor.
type Outbound struct {
	Direction enum.Direction
	Message   protocol.Message
}

// Machine holds the election state of one node and applies the protocol's
// transition rules. It is purely sequential; callers must serialize access
// (the Node runtime does this with its mailbox).
type Machine struct {
	id    uint64
	state State
}

func NewMachine(id uint64) *Machine {
	return &Machine{id: id}
}

func (m *Machine) ID() uint64 {
	return m.id
}

func (m *Machine) State() State {
	return m.state
}

// Initialize starts this node's candidacy: phase 1, probe headed right.
// It must be called exactly once, after the node can receive messages.
func (m *Machine) Initialize() []Outbound {
	m.state.Phase = 1
	return []Outbound{{
		Direction: enum.Right,
		Message:   protocol.Probe{SenderID: m.id, Phase: 1, Direction: enum.Right},
	}}
}

// HandleProbe applies an incoming candidacy signal.
//
// A contending node compares identities: a smaller sender's probe dies here
// and this node opens its next phase; its own probe returning means a full
// unchallenged traversal and leadership; a larger sender defeats this node,
// whose probe duty from then on is pure relaying. Defeated nodes and the
// leader forward probes unmodified.
func (m *Machine) HandleProbe(p protocol.Probe) ([]Outbound, error) {
	if m.state.Status != enum.Candidate {
		return []Outbound{{Direction: p.Direction, Message: p}}, nil
	}

	switch {
	case m.id > p.SenderID:
		if err := m.state.nextPhase(); err != nil {
			return nil, err
		}
		dir := directionForPhase(m.state.Phase)
		return []Outbound{{
			Direction: dir,
			Message:   protocol.Probe{SenderID: m.id, Phase: m.state.Phase, Direction: dir},
		}}, nil

	case m.id == p.SenderID:
		if err := m.state.lead(); err != nil {
			return nil, err
		}
		return []Outbound{{
			Direction: p.Direction,
			Message:   protocol.Notify{LeaderID: m.id, Direction: p.Direction},
		}}, nil

	default:
		if err := m.state.defeat(); err != nil {
			return nil, err
		}
		return []Outbound{{Direction: p.Direction, Message: p}}, nil
	}
}

// HandleNotify applies an incoming leader announcement. The leader absorbs
// its own announcement, terminating its circulation; a defeated node records
// the identity once and passes the announcement along.
func (m *Machine) HandleNotify(n protocol.Notify) ([]Outbound, error) {
	switch m.state.Status {
	case enum.Leader:
		if n.LeaderID != m.id {
			return nil, fmt.Errorf("%w: node %d is leader, notified of %d", ErrLeaderConflict, m.id, n.LeaderID)
		}
		return nil, nil

	case enum.Defeated:
		recorded, err := m.state.learnLeader(n.LeaderID)
		if err != nil {
			return nil, err
		}
		if !recorded {
			// Duplicate delivery; forwarding again would circulate forever.
			return nil, nil
		}
		return []Outbound{{Direction: n.Direction, Message: n}}, nil

	default:
		return nil, fmt.Errorf("%w: node %d (phase %d) notified of %d", ErrNotifyAsCandidate, m.id, m.state.Phase, n.LeaderID)
	}
}

// directionForPhase alternates the heading of a node's own probes: odd
// phases travel right, even phases travel left.
func directionForPhase(phase uint64) enum.Direction {
	if phase%2 == 1 {
		return enum.Right
	}
	return enum.Left
}
