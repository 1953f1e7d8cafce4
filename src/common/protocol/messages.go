package protocol

import (
	"github.com/viluon/ring-election/src/common/models/enum"
)

// Message is one of the two wire messages of the election protocol.
type Message interface {
	Kind() enum.MessageKind
	// Heading is the direction the message is traveling around the ring.
	Heading() enum.Direction
}

// Probe is a candidacy signal. It carries the identity of the candidate that
// originated it, the candidate's phase number, and the direction it travels.
type Probe struct {
	SenderID  uint64         `json:"sender_id"`
	Phase     uint64         `json:"phase"`
	Direction enum.Direction `json:"direction"`
}

func (p Probe) Kind() enum.MessageKind  { return enum.Probe }
func (p Probe) Heading() enum.Direction { return p.Direction }

// Notify announces the elected leader. It circulates once around the ring
// and is absorbed when it returns to the leader.
type Notify struct {
	LeaderID  uint64         `json:"leader_id"`
	Direction enum.Direction `json:"direction"`
}

func (n Notify) Kind() enum.MessageKind  { return enum.Notify }
func (n Notify) Heading() enum.Direction { return n.Direction }
