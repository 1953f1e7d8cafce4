package election

import (
	"context"
	"fmt"
	"sync"

	"github.com/viluon/ring-election/src/common/logger"
	"github.com/viluon/ring-election/src/common/protocol"
)

const mailboxSize = 256

// inbound is one mailbox item: either a neighbor's message or the one-time
// bootstrap trigger.
type inbound struct {
	bootstrap bool
	msg       protocol.Message
}

// Node runs one election state machine as a single-threaded actor. Messages
// from both neighbors are merged into one mailbox and applied strictly one
// at a time, so the read-apply-commit-emit sequence needs no lock.
type Node struct {
	machine  *Machine
	relay    Relay
	observer Observer

	mailbox chan inbound

	mu       sync.RWMutex
	snapshot State

	resolvedOnce sync.Once
	resolvedCh   chan struct{}
}

func NewNode(id uint64, relay Relay, observer Observer) *Node {
	return &Node{
		machine:    NewMachine(id),
		relay:      relay,
		observer:   observer,
		mailbox:    make(chan inbound, mailboxSize),
		resolvedCh: make(chan struct{}),
	}
}

func (n *Node) ID() uint64 {
	return n.machine.ID()
}

// State returns a snapshot of the node's election state. Safe to call from
// any goroutine.
func (n *Node) State() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.snapshot
}

// Resolved is closed once the node knows its final outcome: leadership, or
// defeat with the winner's identity recorded. The node keeps relaying
// traffic after resolution.
func (n *Node) Resolved() <-chan struct{} {
	return n.resolvedCh
}

// Deliver hands a neighbor's message to the node. Callers must preserve
// per-link send order; the mailbox preserves it from there.
func (n *Node) Deliver(msg protocol.Message) {
	n.mailbox <- inbound{msg: msg}
}

// Bootstrap queues the one-time startup trigger that makes the node send
// its first probe. Call it only once, and only after the node's inbound
// links are being served.
func (n *Node) Bootstrap() {
	n.mailbox <- inbound{bootstrap: true}
}

// Run processes the mailbox until the context is cancelled or a protocol or
// invariant violation is detected. Violations are returned rather than
// ignored: they mean the transport broke the ordering guarantee and the
// election outcome can no longer be trusted.
func (n *Node) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-n.mailbox:
			outs, err := n.apply(in)
			if err != nil {
				return err
			}
			for _, out := range outs {
				if n.observer != nil {
					n.observer.MessageSent(n.ID(), out.Message.Kind(), out.Direction)
				}
				n.relay.Send(out.Direction, out.Message)
			}
		}
	}
}

/* --- PRIVATE METHODS --- */

func (n *Node) apply(in inbound) ([]Outbound, error) {
	var outs []Outbound
	var err error

	if in.bootstrap {
		outs = n.machine.Initialize()
	} else {
		switch msg := in.msg.(type) {
		case protocol.Probe:
			outs, err = n.machine.HandleProbe(msg)
		case protocol.Notify:
			outs, err = n.machine.HandleNotify(msg)
		default:
			err = fmt.Errorf("node %d received unknown message type %T", n.ID(), in.msg)
		}
	}
	if err != nil {
		return nil, err
	}

	n.commit(n.machine.State())
	return outs, nil
}

func (n *Node) commit(state State) {
	n.mu.Lock()
	n.snapshot = state
	n.mu.Unlock()

	if state.Resolved() {
		n.resolvedOnce.Do(func() {
			logger.GetLogger().Infof("node %d is %s", n.ID(), state)
			close(n.resolvedCh)
		})
	}
}
