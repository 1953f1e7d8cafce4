// Package simring runs a whole election ring inside one process, with
// channel-backed links instead of a broker. It backs the measurement runner
// and the protocol's property tests.
package simring

import (
	"context"
	"errors"
	"fmt"

	"github.com/viluon/ring-election/src/common/election"
	"github.com/viluon/ring-election/src/common/models/enum"
	"github.com/viluon/ring-election/src/common/protocol"
)

// neighborRelay delivers a node's outbound messages straight into the
// mailbox of the neighbor in the requested direction. Mailboxes are FIFO,
// so each directed link keeps its send order.
type neighborRelay struct {
	left  *election.Node
	right *election.Node
}

func (r *neighborRelay) Send(direction enum.Direction, msg protocol.Message) {
	if direction == enum.Left {
		r.left.Deliver(msg)
	} else {
		r.right.Deliver(msg)
	}
}

// Ring is an in-process election ring. The i-th node's right neighbor is
// node i+1 (wrapping), mirroring the topology the node processes get from
// their configuration.
type Ring struct {
	nodes   []*election.Node
	counter *Counter
}

// New builds a ring from the ordered identity list. Identities must be
// pairwise distinct; this is the topology loader's contract, so it is
// validated here rather than in the core.
func New(ids []uint64) (*Ring, error) {
	if len(ids) == 0 {
		return nil, errors.New("ring needs at least one node")
	}
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate identity %d in ring", id)
		}
		seen[id] = struct{}{}
	}

	counter := &Counter{}
	relays := make([]*neighborRelay, len(ids))
	nodes := make([]*election.Node, len(ids))
	for i, id := range ids {
		relays[i] = &neighborRelay{}
		nodes[i] = election.NewNode(id, relays[i], counter)
	}
	n := len(nodes)
	for i := range nodes {
		relays[i].left = nodes[(i-1+n)%n]
		relays[i].right = nodes[(i+1)%n]
	}

	return &Ring{nodes: nodes, counter: counter}, nil
}

// Run starts every node, bootstraps them, and returns once all nodes have
// resolved. Cancelling the context aborts the run; any protocol violation
// surfaced by a node aborts it too. Leftover relay traffic is discarded
// when the actors stop.
func (r *Ring) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(r.nodes))
	for _, node := range r.nodes {
		go func(n *election.Node) {
			if err := n.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}(node)
	}

	for _, node := range r.nodes {
		node.Bootstrap()
	}

	for _, node := range r.nodes {
		select {
		case <-node.Resolved():
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

// Leader returns the elected identity once the run is complete.
func (r *Ring) Leader() (uint64, bool) {
	for _, node := range r.nodes {
		if state := node.State(); state.Status == enum.Leader {
			return node.ID(), true
		}
	}
	return 0, false
}

func (r *Ring) Nodes() []*election.Node {
	return r.nodes
}

func (r *Ring) Counter() *Counter {
	return r.counter
}
