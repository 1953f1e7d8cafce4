package simring

import (
	"sync/atomic"

	"github.com/viluon/ring-election/src/common/models/enum"
)

// Counter tallies every message emitted by the ring's nodes. It implements
// election.Observer and is safe for concurrent use.
type Counter struct {
	probes   atomic.Uint64
	notifies atomic.Uint64
}

func (c *Counter) MessageSent(senderID uint64, kind enum.MessageKind, direction enum.Direction) {
	switch kind {
	case enum.Probe:
		c.probes.Add(1)
	case enum.Notify:
		c.notifies.Add(1)
	}
}

func (c *Counter) Probes() uint64 {
	return c.probes.Load()
}

func (c *Counter) Notifies() uint64 {
	return c.notifies.Load()
}

func (c *Counter) Total() uint64 {
	return c.probes.Load() + c.notifies.Load()
}
