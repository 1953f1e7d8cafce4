package election

import (
	"github.com/viluon/ring-election/src/common/models/enum"
	"github.com/viluon/ring-election/src/common/protocol"
)

// Relay is the transport port the runtime pushes outbound messages through.
// Sends are fire-and-forget: delivery outcomes are not reported back to the
// protocol, so implementations handle (or deliberately drop) their own
// failures.
type Relay interface {
	Send(direction enum.Direction, msg protocol.Message)
}

// Observer receives an event for every message the node emits, so an
// external harness can tally traffic without the core depending on it.
type Observer interface {
	MessageSent(senderID uint64, kind enum.MessageKind, direction enum.Direction)
}
