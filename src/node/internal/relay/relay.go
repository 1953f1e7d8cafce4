package relay

import (
	"github.com/viluon/ring-election/src/common/election"
	"github.com/viluon/ring-election/src/common/logger"
	"github.com/viluon/ring-election/src/common/middleware"
	"github.com/viluon/ring-election/src/common/models/enum"
	"github.com/viluon/ring-election/src/common/protocol"
)

// amqpRelay pushes outbound messages onto the link queues toward the two
// ring neighbors. Sends are fire-and-forget: failures are logged and
// dropped, never reported back to the election core.
type amqpRelay struct {
	left  middleware.MessageMiddleware
	right middleware.MessageMiddleware
}

func New(left, right middleware.MessageMiddleware) election.Relay {
	return &amqpRelay{
		left:  left,
		right: right,
	}
}

func (r *amqpRelay) Send(direction enum.Direction, msg protocol.Message) {
	data, err := protocol.Marshal(msg)
	if err != nil {
		logger.Logger.Errorf("Failed to marshal %s message: %v", msg.Kind(), err)
		return
	}

	link := r.right
	if direction == enum.Left {
		link = r.left
	}

	if e := link.Send(data); e != middleware.MessageMiddlewareSuccess {
		logger.Logger.Errorf("Failed to send %s message %s: %d", msg.Kind(), direction, int(e))
	}
}
