package middleware

import (
	"fmt"
	"time"
)

const MIDDLEWARE_CONNECTION_RETRIES = 10
const WAIT_INTERVAL = 1 * time.Second

/* --- Ring Link Middlewares --- */

// LinkQueueName is the queue carrying messages sent by node `from` to its
// neighbor `to`. Each directed link has its own queue so that per-link
// delivery order is the broker's FIFO order.
func LinkQueueName(from, to uint64) string {
	return fmt.Sprintf("ring.link.%d.%d", from, to)
}

// GetLinkQueue retrieves the middleware for the directed ring link from one
// node to a neighbor. Both ends call this: the sender to publish, the
// receiver to consume.
func GetLinkQueue(url string, from, to uint64) MessageMiddleware {
	return retryMiddlewareCreation(MIDDLEWARE_CONNECTION_RETRIES, WAIT_INTERVAL, func() (MessageMiddleware, error) {
		return NewQueueMiddleware(url, LinkQueueName(from, to))
	})
}

/* --- Utils --- */

func retryMiddlewareCreation(retries int, waitInterval time.Duration, newMiddleware func() (MessageMiddleware, error)) MessageMiddleware {
	var m MessageMiddleware
	var err error
	for i := 0; i < retries; i++ {
		m, err = newMiddleware()
		if err != nil {
			time.Sleep(waitInterval)
			continue
		} else {
			break
		}
	}

	if err != nil {
		panic("Could not connect to remote middleware")
	}

	return m
}
