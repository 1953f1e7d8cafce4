package healthcheck

import "context"

// PingServer announces this node's readiness to serve inbound messages.
type PingServer interface {
	Run()
	Shutdown(ctx context.Context)
}
