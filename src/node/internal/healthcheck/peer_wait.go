package healthcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/viluon/ring-election/src/common/logger"
)

// WaitForPeers polls each peer's /ping endpoint until all of them answer,
// or the context expires. A node must not send its first probe before its
// neighbors can receive it; this replaces the fixed startup delay the
// protocol would otherwise need.
func WaitForPeers(ctx context.Context, addrs []string, pollInterval time.Duration) error {
	client := &http.Client{Timeout: pollInterval}

	for _, addr := range addrs {
		url := fmt.Sprintf("http://%s/ping", addr)
		for {
			resp, err := client.Get(url)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					break
				}
			}

			select {
			case <-ctx.Done():
				return fmt.Errorf("peer %s never became ready: %w", addr, ctx.Err())
			case <-time.After(pollInterval):
			}
		}
		logger.Logger.Debugf("Peer %s is ready", addr)
	}

	return nil
}
