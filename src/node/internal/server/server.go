package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viluon/ring-election/src/common/election"
	"github.com/viluon/ring-election/src/common/logger"
	"github.com/viluon/ring-election/src/common/middleware"
	"github.com/viluon/ring-election/src/common/models/enum"
	"github.com/viluon/ring-election/src/common/protocol"
	"github.com/viluon/ring-election/src/node/config"
	"github.com/viluon/ring-election/src/node/internal/healthcheck"
	"github.com/viluon/ring-election/src/node/internal/relay"
)

var log = logger.GetLogger()

// logObserver traces every emitted message. It stands in for the external
// measurement harness, which consumes the same hook.
type logObserver struct{}

func (o logObserver) MessageSent(senderID uint64, kind enum.MessageKind, direction enum.Direction) {
	log.Debugf("node %d sent %s %s", senderID, kind, direction)
}

type Server struct {
	conf *config.Config
	node *election.Node
	ping healthcheck.PingServer

	inboundLinks  []middleware.MessageMiddleware
	outboundLinks []middleware.MessageMiddleware

	ctx    context.Context
	cancel context.CancelFunc
}

func InitServer(conf *config.Config) *Server {
	url := conf.MiddlewareAddress

	// One queue per directed link. This node publishes on its two outgoing
	// links and consumes its two incoming ones; the queues' FIFO order is
	// the per-link ordering guarantee the protocol assumes.
	outLeft := middleware.GetLinkQueue(url, conf.ID, conf.LeftID)
	outRight := middleware.GetLinkQueue(url, conf.ID, conf.RightID)
	inLeft := middleware.GetLinkQueue(url, conf.LeftID, conf.ID)
	inRight := middleware.GetLinkQueue(url, conf.RightID, conf.ID)

	node := election.NewNode(conf.ID, relay.New(outLeft, outRight), logObserver{})

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		conf:          conf,
		node:          node,
		ping:          healthcheck.NewPingServer(conf.Readiness.Port),
		inboundLinks:  []middleware.MessageMiddleware{inLeft, inRight},
		outboundLinks: []middleware.MessageMiddleware{outLeft, outRight},
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Run serves the node until shutdown or a fatal protocol violation. The
// order matters: inbound consumption first, then readiness announcement,
// then waiting for both neighbors, and only then the bootstrap probe.
func (s *Server) Run() error {
	s.setupGracefulShutdown()

	for _, link := range s.inboundLinks {
		if err := s.consumeFromLink(link); err != nil {
			s.Shutdown()
			return err
		}
	}
	log.Debug("Both inbound links are now consuming.")

	go s.ping.Run()

	waitCtx, waitCancel := context.WithTimeout(s.ctx, s.conf.Readiness.Timeout)
	defer waitCancel()
	peers := []string{s.conf.Readiness.LeftAddress, s.conf.Readiness.RightAddress}
	if err := healthcheck.WaitForPeers(waitCtx, peers, s.conf.Readiness.PollInterval); err != nil {
		s.Shutdown()
		return err
	}

	s.node.Bootstrap()
	log.Infof("Node %d entered the election", s.conf.ID)

	err := s.node.Run(s.ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Server) setupGracefulShutdown() {
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChannel
		log.Debugf("Shutdown Signal received, shutting down...")
		s.Shutdown()
	}()
}

func (s *Server) Shutdown() {
	log.Debug("Shutting down node server...")
	s.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.ping.Shutdown(shutdownCtx)

	for _, link := range s.inboundLinks {
		link.StopConsuming()
		if e := link.Close(); e != middleware.MessageMiddlewareSuccess {
			log.Errorf("Failed to close inbound link: %d", int(e))
		}
	}
	for _, link := range s.outboundLinks {
		if e := link.Close(); e != middleware.MessageMiddlewareSuccess {
			log.Errorf("Failed to close outbound link: %d", int(e))
		}
	}

	log.Debug("Node server shut down successfully.")
}

/* --- PRIVATE UTIL METHODS --- */

func (s *Server) consumeFromLink(link middleware.MessageMiddleware) error {
	e := link.StartConsuming(func(consumeChannel middleware.ConsumeChannel, d chan error) {
		for msg := range consumeChannel {
			m, err := protocol.Unmarshal(msg.Body)
			if err != nil {
				log.Errorf("Discarding malformed link message: %v", err)
				msg.Ack(false)
				continue
			}

			s.node.Deliver(m)
			msg.Ack(false)
		}
	})
	if e != middleware.MessageMiddlewareSuccess {
		return fmt.Errorf("an error occurred while starting link consumption: %d", int(e))
	}
	return nil
}
