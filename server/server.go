// Package server wires talond's two front ends -- a line-oriented TCP
// listener and an HTTP API -- to a shard.Table, supervised together by an
// errgroup.Group so either one's fatal error tears the other down.
//
// The listen-then-supervise structure and graceful-shutdown-on-context
// pattern follow vinceanalytics-vince's server.HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sagalu/talon/server/lineproto"
)

// Config holds the two listen addresses talond binds.
type Config struct {
	TCPAddr  string
	HTTPAddr string
}

// Server owns the listeners and the errgroup supervising them.
type Server struct {
	cfg     Config
	putter  lineproto.Putter
	handler http.Handler
	log     *logrus.Entry
}

// New constructs a Server. putter receives every parsed TCP record;
// handler serves the HTTP API (see httpapi.New).
func New(cfg Config, putter lineproto.Putter, handler http.Handler, log *logrus.Entry) *Server {
	return &Server{cfg: cfg, putter: putter, handler: handler, log: log}
}

// Run binds both listeners, then blocks serving traffic until ctx is
// canceled or one of the servers returns a fatal error.
func (s *Server) Run(ctx context.Context) error {
	tcpListener, err := net.Listen("tcp", s.cfg.TCPAddr)
	if err != nil {
		return fmt.Errorf("server: binding tcp listener: %w", err)
	}

	httpListener, err := net.Listen("tcp", s.cfg.HTTPAddr)
	if err != nil {
		tcpListener.Close()
		return fmt.Errorf("server: binding http listener: %w", err)
	}

	httpSvr := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.acceptLoop(gctx, tcpListener)
	})

	g.Go(func() error {
		if err := httpSvr.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: http serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Debug("server: shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpSvr.Shutdown(shutdownCtx); err != nil {
			s.log.WithError(err).Warn("server: http shutdown did not complete cleanly")
		}

		return tcpListener.Close()
	})

	return g.Wait()
}

// acceptLoop accepts TCP connections and serves lineproto.Serve on each,
// concurrently, until ctx is canceled or the listener is closed.
func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("server: tcp accept: %w", err)
		}

		go func() {
			defer conn.Close()

			connLog := s.log.WithField("remote", conn.RemoteAddr().String())
			if err := lineproto.Serve(conn, s.putter, connLog); err != nil {
				connLog.WithError(err).Warn("server: connection ended with error")
			}
		}()
	}
}
