package nats

import (
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/stepwise/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	readyTimeout    = 4 * time.Second
	drainTimeout    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Embedded is an in-process JetStream server together with its client connection.
type Embedded struct {
	Server    *server.Server
	Conn      *nats.Conn
	JetStream jetstream.JetStream
}

// StartEmbedded starts a JetStream server storing files under dataDir and
// connects to it in-process. No network port is opened.
func StartEmbedded(dataDir string) (*Embedded, error) {
	logger.Debug("Starting embedded NATS server with data dir: %s", dataDir)

	ns, err := server.NewServer(&server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true,
	})
	if err != nil {
		logger.Error("Failed to create NATS server: %v", err)
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(readyTimeout) {
		logger.Error("NATS server failed to start within %s", readyTimeout)
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}

	nc, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		logger.Error("Failed to connect to NATS in-process: %v", err)
		ns.Shutdown()
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("creating jetstream context: %w", err)
	}

	logger.Debug("NATS server ready for connections")
	return &Embedded{Server: ns, Conn: nc, JetStream: js}, nil
}

// Close drains the connection and shuts the server down, each bounded by a
// timeout so a stuck server never blocks exit.
func (e *Embedded) Close() error {
	if e == nil {
		return nil
	}

	if e.Conn != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- e.Conn.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				e.Conn.Close()
			}
		case <-time.After(drainTimeout):
			logger.Warn("NATS drain timed out after %s, forcing close", drainTimeout)
			e.Conn.Close()
		}
	}

	if e.Server != nil {
		e.Server.Shutdown()

		shutdownDone := make(chan struct{})
		go func() {
			e.Server.WaitForShutdown()
			close(shutdownDone)
		}()

		select {
		case <-shutdownDone:
			logger.Debug("NATS server shut down cleanly")
		case <-time.After(shutdownTimeout):
			logger.Error("NATS server shutdown timed out after %s", shutdownTimeout)
			return errors.New("nats server shutdown timed out")
		}
	}

	return nil
}
