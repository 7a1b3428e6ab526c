package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/stepwise/internal/nats"
)

// Journal is a Store backed by its own embedded JetStream server.
type Journal struct {
	*Store
	server *nats.Embedded
}

// Open starts an embedded JetStream server with its files under
// <dataDir>/journal and prepares the event stream.
func Open(ctx context.Context, dataDir string) (*Journal, error) {
	dir := filepath.Join(dataDir, "journal")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	server, err := nats.StartEmbedded(dir)
	if err != nil {
		return nil, err
	}

	stream, err := nats.SetupStream(ctx, server.JetStream)
	if err != nil {
		_ = server.Close()
		return nil, fmt.Errorf("setting up event stream: %w", err)
	}

	return &Journal{
		Store:  NewStore(server.JetStream, stream),
		server: server,
	}, nil
}

// Close shuts the embedded server down.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.server.Close()
}
