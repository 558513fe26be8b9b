// Package testutil provides shared backing services for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// SurrealDBImage is the server version the surrealdb backend is tested against.
	SurrealDBImage = "surrealdb/surrealdb:v3.0.0"

	// SurrealDBAddrEnv names an already running server (ws://host:port/rpc,
	// root/root) to use instead of a container.
	SurrealDBAddrEnv = "PRICEDESK_TEST_SURREALDB"

	surrealPort = "8000/tcp"
)

// SurrealDB is a reachable server, either external or containerized.
type SurrealDB struct {
	container testcontainers.Container
	addr      string
}

var shared = struct {
	once sync.Once
	db   *SurrealDB
	err  error
}{}

// StartSurrealDB returns the process-wide server, starting a container on
// first use. The test is skipped under -short or without a container runtime.
func StartSurrealDB(t *testing.T) *SurrealDB {
	t.Helper()
	if testing.Short() {
		t.Skip("SurrealDB integration test skipped in short mode")
	}
	shared.once.Do(func() {
		if addr := os.Getenv(SurrealDBAddrEnv); addr != "" {
			shared.db = &SurrealDB{addr: addr}
			return
		}
		shared.db, shared.err = runSurrealContainer(context.Background())
	})
	if shared.err != nil {
		t.Skipf("SurrealDB unavailable: %v", shared.err)
	}
	return shared.db
}

func runSurrealContainer(ctx context.Context) (*SurrealDB, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        SurrealDBImage,
			ExposedPorts: []string{surrealPort},
			Cmd:          []string{"start", "--user", "root", "--pass", "root"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(surrealPort),
				wait.ForLog("Started web server"),
			).WithDeadline(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	endpoint, err := c.PortEndpoint(ctx, surrealPort, "ws")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("resolve endpoint: %w", err)
	}
	return &SurrealDB{container: c, addr: endpoint + "/rpc"}, nil
}

// Address is the WebSocket RPC address.
func (s *SurrealDB) Address() string { return s.addr }

// Cleanup terminates a container started by StartSurrealDB; external
// servers are left alone.
func (s *SurrealDB) Cleanup() {
	if s != nil && s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}
