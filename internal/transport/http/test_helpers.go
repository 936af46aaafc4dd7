package http

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/store"
	"github.com/vovakirdan/roomrelay/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite message log.
func createTestStore(t *testing.T) store.MessageStore {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

// testConfig returns a config suitable for httptest servers: any origin,
// no frame rate limit.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	cfg.AllowedOrigins = []string{"*"}
	cfg.WSEventsPerMinute = 0
	return cfg
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func newTestHub(st store.MessageStore) *core.Hub {
	return core.NewHub(st, testLogger(), 0)
}
