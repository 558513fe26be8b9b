package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	surreal "github.com/surrealdb/surrealdb.go"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/testutil"
)

// testConfig points at the shared container with a database unique to the test.
func testConfig(t *testing.T) common.StorageConfig {
	t.Helper()
	sc := testutil.StartSurrealDB(t)

	// SurrealDB rejects "/" in database names, which subtests produce.
	sanitized := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return common.StorageConfig{
		Backend:   "surrealdb",
		Address:   sc.Address(),
		Namespace: "pricedesk_test",
		Database:  fmt.Sprintf("t_%s_%d", sanitized, time.Now().UnixNano()%100000),
		Username:  "root",
		Password:  "root",
	}
}

// testDB returns a connection closed at test cleanup.
func testDB(t *testing.T) *surreal.DB {
	t.Helper()
	db, err := Connect(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("connect to SurrealDB: %v", err)
	}
	t.Cleanup(func() {
		db.Close(context.Background())
	})
	return db
}

// testLogger returns a silent logger for tests.
func testLogger() *common.Logger {
	return common.NewSilentLogger()
}
