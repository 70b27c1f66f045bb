// Package mongotest connects model test suites to a disposable database.
package mongotest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/supakorn-kn/go-sketchpatch/mongodb"
)

// Connect opens a database named after the test and drops it on cleanup. The test is skipped
// when MONGODB_URI is not set.
func Connect(t *testing.T) *mongodb.MongoDBConn {

	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI is not set")
	}

	dbName := fmt.Sprintf("sketchpatch_test_%d", time.Now().UnixNano())

	conn, err := mongodb.InitConnection(uri, dbName)
	if err != nil {
		t.Fatalf("Connecting to MongoDB failed: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.GetDatabase().Drop(context.Background())
		_ = conn.Disconnect()
	})

	return conn
}
