package testdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/phrazzld/transit-api/internal/ciutil"
	"github.com/phrazzld/transit-api/internal/platform/mongodb"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoURIEnv names the variable holding the test MongoDB URI.
// The server must be a replica set member for transactions to work.
// MONGODB_URI is accepted as a fallback.
const MongoURIEnv = ciutil.EnvTestMongoURI

// MongoURI returns the test MongoDB URI, or "" when unset.
func MongoURI() string {
	return ciutil.TestMongoURI(nil)
}

// OpenMongo connects to the test server and returns a database private to
// this test run. The database is dropped and the client closed on cleanup.
func OpenMongo(t *testing.T) *mongo.Database {
	t.Helper()

	uri := MongoURI()
	if uri == "" {
		skipOrFail(t, MongoURIEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	client, err := mongodb.Connect(ctx, uri, nil)
	require.NoError(t, err, "Failed to connect to mongodb")

	db := client.Database(fmt.Sprintf("transit_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("Warning: failed to drop test database: %v", err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Warning: failed to disconnect mongodb client: %v", err)
		}
	})

	return db
}

// ResetMongo drops every collection and recreates the indexes so each test
// observes IDs starting at 1.
func ResetMongo(t *testing.T, db *mongo.Database) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	require.NoError(t, db.Drop(ctx), "Failed to drop test database")
	require.NoError(t, mongodb.EnsureIndexes(ctx, db), "Failed to create indexes")
}
