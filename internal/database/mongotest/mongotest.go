// Package mongotest starts a disposable MongoDB for repository tests.
package mongotest

import (
	"context"
	"testing"

	"github.com/intellibazar/intellibazar/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

// Start runs mongo:7 in a container and returns a database with indexes
// applied. The test is skipped when no container runtime is reachable.
func Start(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("start mongo container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	db, err := database.ConnectMongo(ctx, uri, "testdb")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Client().Disconnect(context.Background()) })

	if err := database.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	return db
}
