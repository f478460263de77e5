package sqlite

import (
	"context"
	"testing"
)

// setupTestDB opens a migrated in-memory database named after the test.
// Writer and reader pools share it through cache=shared, and the unique name
// keeps parallel tests apart.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := open(context.Background(), t.Name(), memoryDSN(t.Name()))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := RunMigrations(db.Writer); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return db
}
