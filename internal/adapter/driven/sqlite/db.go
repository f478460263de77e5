package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// DB provides dual reader/writer database connections with WAL mode enabled.
// The writer connection is limited to a single connection to avoid "database is locked" errors.
// The reader pool allows up to 4 concurrent readers, which covers the
// concurrent API handlers listing organizations.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

// MemoryPath selects a process-local in-memory database instead of a file.
const MemoryPath = ":memory:"

// NewDB opens the org list and credential database at dbPath with WAL mode,
// busy timeout, synchronous NORMAL, foreign keys enabled, and a 64MB cache.
// MemoryPath keeps everything in memory for the life of the process.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	if dbPath == MemoryPath {
		return open(ctx, dbPath, memoryDSN("govscan"))
	}
	return open(ctx, dbPath, fileDSN(dbPath))
}

// pragmas apply to every connection.
const pragmas = "_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)"

// fileDSN is the DSN of an on-disk database in WAL mode.
func fileDSN(path string) string {
	return "file:" + path + "?_pragma=journal_mode(WAL)&" + pragmas
}

// memoryDSN is the DSN of a named in-memory database shared by every
// connection that uses the same name.
func memoryDSN(name string) string {
	return "file:" + url.PathEscape(name) + "?mode=memory&cache=shared&" + pragmas
}

// open creates the writer and reader pools for dsn.
func open(ctx context.Context, path, dsn string) (*DB, error) {
	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if err := writer.PingContext(ctx); err != nil {
		writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := reader.PingContext(ctx); err != nil {
		reader.Close()
		writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	return &DB{
		Writer: writer,
		Reader: reader,
		path:   path,
	}, nil
}

// Close closes both reader and writer connections. Returns the first error encountered.
func (db *DB) Close() error {
	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}

	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}

// Path returns the database file path the connections were opened with.
func (db *DB) Path() string {
	return db.path
}
