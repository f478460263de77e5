package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/govscan/internal/domain/model"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.OrgStore = (*OrgRepo)(nil)

// OrgRepo is the SQLite implementation of the OrgStore port interface.
type OrgRepo struct {
	db *DB
}

// NewOrgRepo creates a new OrgRepo backed by the given DB.
func NewOrgRepo(db *DB) *OrgRepo {
	return &OrgRepo{db: db}
}

// Add appends an organization at the end of the list. Logins are compared
// case-insensitively; a duplicate returns ErrOrgAlreadyExists.
func (r *OrgRepo) Add(ctx context.Context, login string) error {
	const query = `INSERT INTO organizations (login, position)
		VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM organizations))`

	_, err := r.db.Writer.ExecContext(ctx, query, login)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("add organization %s: %w", login, driven.ErrOrgAlreadyExists)
		}
		return fmt.Errorf("add organization %s: %w", login, err)
	}

	return nil
}

// Remove deletes an organization by login. Returns ErrOrgNotFound if it is not tracked.
func (r *OrgRepo) Remove(ctx context.Context, login string) error {
	const query = `DELETE FROM organizations WHERE login = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, login)
	if err != nil {
		return fmt.Errorf("remove organization %s: %w", login, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("remove organization %s: %w", login, driven.ErrOrgNotFound)
	}

	return nil
}

// ListAll returns all organizations in insertion order.
func (r *OrgRepo) ListAll(ctx context.Context) ([]model.Organization, error) {
	const query = `SELECT id, login, position, added_at FROM organizations ORDER BY position, id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []model.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, *org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}

	return orgs, nil
}

// SeedIfEmpty inserts logins in order when the table holds no organizations.
// A populated table is left untouched so API edits survive restarts.
func (r *OrgRepo) SeedIfEmpty(ctx context.Context, logins []string) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizations`).Scan(&count); err != nil {
		return fmt.Errorf("count organizations: %w", err)
	}
	if count > 0 {
		return nil
	}

	const insert = `INSERT OR IGNORE INTO organizations (login, position) VALUES (?, ?)`
	for i, login := range logins {
		if _, err := tx.ExecContext(ctx, insert, login, i); err != nil {
			return fmt.Errorf("seed organization %s: %w", login, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOrganization(s scanner) (*model.Organization, error) {
	var org model.Organization
	var addedAt string

	err := s.Scan(&org.ID, &org.Login, &org.Position, &addedAt)
	if err != nil {
		return nil, err
	}

	org.AddedAt, err = parseTime(addedAt)
	if err != nil {
		return nil, fmt.Errorf("parse added_at: %w", err)
	}

	return &org, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
