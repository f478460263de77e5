package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/govscan/internal/domain/model"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// errCiphertextTooShort means a stored value is shorter than its nonce.
var errCiphertextTooShort = errors.New("ciphertext too short")

// CredentialRepo stores API tokens sealed with AES-256-GCM. The service name is
// bound as additional data, so a value copied onto another service's row fails
// to open.
type CredentialRepo struct {
	db   *DB
	aead cipher.AEAD // nil when no key is configured.
}

// NewCredentialRepo creates a CredentialRepo. key must be 32 bytes. A nil or
// unusable key disables the store: every call except Delete returns
// driven.ErrEncryptionKeyNotSet.
func NewCredentialRepo(db *DB, key []byte) *CredentialRepo {
	repo := &CredentialRepo{db: db}
	if key == nil {
		return repo
	}

	aead, err := newAEAD(key)
	if err != nil {
		slog.Error("credential store disabled", "error", err)
		return repo
	}
	repo.aead = aead
	return repo
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return aead, nil
}

// Set stores or replaces the token for service.
func (r *CredentialRepo) Set(ctx context.Context, service, plaintext string) error {
	sealed, err := r.seal(service, plaintext)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO credentials (service, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.Writer.ExecContext(ctx, query, service, sealed); err != nil {
		return fmt.Errorf("set credential %q: %w", service, err)
	}
	return nil
}

// Get returns the token for service, or "" when none is stored.
func (r *CredentialRepo) Get(ctx context.Context, service string) (string, error) {
	if r.aead == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	var sealed string
	err := r.db.Reader.QueryRowContext(ctx, `SELECT value FROM credentials WHERE service = ?`, service).Scan(&sealed)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("get credential %q: %w", service, err)
	}

	return r.open(service, sealed)
}

// List returns every stored credential with its token, ordered by service.
func (r *CredentialRepo) List(ctx context.Context) ([]model.Credential, error) {
	if r.aead == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	rows, err := r.db.Reader.QueryContext(ctx,
		`SELECT id, service, value, updated_at FROM credentials ORDER BY service`)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var out []model.Credential
	for rows.Next() {
		var (
			c         model.Credential
			sealed    string
			updatedAt string
		)
		if err := rows.Scan(&c.ID, &c.Service, &sealed, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		if c.Value, err = r.open(c.Service, sealed); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("credential %q updated_at: %w", c.Service, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}

	return out, nil
}

// Delete removes the token for service. Deleting works without a key so a
// token sealed under a lost key can still be cleared.
func (r *CredentialRepo) Delete(ctx context.Context, service string) error {
	if _, err := r.db.Writer.ExecContext(ctx, `DELETE FROM credentials WHERE service = ?`, service); err != nil {
		return fmt.Errorf("delete credential %q: %w", service, err)
	}
	return nil
}

// seal returns base64(nonce || ciphertext || tag).
func (r *CredentialRepo) seal(service, plaintext string) (string, error) {
	if r.aead == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	nonce := make([]byte, r.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := r.aead.Seal(nonce, nonce, []byte(plaintext), []byte(service))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (r *CredentialRepo) open(service, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode credential %q: %w", service, err)
	}

	n := r.aead.NonceSize()
	if len(data) < n {
		return "", fmt.Errorf("decrypt credential %q: %w", service, errCiphertextTooShort)
	}

	plaintext, err := r.aead.Open(nil, data[:n], data[n:], []byte(service))
	if err != nil {
		return "", fmt.Errorf("decrypt credential %q: %w", service, err)
	}
	return string(plaintext), nil
}
