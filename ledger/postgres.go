package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgDB is the subset of *pgxpool.Pool used by PGLedger.
type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Compile-time interface check.
var _ Ledger = (*PGLedger)(nil)

const schemaCertificates = `
CREATE TABLE IF NOT EXISTS certificates (
    hash  TEXT PRIMARY KEY,
    owner TEXT   NOT NULL,
    ts    BIGINT NOT NULL
)`

// PGLedger stores certificates in a Postgres table.
type PGLedger struct {
	db   pgDB
	pool *pgxpool.Pool // nil when constructed over a caller-owned pgDB
	opts options
}

// NewPGLedger wraps an existing pool. The caller keeps ownership of the pool.
func NewPGLedger(pool *pgxpool.Pool, opts ...Option) *PGLedger {
	return &PGLedger{db: pool, opts: newOptions(opts)}
}

// OpenPGLedger connects to databaseURL and ensures the schema exists.
// Close releases the pool.
func OpenPGLedger(ctx context.Context, databaseURL string, opts ...Option) (*PGLedger, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: postgres: %w", ErrConnectionFailed, err)
	}
	l := &PGLedger{db: pool, pool: pool, opts: newOptions(opts)}
	if err := l.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return l, nil
}

// Migrate creates the certificates table if it does not exist.
func (l *PGLedger) Migrate(ctx context.Context) error {
	if _, err := l.db.Exec(ctx, schemaCertificates); err != nil {
		return fmt.Errorf("ledger: migrate: %w", err)
	}
	return nil
}

// Close releases the pool if OpenPGLedger created it.
func (l *PGLedger) Close() error {
	if l.pool != nil {
		l.pool.Close()
	}
	return nil
}

// Store registers hash. The primary key makes a concurrent duplicate insert a no-op,
// which is then resolved by the duplicate policy.
func (l *PGLedger) Store(ctx context.Context, hash string) error {
	if hash == "" {
		return ErrEmptyHash
	}
	cert := l.opts.newCertificate(ctx, hash)
	tag, err := l.db.Exec(ctx,
		`INSERT INTO certificates (hash, owner, ts)
         VALUES ($1, $2, $3)
         ON CONFLICT (hash) DO NOTHING`,
		cert.Hash, cert.Owner, cert.Timestamp)
	if err != nil {
		return fmt.Errorf("ledger: insert certificate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return l.opts.policy.onDuplicate(hash)
	}
	return nil
}

// Verify looks up hash.
func (l *PGLedger) Verify(ctx context.Context, hash string) (Certificate, bool, error) {
	var cert Certificate
	err := l.db.QueryRow(ctx,
		`SELECT hash, owner, ts FROM certificates WHERE hash = $1`, hash).
		Scan(&cert.Hash, &cert.Owner, &cert.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return Certificate{}, false, nil
	}
	if err != nil {
		return Certificate{}, false, fmt.Errorf("ledger: select certificate: %w", err)
	}
	return cert, true, nil
}

// List returns all records ordered by timestamp.
func (l *PGLedger) List(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.Query(ctx,
		`SELECT hash, owner, ts FROM certificates ORDER BY ts ASC`)
	if err != nil {
		return nil, fmt.Errorf("ledger: list certificates: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var cert Certificate
		if err := rows.Scan(&cert.Hash, &cert.Owner, &cert.Timestamp); err != nil {
			return nil, fmt.Errorf("ledger: scan certificate: %w", err)
		}
		entries = append(entries, Entry{Hash: cert.Hash, Certificate: cert})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: list certificates: %w", err)
	}
	return entries, nil
}
