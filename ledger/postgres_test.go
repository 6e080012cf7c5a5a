package ledger

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePG emulates the three statements PGLedger issues.
type fakePG struct {
	mu       sync.Mutex
	rows     map[string]Certificate
	migrated bool
	execErr  error
}

var _ pgDB = (*fakePG)(nil)

func newFakePG() *fakePG { return &fakePG{rows: make(map[string]Certificate)} }

func (f *fakePG) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	switch {
	case strings.Contains(sql, "CREATE TABLE"):
		f.migrated = true
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	case strings.Contains(sql, "INSERT INTO certificates"):
		hash := args[0].(string)
		if _, ok := f.rows[hash]; ok {
			return pgconn.NewCommandTag("INSERT 0 0"), nil
		}
		f.rows[hash] = Certificate{Hash: hash, Owner: args[1].(string), Timestamp: args[2].(int64)}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.CommandTag{}, errors.New("fakePG: unexpected exec")
}

func (f *fakePG) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	cert, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{cert: cert}
}

func (f *fakePG) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	certs := make([]Certificate, 0, len(f.rows))
	for _, c := range f.rows {
		certs = append(certs, c)
	}
	sort.Slice(certs, func(i, j int) bool { return certs[i].Timestamp < certs[j].Timestamp })
	return &fakeRows{certs: certs, pos: -1}, nil
}

type fakeRow struct {
	cert Certificate
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanCertificate(r.cert, dest)
}

type fakeRows struct {
	certs []Certificate
	pos   int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { r.pos++; return r.pos < len(r.certs) }
func (r *fakeRows) Scan(dest ...any) error                       { return scanCertificate(r.certs[r.pos], dest) }
func (r *fakeRows) Values() ([]any, error)                       { return nil, errors.New("not implemented") }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func scanCertificate(c Certificate, dest []any) error {
	*dest[0].(*string) = c.Hash
	*dest[1].(*string) = c.Owner
	*dest[2].(*int64) = c.Timestamp
	return nil
}

func TestPGLedger_WithFake(t *testing.T) {
	ctx := context.Background()
	db := newFakePG()
	l := &PGLedger{db: db, opts: newOptions([]Option{WithClock(fixedClock(testEpoch))})}

	require.NoError(t, l.Migrate(ctx))
	assert.True(t, db.migrated)

	_, found, err := l.Verify(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, l.Store(ctx, "abc123"))
	require.NoError(t, l.Store(ctx, "def456"))
	assert.ErrorIs(t, l.Store(ctx, "abc123"), ErrDuplicate)
	assert.ErrorIs(t, l.Store(ctx, ""), ErrEmptyHash)

	cert, found, err := l.Verify(ctx, "abc123")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, testEpoch.UnixNano(), cert.Timestamp)

	entries, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "abc123", entries[0].Hash)
	assert.Equal(t, "def456", entries[1].Hash)

	l.opts.policy = DuplicateIgnore
	assert.NoError(t, l.Store(ctx, "abc123"))
	assert.NoError(t, l.Close())
}

func TestPGLedger_ExecError(t *testing.T) {
	db := newFakePG()
	db.execErr = errors.New("connection reset")
	l := &PGLedger{db: db, opts: newOptions(nil)}

	err := l.Store(context.Background(), "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Error(t, l.Migrate(context.Background()))
}

func TestPGLedger_Integration(t *testing.T) {
	url := os.Getenv("CERTLEDGER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CERTLEDGER_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	l, err := OpenPGLedger(ctx, url)
	require.NoError(t, err)
	defer l.Close()

	hash := "test-" + uuid.NewString()
	require.NoError(t, l.Store(ctx, hash))
	assert.ErrorIs(t, l.Store(ctx, hash), ErrDuplicate)

	cert, found, err := l.Verify(ctx, hash)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, hash, cert.Hash)
	assert.Equal(t, "2vxsx-fae", cert.Owner)

	_, found, err = l.Verify(ctx, "test-"+uuid.NewString())
	require.NoError(t, err)
	assert.False(t, found)
}
