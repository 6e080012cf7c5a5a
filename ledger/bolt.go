package ledger

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var bucketCertificates = []byte("certificates")

// Compile-time interface check.
var _ Ledger = (*BoltLedger)(nil)

// BoltLedger persists certificates in a bbolt database keyed by hash.
type BoltLedger struct {
	db   *bbolt.DB
	opts options
}

// OpenBoltLedger opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltLedger(dbPath string, opts ...Option) (*BoltLedger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCertificates)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create bucket %q: %w", bucketCertificates, err)
	}

	return &BoltLedger{db: db, opts: newOptions(opts)}, nil
}

// Close closes the underlying database.
func (l *BoltLedger) Close() error { return l.db.Close() }

// Store registers hash. The existence check and the write happen in one
// transaction, so concurrent Stores of the same hash create one record.
func (l *BoltLedger) Store(ctx context.Context, hash string) error {
	if hash == "" {
		return ErrEmptyHash
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cert := l.opts.newCertificate(ctx, hash)
	return l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketCertificates)
		if b.Get([]byte(hash)) != nil {
			return l.opts.policy.onDuplicate(hash)
		}
		data, err := encodeGob(cert)
		if err != nil {
			return fmt.Errorf("ledger: encode certificate: %w", err)
		}
		if err := b.Put([]byte(hash), data); err != nil {
			return fmt.Errorf("ledger: put certificate: %w", err)
		}
		return nil
	})
}

// Verify looks up hash.
func (l *BoltLedger) Verify(ctx context.Context, hash string) (Certificate, bool, error) {
	if err := ctx.Err(); err != nil {
		return Certificate{}, false, err
	}
	if hash == "" {
		return Certificate{}, false, nil
	}

	var (
		cert  Certificate
		found bool
	)
	err := l.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketCertificates).Get([]byte(hash))
		if data == nil {
			return nil
		}
		if err := decodeGob(data, &cert); err != nil {
			return fmt.Errorf("ledger: decode certificate: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return Certificate{}, false, err
	}
	return cert, found, nil
}

// List returns all records in key order.
func (l *BoltLedger) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []Entry
	err := l.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCertificates).ForEach(func(k, v []byte) error {
			var cert Certificate
			if err := decodeGob(v, &cert); err != nil {
				return fmt.Errorf("ledger: decode certificate %q: %w", k, err)
			}
			entries = append(entries, Entry{Hash: string(k), Certificate: cert})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: list certificates: %w", err)
	}
	return entries, nil
}

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
