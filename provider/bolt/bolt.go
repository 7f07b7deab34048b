// Package bolt persists the embedded node store to a single file with bbolt.
// The partition is the bucket name.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	pr "github.com/unkn0wn-root/cachebox/provider"
)

var ErrEmptyPath = errors.New("bolt provider: empty file path")

type Bolt struct {
	db     *bolt.DB
	bucket []byte
	now    func() time.Time
}

var _ pr.Provider = (*Bolt)(nil)

type Config struct {
	Path    string
	Bucket  string        // partition; required
	Timeout time.Duration // file lock wait; 0 => 1s
}

// Open initializes or opens the file at cfg.Path.
func Open(cfg Config) (*Bolt, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}
	if cfg.Bucket == "" {
		return nil, errors.New("bolt provider: empty bucket")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	db, err := bolt.Open(cfg.Path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("bolt provider: open %s: %w", cfg.Path, err)
	}
	bucket := []byte(cfg.Bucket)
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Bolt{db: db, bucket: bucket, now: time.Now}, nil
}

// Set stores the value behind a provider.StampDeadline prefix.
func (p *Bolt) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	rec := pr.StampDeadline(value, ttl, p.now())
	err := p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(p.bucket).Put([]byte(key), rec)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get treats natively expired records as misses; removal is left to the
// connector's tombstone or the next Set.
func (p *Bolt) Get(_ context.Context, key string) ([]byte, bool, error) {
	var (
		out []byte
		hit bool
	)
	err := p.db.View(func(tx *bolt.Tx) error {
		v, live := pr.SplitDeadline(tx.Bucket(p.bucket).Get([]byte(key)), p.now())
		if !live {
			return nil
		}
		// bolt memory is only valid inside the transaction
		out, hit = append([]byte{}, v...), true
		return nil
	})
	if err != nil || !hit {
		return nil, false, err
	}
	return out, true, nil
}

func (p *Bolt) Del(_ context.Context, key string) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(p.bucket).Delete([]byte(key))
	})
}

func (p *Bolt) Close(_ context.Context) error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
