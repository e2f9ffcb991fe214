package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"

	"accord/internal/domain"
)

var bucketNotifications = []byte("notifications")

// BoltQueue is a persistent FIFO of notifications.
type BoltQueue struct {
	db *bolt.DB
}

// OpenBoltQueue opens (or creates) the queue database at path.
func OpenBoltQueue(path string) (*BoltQueue, error) {
	db, err := bolt.Open(filepath.Clean(path), 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open queue: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketNotifications)
		return e
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltQueue{db: db}, nil
}

// Close closes the queue database.
func (q *BoltQueue) Close() error { return q.db.Close() }

// Enqueue appends n to the queue.
func (q *BoltQueue) Enqueue(_ context.Context, n domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	v, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return q.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketNotifications)
		if bk == nil {
			return bolt.ErrBucketNotFound
		}
		seq, err := bk.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return bk.Put(key, v)
	})
}

// Drain removes and returns up to limit notifications, oldest first.
func (q *BoltQueue) Drain(_ context.Context, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	err := q.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketNotifications)
		if bk == nil {
			return bolt.ErrBucketNotFound
		}
		// Collect first, delete after: deleting under a live cursor skips keys.
		var keys [][]byte
		c := bk.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var n domain.Notification
			if err := json.Unmarshal(v, &n); err != nil {
				return fmt.Errorf("decode notification: %w", err)
			}
			out = append(out, n)
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := bk.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Len returns the number of queued notifications.
func (q *BoltQueue) Len(_ context.Context) (int, error) {
	var n int
	err := q.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketNotifications)
		if bk == nil {
			return bolt.ErrBucketNotFound
		}
		n = bk.Stats().KeyN
		return nil
	})
	return n, err
}

// Compile-time assertion that BoltQueue implements domain.NotificationQueue.
var _ domain.NotificationQueue = (*BoltQueue)(nil)
