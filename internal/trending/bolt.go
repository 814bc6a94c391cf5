package trending

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pders01/marquee/internal/catalog"
)

var searchesBucket = []byte("searches")

// BoltCounter keeps counts in a local bbolt file.
type BoltCounter struct {
	db *bolt.DB
}

func NewBoltCounter(dbPath string, timeout time.Duration) (*BoltCounter, error) {
	if timeout <= 0 {
		timeout = time.Second
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(searchesBucket)
		return createErr
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltCounter{db: db}, nil
}

func (c *BoltCounter) Close() error {
	return c.db.Close()
}

// Record increments term and remembers movie as its latest top result.
func (c *BoltCounter) Record(ctx context.Context, term string, movie catalog.Movie) error {
	key := Normalize(term)
	if key == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchesBucket)
		entry := Entry{Term: key}
		if data := b.Get([]byte(key)); data != nil {
			if err := json.Unmarshal(data, &entry); err != nil {
				return fmt.Errorf("decoding %q: %w", key, err)
			}
		}
		entry.Count++
		entry.MovieID = movie.ID
		entry.Title = movie.Title
		entry.PosterPath = movie.PosterPath

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

// Top returns the n most searched terms, highest count first.
func (c *BoltCounter) Top(ctx context.Context, n int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []Entry
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return nil
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rank(entries, n), nil
}

// Reset removes every recorded search.
func (c *BoltCounter) Reset(context.Context) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(searchesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(searchesBucket)
		return err
	})
}
