package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an injected client, bypassing connection setup.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
