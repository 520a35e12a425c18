package customdict

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"textcleanup/internal/dictionary"
)

// DefaultKey is the Redis set holding custom words.
const DefaultKey = "custom_dict"

// CustomDict wraps a Redis client to store custom dictionary words.
type CustomDict struct {
	client redis.UniversalClient
	key    string
}

// New creates a new CustomDict with the provided Redis client.
func New(client redis.UniversalClient) *CustomDict {
	return &CustomDict{client: client, key: DefaultKey}
}

// WithKey returns a copy of cd that stores words under key.
func (cd *CustomDict) WithKey(key string) *CustomDict {
	return &CustomDict{client: cd.client, key: key}
}

// Add inserts a word into the custom dictionary.
func (cd *CustomDict) Add(ctx context.Context, word string) error {
	return cd.client.SAdd(ctx, cd.key, strings.TrimSpace(word)).Err()
}

// Remove deletes a word from the custom dictionary.
func (cd *CustomDict) Remove(ctx context.Context, word string) error {
	return cd.client.SRem(ctx, cd.key, strings.TrimSpace(word)).Err()
}

// All returns all words stored in the custom dictionary.
func (cd *CustomDict) All(ctx context.Context) ([]string, error) {
	return cd.client.SMembers(ctx, cd.key).Result()
}

// Extend returns base extended with every custom word.
func (cd *CustomDict) Extend(ctx context.Context, base *dictionary.Dictionary) (*dictionary.Dictionary, error) {
	words, err := cd.All(ctx)
	if err != nil {
		return nil, err
	}
	return base.With(words...), nil
}
