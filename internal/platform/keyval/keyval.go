package keyval

import "context"

// MemberScore is one entry of a sorted set.
type MemberScore struct {
	Member string
	Score  float64
}

// Store is the keyed-store contract every repository and worker is built on.
// Missing keys are reported through the ok return, not as errors; errors mean
// the store itself failed.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error

	HashGet(ctx context.Context, key, field string) (string, bool, error)
	HashSet(ctx context.Context, key, field, value string) error
	HashGetAll(ctx context.Context, key string) (map[string]string, error)

	SortedSetIncrement(ctx context.Context, key, member string, delta float64) error
	SortedSetAdd(ctx context.Context, key, member string, score float64) error
	SortedSetRemove(ctx context.Context, key string, members ...string) error
	SortedSetRangeDescendingWithScores(ctx context.Context, key string) ([]MemberScore, error)
	SortedSetRangeByScoreMax(ctx context.Context, key string, max float64) ([]string, error)

	Ping(ctx context.Context) error
	Close() error
}
