package keyval

import (
	"context"
	"sort"
	"sync"
)

// Memory is a mutex-guarded in-process Store used in tests and local
// development. Sorted-set range order follows Redis: by score, ties broken
// lexicographically by member.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	hashes map[string]map[string]string
	zsets  map[string]map[string]float64
}

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
		hashes: make(map[string]map[string]string),
		zsets:  make(map[string]map[string]float64),
	}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.values[key]
	return val, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
		delete(m.hashes, key)
		delete(m.zsets, key)
	}
	return nil
}

func (m *Memory) HashGet(ctx context.Context, key, field string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[key]
	if !ok {
		return "", false, nil
	}
	val, ok := h[field]
	return val, ok, nil
}

func (m *Memory) HashSet(ctx context.Context, key, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	h[field] = value
	return nil
}

func (m *Memory) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make(map[string]string, len(m.hashes[key]))
	for field, val := range m.hashes[key] {
		res[field] = val
	}
	return res, nil
}

func (m *Memory) SortedSetIncrement(ctx context.Context, key, member string, delta float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, ok := m.zsets[key]
	if !ok {
		z = make(map[string]float64)
		m.zsets[key] = z
	}
	z[member] += delta
	return nil
}

func (m *Memory) SortedSetAdd(ctx context.Context, key, member string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, ok := m.zsets[key]
	if !ok {
		z = make(map[string]float64)
		m.zsets[key] = z
	}
	z[member] = score
	return nil
}

func (m *Memory) SortedSetRemove(ctx context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, ok := m.zsets[key]
	if !ok {
		return nil
	}
	for _, member := range members {
		delete(z, member)
	}
	return nil
}

func (m *Memory) SortedSetRangeDescendingWithScores(ctx context.Context, key string) ([]MemberScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z := m.zsets[key]
	res := make([]MemberScore, 0, len(z))
	for member, score := range z {
		res = append(res, MemberScore{Member: member, Score: score})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		return res[i].Member > res[j].Member
	})
	return res, nil
}

func (m *Memory) SortedSetRangeByScoreMax(ctx context.Context, key string, max float64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z := m.zsets[key]
	due := make([]MemberScore, 0)
	for member, score := range z {
		if score <= max {
			due = append(due, MemberScore{Member: member, Score: score})
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].Score != due[j].Score {
			return due[i].Score < due[j].Score
		}
		return due[i].Member < due[j].Member
	})
	members := make([]string, len(due))
	for i, ms := range due {
		members[i] = ms.Member
	}
	return members, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
