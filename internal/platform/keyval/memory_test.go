package keyval

import (
	"context"
	"testing"
)

func TestMemoryStringOps(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || val != "v" {
		t.Fatalf("get: val=%q ok=%v err=%v", val, ok, err)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("key survived delete")
	}
}

func TestMemoryHashOps(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, ok, err := store.HashGet(ctx, "h", "f"); err != nil || ok {
		t.Fatalf("missing field: ok=%v err=%v", ok, err)
	}

	if err := store.HashSet(ctx, "h", "f1", "a"); err != nil {
		t.Fatalf("hset: %v", err)
	}
	if err := store.HashSet(ctx, "h", "f2", "b"); err != nil {
		t.Fatalf("hset: %v", err)
	}
	if err := store.HashSet(ctx, "h", "f1", "c"); err != nil {
		t.Fatalf("hset overwrite: %v", err)
	}

	all, err := store.HashGetAll(ctx, "h")
	if err != nil {
		t.Fatalf("hgetall: %v", err)
	}
	if len(all) != 2 || all["f1"] != "c" || all["f2"] != "b" {
		t.Fatalf("unexpected hash contents %v", all)
	}
}

func TestMemorySortedSetOrdering(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	for member, delta := range map[string]float64{"a": 1, "b": 3, "c": 2} {
		if err := store.SortedSetIncrement(ctx, "z", member, delta); err != nil {
			t.Fatalf("zincrby: %v", err)
		}
	}
	if err := store.SortedSetIncrement(ctx, "z", "a", 4); err != nil {
		t.Fatalf("zincrby: %v", err)
	}

	got, err := store.SortedSetRangeDescendingWithScores(ctx, "z")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	want := []MemberScore{{"a", 5}, {"b", 3}, {"c", 2}}
	if len(got) != len(want) {
		t.Fatalf("expected %d members, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestMemorySortedSetRangeByScoreMax(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if err := store.SortedSetAdd(ctx, "q", "early", 100); err != nil {
		t.Fatalf("zadd: %v", err)
	}
	if err := store.SortedSetAdd(ctx, "q", "late", 300); err != nil {
		t.Fatalf("zadd: %v", err)
	}

	due, err := store.SortedSetRangeByScoreMax(ctx, "q", 200)
	if err != nil {
		t.Fatalf("range by score: %v", err)
	}
	if len(due) != 1 || due[0] != "early" {
		t.Fatalf("expected [early], got %v", due)
	}

	if err := store.SortedSetRemove(ctx, "q", "early"); err != nil {
		t.Fatalf("zrem: %v", err)
	}
	due, err = store.SortedSetRangeByScoreMax(ctx, "q", 1000)
	if err != nil {
		t.Fatalf("range by score: %v", err)
	}
	if len(due) != 1 || due[0] != "late" {
		t.Fatalf("expected [late], got %v", due)
	}
}

func TestMemoryDeleteRemovesAllShapes(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_ = store.Set(ctx, "k", "v")
	_ = store.HashSet(ctx, "k", "f", "v")
	_ = store.SortedSetAdd(ctx, "k", "m", 1)

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("string survived")
	}
	all, _ := store.HashGetAll(ctx, "k")
	if len(all) != 0 {
		t.Fatalf("hash survived: %v", all)
	}
	members, _ := store.SortedSetRangeDescendingWithScores(ctx, "k")
	if len(members) != 0 {
		t.Fatalf("zset survived: %v", members)
	}
}
