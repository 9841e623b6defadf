package dupehash

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"encoding/hex"
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// GroupKey identifies an equivalence class: same size and same digest.
// The digest is held as a string so the key is comparable and can index maps.
type GroupKey struct {
	size   uint64
	digest string
}

// NewGroupKey builds a key from a size and raw digest bytes
func NewGroupKey(size uint64, digest []byte) GroupKey {
	return GroupKey{size: size, digest: string(digest)}
}

// Size returns the byte size shared by every file in the group
func (k GroupKey) Size() uint64 { return k.size }

// Digest returns a copy of the raw digest bytes
func (k GroupKey) Digest() []byte { return []byte(k.digest) }

// Hex returns the digest as lowercase hex
func (k GroupKey) Hex() string { return hex.EncodeToString([]byte(k.digest)) }

// Compare orders keys by size, then digest bytes
func (k GroupKey) Compare(other GroupKey) int {
	if c := cmp.Compare(k.size, other.size); c != 0 {
		return c
	}
	return bytes.Compare([]byte(k.digest), []byte(other.digest))
}

// shardHash is FNV-1a over the little-endian size followed by the digest
func (k GroupKey) shardHash() uint64 {
	h := fnv.New64a()
	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], k.size)
	h.Write(sizeBuf[:])
	h.Write([]byte(k.digest))
	return h.Sum64()
}

// EquivalenceGroup is every path seen so far for one key. Paths are kept in
// insertion order; the aggregator sorts them.
type EquivalenceGroup struct {
	Key   GroupKey
	Paths []string
}

type storeShard struct {
	mu     sync.Mutex
	groups map[GroupKey]*EquivalenceGroup
}

// GroupingStore maps GroupKey to EquivalenceGroup. It is partitioned into
// shards selected by a hash of the key so concurrent upserts on different
// keys rarely contend. Each key lives in exactly one shard, so the per-shard
// lock is enough to keep one group per key.
type GroupingStore struct {
	shards []storeShard
	mask   uint64
	sealed atomic.Bool
}

// NewGroupingStore creates a store with shardCount rounded up to a power of two
func NewGroupingStore(shardCount int) *GroupingStore {
	n := 1
	for n < shardCount {
		n <<= 1
	}
	s := &GroupingStore{
		shards: make([]storeShard, n),
		mask:   uint64(n - 1),
	}
	for i := range s.shards {
		s.shards[i].groups = make(map[GroupKey]*EquivalenceGroup)
	}
	return s
}

// ShardCount returns the number of shards
func (s *GroupingStore) ShardCount() int {
	return len(s.shards)
}

func (s *GroupingStore) shardFor(key GroupKey) *storeShard {
	return &s.shards[key.shardHash()&s.mask]
}

// Upsert adds path to the group for key, creating the group if this is the
// first path with that key. It reports whether a new group was created.
// Upsert panics once the store is sealed.
func (s *GroupingStore) Upsert(key GroupKey, path string) bool {
	if s.sealed.Load() {
		panic("dupehash: Upsert on sealed GroupingStore")
	}

	shard := s.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if group, ok := shard.groups[key]; ok {
		group.Paths = append(group.Paths, path)
		return false
	}
	shard.groups[key] = &EquivalenceGroup{Key: key, Paths: []string{path}}
	return true
}

// Seal ends the mutation phase
func (s *GroupingStore) Seal() {
	s.sealed.Store(true)
}

// Sealed reports whether Seal has been called
func (s *GroupingStore) Sealed() bool {
	return s.sealed.Load()
}

// Len returns the number of distinct keys
func (s *GroupingStore) Len() int {
	total := 0
	for i := range s.shards {
		s.shards[i].mu.Lock()
		total += len(s.shards[i].groups)
		s.shards[i].mu.Unlock()
	}
	return total
}

// Lookup returns a copy of the group for key
func (s *GroupingStore) Lookup(key GroupKey) (EquivalenceGroup, bool) {
	shard := s.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	group, ok := shard.groups[key]
	if !ok {
		return EquivalenceGroup{}, false
	}
	return EquivalenceGroup{Key: group.Key, Paths: append([]string(nil), group.Paths...)}, true
}

// Snapshot returns a deep copy of every group, in no particular order.
// The store must be sealed first.
func (s *GroupingStore) Snapshot() []EquivalenceGroup {
	if !s.sealed.Load() {
		panic("dupehash: Snapshot of unsealed GroupingStore")
	}

	var out []EquivalenceGroup
	for i := range s.shards {
		shard := &s.shards[i]
		shard.mu.Lock()
		for _, group := range shard.groups {
			out = append(out, EquivalenceGroup{
				Key:   group.Key,
				Paths: append([]string(nil), group.Paths...),
			})
		}
		shard.mu.Unlock()
	}
	return out
}
