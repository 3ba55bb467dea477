package structure

import (
	"errors"
	"math/rand"

	"github.com/shopspring/decimal"
)

// PooledSkiplist implements a fixed-level skiplist with arena-based memory
// management. This provides O(log N) operations with zero allocations on
// the hot path once capacity is warm.
//
// Design:
//   - All nodes have fixed MaxLevel pointers (wastes some memory but enables pooling)
//   - Node arena is pre-allocated with automatic expansion when exhausted
//   - Uses random level generation for probabilistic balancing
//
// It stores bare decimal.Decimal keys only — callers needing a descending
// (bid-side) order store the negated price and negate it back on read.
const (
	SkiplistMaxLevel    = 16
	SkiplistP           = 4
	DefaultGrowthFactor = 2
)

var ErrMaxCapacityReached = errors.New("skiplist: max capacity reached")

// SkiplistNode is one node in the pooled skiplist's arena.
type SkiplistNode struct {
	Forward [SkiplistMaxLevel]int32
	Price   decimal.Decimal
	Level   int32
}

// SkiplistOptions configures the pooled skiplist's growth behavior.
type SkiplistOptions struct {
	// MaxCapacity caps the arena; 0 means unlimited.
	MaxCapacity int32
	// OnGrow fires whenever the arena expands.
	OnGrow func(oldCap, newCap int32)
}

// PooledSkiplist is an arena-backed ordered set of prices.
type PooledSkiplist struct {
	nodes       []SkiplistNode
	head        int32
	freeHead    int32
	count       int32
	level       int32
	rng         *rand.Rand
	maxCapacity int32
	onGrow      func(int32, int32)
}

func NewPooledSkiplist(capacity int32, seed int64) *PooledSkiplist {
	return NewPooledSkiplistWithOptions(capacity, seed, SkiplistOptions{})
}

func NewPooledSkiplistWithOptions(capacity int32, seed int64, opts SkiplistOptions) *PooledSkiplist {
	totalCap := capacity + 1
	sl := &PooledSkiplist{
		nodes:       make([]SkiplistNode, totalCap),
		freeHead:    1,
		count:       0,
		level:       1,
		rng:         rand.New(rand.NewSource(seed)),
		maxCapacity: opts.MaxCapacity,
		onGrow:      opts.OnGrow,
	}

	sl.head = 0
	sl.nodes[0].Level = SkiplistMaxLevel
	for i := 0; i < SkiplistMaxLevel; i++ {
		sl.nodes[0].Forward[i] = NullIndex
	}

	for i := int32(1); i < totalCap-1; i++ {
		sl.nodes[i].Forward[0] = i + 1
	}
	sl.nodes[totalCap-1].Forward[0] = NullIndex

	return sl
}

func (sl *PooledSkiplist) grow() error {
	oldCap := int32(len(sl.nodes))
	newCap := oldCap * DefaultGrowthFactor

	if sl.maxCapacity > 0 && newCap > sl.maxCapacity {
		if oldCap >= sl.maxCapacity {
			return ErrMaxCapacityReached
		}
		newCap = sl.maxCapacity
	}

	if sl.onGrow != nil {
		sl.onGrow(oldCap, newCap)
	}

	newNodes := make([]SkiplistNode, newCap)
	copy(newNodes, sl.nodes)

	for i := oldCap; i < newCap-1; i++ {
		newNodes[i].Forward[0] = i + 1
	}
	newNodes[newCap-1].Forward[0] = sl.freeHead
	sl.freeHead = oldCap

	sl.nodes = newNodes
	return nil
}

func (sl *PooledSkiplist) alloc() (int32, error) {
	if sl.freeHead == NullIndex {
		if err := sl.grow(); err != nil {
			return NullIndex, err
		}
	}
	idx := sl.freeHead
	sl.freeHead = sl.nodes[idx].Forward[0]

	for i := 0; i < SkiplistMaxLevel; i++ {
		sl.nodes[idx].Forward[i] = NullIndex
	}
	return idx, nil
}

func (sl *PooledSkiplist) free(idx int32) {
	sl.nodes[idx].Forward[0] = sl.freeHead
	sl.freeHead = idx
}

func (sl *PooledSkiplist) randomLevel() int32 {
	level := int32(1)
	for level < SkiplistMaxLevel && sl.rng.Intn(SkiplistP) == 0 {
		level++
	}
	return level
}

// Insert adds price, returning false if it was already present.
func (sl *PooledSkiplist) Insert(price decimal.Decimal) (bool, error) {
	var update [SkiplistMaxLevel]int32
	x := sl.head

	for i := sl.level - 1; i >= 0; i-- {
		for sl.nodes[x].Forward[i] != NullIndex &&
			sl.nodes[sl.nodes[x].Forward[i]].Price.LessThan(price) {
			x = sl.nodes[x].Forward[i]
		}
		update[i] = x
	}

	x = sl.nodes[x].Forward[0]

	if x != NullIndex && sl.nodes[x].Price.Equal(price) {
		return false, nil
	}

	newLevel := sl.randomLevel()
	if newLevel > sl.level {
		for i := sl.level; i < newLevel; i++ {
			update[i] = sl.head
		}
		sl.level = newLevel
	}

	newNode, err := sl.alloc()
	if err != nil {
		return false, err
	}
	sl.nodes[newNode].Price = price
	sl.nodes[newNode].Level = newLevel

	for i := int32(0); i < newLevel; i++ {
		sl.nodes[newNode].Forward[i] = sl.nodes[update[i]].Forward[i]
		sl.nodes[update[i]].Forward[i] = newNode
	}

	sl.count++
	return true, nil
}

// MustInsert is like Insert but panics on error; use only when the caller
// has already sized capacity generously (e.g. a Ladder backend).
func (sl *PooledSkiplist) MustInsert(price decimal.Decimal) bool {
	inserted, err := sl.Insert(price)
	if err != nil {
		panic(err)
	}
	return inserted
}

func (sl *PooledSkiplist) Contains(price decimal.Decimal) bool {
	x := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for sl.nodes[x].Forward[i] != NullIndex &&
			sl.nodes[sl.nodes[x].Forward[i]].Price.LessThan(price) {
			x = sl.nodes[x].Forward[i]
		}
	}
	x = sl.nodes[x].Forward[0]
	return x != NullIndex && sl.nodes[x].Price.Equal(price)
}

// Delete removes price, returning false if it was not present.
func (sl *PooledSkiplist) Delete(price decimal.Decimal) bool {
	var update [SkiplistMaxLevel]int32
	x := sl.head

	for i := sl.level - 1; i >= 0; i-- {
		for sl.nodes[x].Forward[i] != NullIndex &&
			sl.nodes[sl.nodes[x].Forward[i]].Price.LessThan(price) {
			x = sl.nodes[x].Forward[i]
		}
		update[i] = x
	}

	x = sl.nodes[x].Forward[0]

	if x == NullIndex || !sl.nodes[x].Price.Equal(price) {
		return false
	}

	for i := int32(0); i < sl.level; i++ {
		if sl.nodes[update[i]].Forward[i] != x {
			break
		}
		sl.nodes[update[i]].Forward[i] = sl.nodes[x].Forward[i]
	}

	sl.free(x)

	for sl.level > 1 && sl.nodes[sl.head].Forward[sl.level-1] == NullIndex {
		sl.level--
	}

	sl.count--
	return true
}

// Min returns the smallest resident price.
func (sl *PooledSkiplist) Min() (decimal.Decimal, bool) {
	x := sl.nodes[sl.head].Forward[0]
	if x == NullIndex {
		return decimal.Zero, false
	}
	return sl.nodes[x].Price, true
}

func (sl *PooledSkiplist) Count() int32 { return sl.count }

func (sl *PooledSkiplist) Capacity() int32 { return int32(len(sl.nodes)) - 1 }

// InOrderSlice returns every resident price, ascending.
func (sl *PooledSkiplist) InOrderSlice() []decimal.Decimal {
	result := make([]decimal.Decimal, 0, sl.count)
	x := sl.nodes[sl.head].Forward[0]
	for x != NullIndex {
		result = append(result, sl.nodes[x].Price)
		x = sl.nodes[x].Forward[0]
	}
	return result
}
