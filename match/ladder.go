package match

import "github.com/shopspring/decimal"

// PriceDecimalPlaces fixes MIN_PRICE_INCREMENT at 1e-2, per spec.
const PriceDecimalPlaces = 2

// MinPriceIncrement is the smallest distinguishable price step. Two prices
// closer than this are the same price level.
var MinPriceIncrement = decimal.New(1, -int32(PriceDecimalPlaces))

func roundPrice(p decimal.Decimal) decimal.Decimal {
	return p.Round(PriceDecimalPlaces)
}

func pricesEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(MinPriceIncrement)
}

// ladderBackend tracks the set of resident price levels for one side, in
// the side's canonical best-first order. It never stores order data, only
// the ordered key set; PriceLevel storage lives in Ladder.levels.
type ladderBackend interface {
	Insert(price decimal.Decimal)
	Delete(price decimal.Decimal)
	Best() (decimal.Decimal, bool)
	Len() int
	// Ascend visits resident prices best-first, stopping when fn returns false.
	Ascend(fn func(price decimal.Decimal) bool)
}

// LadderBackendKind selects which ladderBackend realization a Ladder uses.
// All four give the same externally observable behavior; they differ in
// their big-O and constant-factor tradeoffs (spec.md §4.4/§9: "sorted
// vector vs. balanced tree ... either is acceptable").
type LadderBackendKind int8

const (
	BackendSkiplist LadderBackendKind = iota
	BackendTreeMap
	BackendPooledSkiplist
	BackendLLRB
)

// Ladder is one side of the book: an ordered set of price levels plus the
// FIFO queue resident at each price.
type Ladder struct {
	side    Side
	backend ladderBackend
	levels  map[string]*PriceLevel
}

func newLadder(side Side, kind LadderBackendKind, capacityHint int) *Ladder {
	var b ladderBackend
	switch kind {
	case BackendTreeMap:
		b = newTreemapBackend(side)
	case BackendPooledSkiplist:
		b = newPooledSkiplistBackend(side, int32(capacityHint))
	case BackendLLRB:
		b = newLLRBBackend(side, int32(capacityHint))
	default:
		b = newSkiplistBackend(side)
	}
	if capacityHint <= 0 {
		capacityHint = 64
	}
	return &Ladder{side: side, backend: b, levels: make(map[string]*PriceLevel, capacityHint)}
}

func (l *Ladder) getOrCreateLevel(price decimal.Decimal) *PriceLevel {
	rp := roundPrice(price)
	key := rp.String()
	lvl, ok := l.levels[key]
	if !ok {
		lvl = newPriceLevel(rp)
		l.levels[key] = lvl
		l.backend.Insert(rp)
	}
	return lvl
}

func (l *Ladder) levelAt(price decimal.Decimal) (*PriceLevel, bool) {
	lvl, ok := l.levels[roundPrice(price).String()]
	return lvl, ok
}

// removeLevelIfEmpty drops a level from both the map and the backend once
// its last order has been removed. Invariant I3: the ladder never carries
// an empty level.
func (l *Ladder) removeLevelIfEmpty(lvl *PriceLevel) {
	if lvl.OrderCount == 0 {
		delete(l.levels, lvl.Price.String())
		l.backend.Delete(lvl.Price)
	}
}

// Best returns the best (highest bid / lowest ask) resident level.
func (l *Ladder) Best() (decimal.Decimal, *PriceLevel, bool) {
	p, ok := l.backend.Best()
	if !ok {
		return decimal.Decimal{}, nil, false
	}
	return p, l.levels[p.String()], true
}

func (l *Ladder) LevelCount() int {
	return l.backend.Len()
}

// LevelDepth is one row of a depth snapshot.
type LevelDepth struct {
	Price         decimal.Decimal
	TotalQuantity uint64
	OrderCount    int
}

// Depth returns up to n resident levels, best-first.
func (l *Ladder) Depth(n int) []LevelDepth {
	if n <= 0 {
		return nil
	}
	out := make([]LevelDepth, 0, n)
	l.backend.Ascend(func(price decimal.Decimal) bool {
		lvl := l.levels[price.String()]
		out = append(out, LevelDepth{Price: lvl.Price, TotalQuantity: lvl.TotalQuantity, OrderCount: lvl.OrderCount})
		return len(out) < n
	})
	return out
}
