package match

import (
	"github.com/igrmk/treemap/v2"
	"github.com/shopspring/decimal"
)

// treemapBackend is the alternate balanced-tree Ladder realization spec.md
// §4.4/§9 calls out as an equally acceptable option. It is grounded on the
// teacher's aggregated_book.go, whose AggregatedBook declared a pair of
// igrmk/treemap/v2 trees but left Replay/OnRebuild/Depth as stubs that
// never actually inserted into them. Here the tree does real matching-path
// work instead of sitting idle behind a stub.
type treemapBackend struct {
	tm *treemap.TreeMap[decimal.Decimal, struct{}]
}

func newTreemapBackend(side Side) *treemapBackend {
	var less func(a, b decimal.Decimal) bool
	if side == Buy {
		less = func(a, b decimal.Decimal) bool { return a.GreaterThan(b) }
	} else {
		less = func(a, b decimal.Decimal) bool { return a.LessThan(b) }
	}
	return &treemapBackend{tm: treemap.NewWithKeyCompare[decimal.Decimal, struct{}](less)}
}

func (b *treemapBackend) Insert(p decimal.Decimal) { b.tm.Set(p, struct{}{}) }
func (b *treemapBackend) Delete(p decimal.Decimal) { b.tm.Del(p) }

func (b *treemapBackend) Best() (decimal.Decimal, bool) {
	it := b.tm.Iterator()
	if !it.Valid() {
		return decimal.Decimal{}, false
	}
	return it.Key(), true
}

func (b *treemapBackend) Len() int { return b.tm.Len() }

func (b *treemapBackend) Ascend(fn func(decimal.Decimal) bool) {
	for it := b.tm.Iterator(); it.Valid(); it.Next() {
		if !fn(it.Key()) {
			return
		}
	}
}
