package match

import (
	"github.com/huandu/skiplist"
	"github.com/shopspring/decimal"
)

// skiplistBackend is the default Ladder backend, grounded on the teacher's
// queue.go NewBuyerQueue/NewSellerQueue: a huandu/skiplist with a
// side-specific comparator so Front() is always the best price.
type skiplistBackend struct {
	sl *skiplist.SkipList
}

func newSkiplistBackend(side Side) *skiplistBackend {
	var cmp skiplist.GreaterThanFunc
	if side == Buy {
		cmp = func(lhs, rhs interface{}) int {
			a, b := lhs.(decimal.Decimal), rhs.(decimal.Decimal)
			switch {
			case a.LessThan(b):
				return 1
			case a.GreaterThan(b):
				return -1
			default:
				return 0
			}
		}
	} else {
		cmp = func(lhs, rhs interface{}) int {
			a, b := lhs.(decimal.Decimal), rhs.(decimal.Decimal)
			switch {
			case a.GreaterThan(b):
				return 1
			case a.LessThan(b):
				return -1
			default:
				return 0
			}
		}
	}
	return &skiplistBackend{sl: skiplist.New(cmp)}
}

func (b *skiplistBackend) Insert(p decimal.Decimal) { b.sl.Set(p, struct{}{}) }
func (b *skiplistBackend) Delete(p decimal.Decimal) { b.sl.Remove(p) }

func (b *skiplistBackend) Best() (decimal.Decimal, bool) {
	el := b.sl.Front()
	if el == nil {
		return decimal.Decimal{}, false
	}
	return el.Key().(decimal.Decimal), true
}

func (b *skiplistBackend) Len() int { return b.sl.Len() }

func (b *skiplistBackend) Ascend(fn func(decimal.Decimal) bool) {
	for el := b.sl.Front(); el != nil; el = el.Next() {
		if !fn(el.Key().(decimal.Decimal)) {
			return
		}
	}
}
