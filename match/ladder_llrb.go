package match

import (
	"github.com/finprim/lobengine/structure"
	"github.com/shopspring/decimal"
)

// llrbBackend adapts structure.PriceTree (the teacher's LLRB tree,
// previously exercised only by its own test/benchmark) into a real,
// selectable Ladder backend. Same negated-key trick as
// pooledSkiplistBackend gives the bid side descending order from an
// ascending-only tree.
type llrbBackend struct {
	side Side
	tree *structure.PriceTree
}

func newLLRBBackend(side Side, capacityHint int32) *llrbBackend {
	if capacityHint <= 0 {
		capacityHint = 64
	}
	return &llrbBackend{side: side, tree: structure.NewPriceTree(capacityHint)}
}

func (b *llrbBackend) key(p decimal.Decimal) decimal.Decimal {
	if b.side == Buy {
		return p.Neg()
	}
	return p
}

func (b *llrbBackend) unkey(k decimal.Decimal) decimal.Decimal {
	if b.side == Buy {
		return k.Neg()
	}
	return k
}

func (b *llrbBackend) Insert(p decimal.Decimal) { b.tree.Insert(b.key(p)) }
func (b *llrbBackend) Delete(p decimal.Decimal) { b.tree.Delete(b.key(p)) }

func (b *llrbBackend) Best() (decimal.Decimal, bool) {
	k, ok := b.tree.Min()
	if !ok {
		return decimal.Decimal{}, false
	}
	return b.unkey(k), true
}

func (b *llrbBackend) Len() int { return int(b.tree.Count()) }

func (b *llrbBackend) Ascend(fn func(decimal.Decimal) bool) {
	for _, k := range b.tree.InOrderSlice() {
		if !fn(b.unkey(k)) {
			return
		}
	}
}
