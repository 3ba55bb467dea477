package match

import (
	"time"

	"github.com/finprim/lobengine/structure"
	"github.com/shopspring/decimal"
)

// pooledSkiplistBackend adapts structure.PooledSkiplist — declared in the
// teacher repo but previously exercised only by its own unit test and
// benchmark — into a real, selectable Ladder backend. The bid side stores
// negated prices so the single ascending arena structure serves both
// directions.
type pooledSkiplistBackend struct {
	side Side
	sl   *structure.PooledSkiplist
}

func newPooledSkiplistBackend(side Side, capacityHint int32) *pooledSkiplistBackend {
	if capacityHint <= 0 {
		capacityHint = 64
	}
	return &pooledSkiplistBackend{
		side: side,
		sl:   structure.NewPooledSkiplist(capacityHint, time.Now().UnixNano()),
	}
}

func (b *pooledSkiplistBackend) key(p decimal.Decimal) decimal.Decimal {
	if b.side == Buy {
		return p.Neg()
	}
	return p
}

func (b *pooledSkiplistBackend) unkey(k decimal.Decimal) decimal.Decimal {
	if b.side == Buy {
		return k.Neg()
	}
	return k
}

func (b *pooledSkiplistBackend) Insert(p decimal.Decimal) { b.sl.MustInsert(b.key(p)) }
func (b *pooledSkiplistBackend) Delete(p decimal.Decimal) { b.sl.Delete(b.key(p)) }

func (b *pooledSkiplistBackend) Best() (decimal.Decimal, bool) {
	k, ok := b.sl.Min()
	if !ok {
		return decimal.Decimal{}, false
	}
	return b.unkey(k), true
}

func (b *pooledSkiplistBackend) Len() int { return int(b.sl.Count()) }

func (b *pooledSkiplistBackend) Ascend(fn func(decimal.Decimal) bool) {
	for _, k := range b.sl.InOrderSlice() {
		if !fn(b.unkey(k)) {
			return
		}
	}
}
