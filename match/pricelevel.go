package match

import "github.com/shopspring/decimal"

// PriceLevel is every resting order at one price, in strict FIFO order. It
// owns no memory itself; head/tail are handles into the book's orderArena.
type PriceLevel struct {
	Price         decimal.Decimal
	TotalQuantity uint64
	OrderCount    int

	head, tail int32
}

func newPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{Price: price, head: nilSlot, tail: nilSlot}
}

// pushBack appends a newly-resting order at the tail, giving it the lowest
// time priority at this price.
func (l *PriceLevel) pushBack(arena *orderArena, idx int32) {
	node := arena.get(idx)
	node.prev = l.tail
	node.next = nilSlot
	if l.tail != nilSlot {
		arena.get(l.tail).next = idx
	} else {
		l.head = idx
	}
	l.tail = idx
	l.TotalQuantity += node.Remaining()
	l.OrderCount++
}

// removeHandle unlinks idx from the queue and adjusts the level's
// aggregates by the handle's current remaining quantity. The caller is
// still responsible for releasing the arena slot.
func (l *PriceLevel) removeHandle(arena *orderArena, idx int32) {
	node := arena.get(idx)
	if node.prev != nilSlot {
		arena.get(node.prev).next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nilSlot {
		arena.get(node.next).prev = node.prev
	} else {
		l.tail = node.prev
	}
	l.TotalQuantity -= node.Remaining()
	l.OrderCount--
	node.prev, node.next = nilSlot, nilSlot
}
