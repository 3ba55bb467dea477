package match

import "github.com/shopspring/decimal"

// Order is a resting or in-flight order. Price is meaningless for Market
// orders. Timestamp is assigned by the book at admission time; it is not a
// wall-clock guarantee, and matching never reads it: priority within a
// price level comes from queue position (FIFO).
type Order struct {
	ID        OrderID
	Side      Side
	Type      OrderType
	TIF       TIF
	Price     decimal.Decimal
	Quantity  uint64
	Filled    uint64
	Symbol    string
	Account   string
	Timestamp int64

	prev, next int32
}

// Remaining is the unfilled quantity. Invariant I1: 0 <= Filled <= Quantity,
// so Remaining never underflows.
func (o *Order) Remaining() uint64 {
	return o.Quantity - o.Filled
}

const nilSlot int32 = -1

// orderArena owns the backing storage for every resting Order. Handles
// (int32 slot indices) are what OrderIndex and PriceLevel store, so they
// stay valid across matching as long as no other alloc() happens while a
// pointer obtained from get() is live — which holds here, since alloc is
// only called from restOrder/ModifyOrder's price-change path, never from
// inside the matching loop itself.
type orderArena struct {
	slots []Order
	free  []int32
}

func newOrderArena(capacityHint int) *orderArena {
	if capacityHint <= 0 {
		capacityHint = 64
	}
	a := &orderArena{
		slots: make([]Order, capacityHint),
		free:  make([]int32, capacityHint),
	}
	for i := range a.free {
		a.free[i] = int32(capacityHint - 1 - i)
	}
	return a
}

func (a *orderArena) grow() {
	oldCap := len(a.slots)
	newCap := oldCap * 2
	newSlots := make([]Order, newCap)
	copy(newSlots, a.slots)
	a.slots = newSlots
	for i := oldCap; i < newCap; i++ {
		a.free = append(a.free, int32(i))
	}
}

func (a *orderArena) alloc() int32 {
	if len(a.free) == 0 {
		a.grow()
	}
	n := len(a.free)
	idx := a.free[n-1]
	a.free = a.free[:n-1]
	return idx
}

func (a *orderArena) release(idx int32) {
	a.slots[idx] = Order{}
	a.free = append(a.free, idx)
}

func (a *orderArena) get(idx int32) *Order {
	return &a.slots[idx]
}
