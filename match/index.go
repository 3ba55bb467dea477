package match

import "github.com/shopspring/decimal"

// orderLocation is everything needed to find a resting order in O(1):
// which ladder, which level (by its rounded price), and which arena slot.
type orderLocation struct {
	Side  Side
	Price decimal.Decimal
	Slot  int32
}

// OrderIndex maps a caller-assigned OrderID to its resting location. It
// holds no ownership over the order itself — PriceLevel/orderArena do.
type OrderIndex struct {
	m map[OrderID]orderLocation
}

func newOrderIndex(capacityHint int) *OrderIndex {
	return &OrderIndex{m: make(map[OrderID]orderLocation, capacityHint)}
}

func (idx *OrderIndex) Get(id OrderID) (orderLocation, bool) {
	loc, ok := idx.m[id]
	return loc, ok
}

func (idx *OrderIndex) Set(id OrderID, loc orderLocation) {
	idx.m[id] = loc
}

func (idx *OrderIndex) Delete(id OrderID) {
	delete(idx.m, id)
}

func (idx *OrderIndex) Len() int {
	return len(idx.m)
}
