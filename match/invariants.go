package match

import "fmt"

// CheckInvariants walks a book's internal state and reports the first
// violation of I1-I6. It is not called on any hot path; it exists for
// tests to assert a book's structural consistency after a sequence of
// operations.
//
//	I1: 0 <= Filled <= Quantity for every resting order.
//	I2: an order's arena slot location matches the OrderIndex entry.
//	I3: no ladder carries an empty price level.
//	I4: a price level's TotalQuantity equals the sum of its resting
//	    orders' Remaining().
//	I5: a price level's OrderCount equals the length of its FIFO queue.
//	I6: the bid ladder's best price is strictly less than the ask
//	    ladder's best price (a crossed book is never left resting).
func CheckInvariants(b *OrderBook) error {
	if err := checkLadderInvariants(b, b.bids); err != nil {
		return err
	}
	if err := checkLadderInvariants(b, b.asks); err != nil {
		return err
	}

	bidPrice, _, hasBid := b.bids.Best()
	askPrice, _, hasAsk := b.asks.Best()
	if hasBid && hasAsk && !bidPrice.LessThan(askPrice) {
		return fmt.Errorf("match: I6 violated: best bid %s is not less than best ask %s", bidPrice, askPrice)
	}

	return nil
}

func checkLadderInvariants(b *OrderBook, ladder *Ladder) error {
	for key, lvl := range ladder.levels {
		if lvl.OrderCount == 0 {
			return fmt.Errorf("match: I3 violated: %s ladder carries empty level at %s", ladder.side, key)
		}

		var (
			sumQty   uint64
			queueLen int
		)
		for idx := lvl.head; idx != nilSlot; {
			node := b.arena.get(idx)
			if node.Filled > node.Quantity {
				return fmt.Errorf("match: I1 violated: order %d filled %d exceeds quantity %d", node.ID, node.Filled, node.Quantity)
			}
			loc, ok := b.index.Get(node.ID)
			if !ok || loc.Slot != idx || !loc.Price.Equal(lvl.Price) || loc.Side != ladder.side {
				return fmt.Errorf("match: I2 violated: order %d index entry does not match its resting location", node.ID)
			}
			sumQty += node.Remaining()
			queueLen++
			idx = node.next
		}

		if sumQty != lvl.TotalQuantity {
			return fmt.Errorf("match: I4 violated: level %s reports TotalQuantity %d but queue sums to %d", key, lvl.TotalQuantity, sumQty)
		}
		if queueLen != lvl.OrderCount {
			return fmt.Errorf("match: I5 violated: level %s reports OrderCount %d but queue has %d entries", key, lvl.OrderCount, queueLen)
		}
	}
	return nil
}
