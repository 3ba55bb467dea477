package match

import "github.com/shopspring/decimal"

// crossable reports whether a resting level at levelPrice can trade
// against a taker of the given side at takerPrice.
type crossable func(side Side, takerPrice, levelPrice decimal.Decimal) bool

func limitCrossable(side Side, takerPrice, levelPrice decimal.Decimal) bool {
	if side == Buy {
		return levelPrice.LessThanOrEqual(takerPrice)
	}
	return levelPrice.GreaterThanOrEqual(takerPrice)
}

func alwaysCrossable(Side, decimal.Decimal, decimal.Decimal) bool { return true }

func (b *OrderBook) ladderForSide(side Side) *Ladder {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// executeMatch walks the opposite ladder best-first, trading against it
// while taker has remaining quantity and the best resident level is
// crossable. Grounded on the teacher's order_book.go handleLimitOrder /
// handleIOCOrder / handleMarketOrder inner loops.
func (b *OrderBook) executeMatch(taker *Order, cross crossable) {
	opp := b.ladderForSide(taker.Side.Opposite())

	for taker.Remaining() > 0 {
		price, lvl, ok := opp.Best()
		if !ok || lvl.OrderCount == 0 {
			break
		}
		if !cross(taker.Side, taker.Price, price) {
			break
		}

		for lvl.OrderCount > 0 && taker.Remaining() > 0 {
			makerIdx := lvl.head
			maker := b.arena.get(makerIdx)

			qty := taker.Remaining()
			if maker.Remaining() < qty {
				qty = maker.Remaining()
			}

			taker.Filled += qty
			maker.Filled += qty
			lvl.TotalQuantity -= qty

			var buyID, sellID OrderID
			var buyAccount, sellAccount string
			if taker.Side == Buy {
				buyID, sellID = taker.ID, maker.ID
				buyAccount, sellAccount = taker.Account, maker.Account
			} else {
				buyID, sellID = maker.ID, taker.ID
				buyAccount, sellAccount = maker.Account, taker.Account
			}

			trade := &Trade{
				ID:          TradeID(b.tradeSeq.Add(1)),
				BuyOrderID:  buyID,
				SellOrderID: sellID,
				Price:       price,
				Quantity:    qty,
				Symbol:      b.symbol,
				Timestamp:   b.now(),
			}
			b.portfolio.ApplyTrade(b.symbol, buyAccount, sellAccount, qty)
			b.publisher.PublishTrade(trade)

			if maker.Remaining() == 0 {
				lvl.removeHandle(b.arena, makerIdx)
				b.index.Delete(maker.ID)
				b.arena.release(makerIdx)
				b.publisher.PublishBookDelta(&BookDelta{
					Kind: DeltaRemove, Side: maker.Side, Price: lvl.Price,
					RemainingAtLevel: lvl.TotalQuantity, OrderCountAfter: lvl.OrderCount,
				})
			} else {
				b.publisher.PublishBookDelta(&BookDelta{
					Kind: DeltaModify, Side: maker.Side, Price: lvl.Price,
					RemainingAtLevel: lvl.TotalQuantity, OrderCountAfter: lvl.OrderCount,
				})
			}
		}

		if lvl.OrderCount == 0 {
			opp.removeLevelIfEmpty(lvl)
		}
	}
}

// canFillCompletely is the FOK check pass: can taker's full remaining
// quantity be satisfied by crossable resident levels, without mutating
// anything. Mirrors the teacher's handleFOKOrder two-phase structure.
func (b *OrderBook) canFillCompletely(taker *Order) bool {
	opp := b.ladderForSide(taker.Side.Opposite())
	remaining := taker.Remaining()
	stoppedEarly := false

	opp.backend.Ascend(func(price decimal.Decimal) bool {
		if !limitCrossable(taker.Side, taker.Price, price) {
			stoppedEarly = true
			return false
		}
		lvl := opp.levels[price.String()]
		if lvl.TotalQuantity >= remaining {
			remaining = 0
		} else {
			remaining -= lvl.TotalQuantity
		}
		return remaining > 0
	})

	return !stoppedEarly && remaining == 0
}

// restOrder admits a new resting order into its ladder and publishes the
// corresponding Add delta. The caller must have already run matching (if
// any) and confirmed remaining quantity is nonzero.
func (b *OrderBook) restOrder(o *Order) {
	idx := b.arena.alloc()
	slot := b.arena.get(idx)
	*slot = *o

	ladder := b.ladderForSide(o.Side)
	lvl := ladder.getOrCreateLevel(o.Price)
	lvl.pushBack(b.arena, idx)

	b.index.Set(o.ID, orderLocation{Side: o.Side, Price: lvl.Price, Slot: idx})

	b.publisher.PublishBookDelta(&BookDelta{
		Kind: DeltaAdd, Side: o.Side, Price: lvl.Price,
		RemainingAtLevel: lvl.TotalQuantity, OrderCountAfter: lvl.OrderCount,
	})
}
