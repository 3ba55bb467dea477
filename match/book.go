package match

import (
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// OrderBook is one symbol's matching engine. It is single-threaded and
// synchronous (spec.md §5): every exported method runs to completion
// before returning and must not be called concurrently from more than one
// goroutine. When multiple producers need to submit to the same book, the
// ingress package's Dispatcher serializes them onto one owning goroutine.
type OrderBook struct {
	symbol string

	bids *Ladder
	asks *Ladder

	index     *OrderIndex
	arena     *orderArena
	risk      *RiskGate
	portfolio *Portfolio
	publisher *EventPublisher

	tradeSeq atomic.Uint64
	clock    func() int64

	backendKind  LadderBackendKind
	capacityHint int
}

// Option configures a new OrderBook.
type Option func(*OrderBook)

// WithBackend selects the Ladder realization used for both sides.
func WithBackend(kind LadderBackendKind) Option {
	return func(b *OrderBook) { b.backendKind = kind }
}

// WithSubscribers registers event subscribers at construction time.
func WithSubscribers(subs ...Subscriber) Option {
	return func(b *OrderBook) {
		for _, s := range subs {
			b.publisher.Subscribe(s)
		}
	}
}

// WithClock overrides the book's time source; intended for deterministic
// tests, where wall-clock timestamps would make assertions flaky.
func WithClock(fn func() int64) Option {
	return func(b *OrderBook) { b.clock = fn }
}

// WithCapacityHint sizes the initial order arena and level maps.
func WithCapacityHint(n int) Option {
	return func(b *OrderBook) { b.capacityHint = n }
}

func (b *OrderBook) now() int64 {
	if b.clock != nil {
		return b.clock()
	}
	return time.Now().UnixNano()
}

// NewOrderBook constructs a book for one symbol with the given risk
// limits. The default Ladder backend is the huandu/skiplist realization.
func NewOrderBook(symbol string, limits RiskLimits, opts ...Option) *OrderBook {
	portfolio := NewPortfolio()
	b := &OrderBook{
		symbol:    symbol,
		portfolio: portfolio,
		risk:      newRiskGate(limits, portfolio),
		publisher: NewEventPublisher(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.capacityHint <= 0 {
		b.capacityHint = 256
	}
	b.arena = newOrderArena(b.capacityHint)
	b.index = newOrderIndex(b.capacityHint)
	b.bids = newLadder(Buy, b.backendKind, b.capacityHint)
	b.asks = newLadder(Sell, b.backendKind, b.capacityHint)
	return b
}

func validateOrderShape(o Order) error {
	if o.Quantity == 0 {
		return ErrInvalidOrder
	}
	if o.Symbol == "" {
		return ErrInvalidOrder
	}
	if o.Type == Limit && o.Price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidOrder
	}
	return nil
}

// AddOrder admits a new order. On success it returns the order's ID; the
// returned error is nil even when a FOK order could not be filled or an
// IOC/Market order's remainder was discarded — those are normal terminal
// outcomes a caller observes via subsequent queries, not failures (see
// DESIGN.md's Open Question resolution on this).
func (b *OrderBook) AddOrder(o Order) (OrderID, error) {
	if err := validateOrderShape(o); err != nil {
		return 0, err
	}
	if _, exists := b.index.Get(o.ID); exists {
		return 0, ErrDuplicateID
	}
	if err := b.risk.ValidateAdd(&o); err != nil {
		return 0, err
	}

	o.Filled = 0
	o.Timestamp = b.now()
	top := b.topOfBook()

	switch o.Type {
	case Market:
		b.executeMatch(&o, alwaysCrossable)
	default:
		switch o.TIF {
		case FOK:
			if !b.canFillCompletely(&o) {
				return o.ID, nil
			}
			b.executeMatch(&o, limitCrossable)
		case IOC:
			b.executeMatch(&o, limitCrossable)
		default: // GTC
			b.executeMatch(&o, limitCrossable)
			if o.Remaining() > 0 {
				b.restOrder(&o)
			}
		}
	}

	b.emitBestPricesIfChanged(top)
	return o.ID, nil
}

// CancelOrder removes a resting order in full.
func (b *OrderBook) CancelOrder(id OrderID) error {
	loc, ok := b.index.Get(id)
	if !ok {
		return ErrNotFound
	}

	top := b.topOfBook()
	ladder := b.ladderForSide(loc.Side)
	lvl, ok := ladder.levelAt(loc.Price)
	if !ok {
		return ErrInternalInvariant
	}

	lvl.removeHandle(b.arena, loc.Slot)
	b.index.Delete(id)
	b.arena.release(loc.Slot)

	b.publisher.PublishBookDelta(&BookDelta{
		Kind: DeltaRemove, Side: loc.Side, Price: lvl.Price,
		RemainingAtLevel: lvl.TotalQuantity, OrderCountAfter: lvl.OrderCount,
	})
	if lvl.OrderCount == 0 {
		ladder.removeLevelIfEmpty(lvl)
	}

	b.emitBestPricesIfChanged(top)
	return nil
}

// ModifyOrder changes a resting order's price and/or quantity. Per
// spec.md §9: modifying at the same price (within MinPriceIncrement) is an
// in-place quantity change that keeps the order's time priority; modifying
// to a different price is a cancel-then-add with a new timestamp, which
// loses priority.
func (b *OrderBook) ModifyOrder(id OrderID, newPrice decimal.Decimal, newQuantity uint64) error {
	loc, ok := b.index.Get(id)
	if !ok {
		return ErrNotFound
	}
	if newPrice.LessThanOrEqual(decimal.Zero) || newQuantity == 0 {
		return ErrInvalidModify
	}

	ladder := b.ladderForSide(loc.Side)
	lvl, ok := ladder.levelAt(loc.Price)
	if !ok {
		return ErrInternalInvariant
	}
	order := b.arena.get(loc.Slot)

	if err := b.risk.ValidateModify(order.Account, b.symbol, order.Side, newQuantity, newPrice); err != nil {
		return err
	}

	top := b.topOfBook()

	if pricesEqual(newPrice, order.Price) {
		b.modifyInPlace(order, loc, ladder, lvl, newQuantity)
		b.emitBestPricesIfChanged(top)
		return nil
	}

	account, symbol, side := order.Account, order.Symbol, order.Side

	lvl.removeHandle(b.arena, loc.Slot)
	b.publisher.PublishBookDelta(&BookDelta{
		Kind: DeltaRemove, Side: loc.Side, Price: lvl.Price,
		RemainingAtLevel: lvl.TotalQuantity, OrderCountAfter: lvl.OrderCount,
	})
	if lvl.OrderCount == 0 {
		ladder.removeLevelIfEmpty(lvl)
	}
	b.index.Delete(id)
	b.arena.release(loc.Slot)

	replacement := Order{
		ID: id, Side: side, Type: Limit, TIF: GTC,
		Price: newPrice, Quantity: newQuantity, Filled: 0,
		Symbol: symbol, Account: account, Timestamp: b.now(),
	}
	b.executeMatch(&replacement, limitCrossable)
	if replacement.Remaining() > 0 {
		b.restOrder(&replacement)
	}

	b.emitBestPricesIfChanged(top)
	return nil
}

// modifyInPlace handles the same-price branch of ModifyOrder: the order
// keeps its slot and queue position, only its quantity (and the level's
// aggregate) changes. If the new quantity is at or below what's already
// filled, the order has nothing left to rest and is removed.
func (b *OrderBook) modifyInPlace(order *Order, loc orderLocation, ladder *Ladder, lvl *PriceLevel, newQuantity uint64) {
	oldRemaining := order.Remaining()

	effectiveQty := newQuantity
	if newQuantity < order.Filled {
		effectiveQty = order.Filled
	}
	order.Quantity = effectiveQty
	newRemaining := order.Remaining()

	if newRemaining == 0 {
		lvl.removeHandle(b.arena, loc.Slot)
		b.index.Delete(order.ID)
		b.arena.release(loc.Slot)
		b.publisher.PublishBookDelta(&BookDelta{
			Kind: DeltaRemove, Side: loc.Side, Price: lvl.Price,
			RemainingAtLevel: lvl.TotalQuantity, OrderCountAfter: lvl.OrderCount,
		})
		if lvl.OrderCount == 0 {
			ladder.removeLevelIfEmpty(lvl)
		}
		return
	}

	diff := int64(newRemaining) - int64(oldRemaining)
	lvl.TotalQuantity = uint64(int64(lvl.TotalQuantity) + diff)
	b.publisher.PublishBookDelta(&BookDelta{
		Kind: DeltaModify, Side: loc.Side, Price: lvl.Price,
		RemainingAtLevel: lvl.TotalQuantity, OrderCountAfter: lvl.OrderCount,
	})
}

// topState is a snapshot of both sides' best price and size, used to
// detect whether a BestPrices event is warranted after an operation.
type topState struct {
	hasBid   bool
	bidPrice decimal.Decimal
	bidSize  uint64
	hasAsk   bool
	askPrice decimal.Decimal
	askSize  uint64
}

func (b *OrderBook) topOfBook() topState {
	var t topState
	if p, lvl, ok := b.bids.Best(); ok {
		t.hasBid, t.bidPrice, t.bidSize = true, p, lvl.TotalQuantity
	}
	if p, lvl, ok := b.asks.Best(); ok {
		t.hasAsk, t.askPrice, t.askSize = true, p, lvl.TotalQuantity
	}
	return t
}

func topStateEqual(a, c topState) bool {
	if a.hasBid != c.hasBid || a.hasAsk != c.hasAsk {
		return false
	}
	if a.hasBid && (!a.bidPrice.Equal(c.bidPrice) || a.bidSize != c.bidSize) {
		return false
	}
	if a.hasAsk && (!a.askPrice.Equal(c.askPrice) || a.askSize != c.askSize) {
		return false
	}
	return true
}

func (b *OrderBook) emitBestPricesIfChanged(before topState) {
	after := b.topOfBook()
	if topStateEqual(before, after) {
		return
	}
	ev := &BestPrices{Timestamp: b.now()}
	if after.hasBid {
		p := after.bidPrice
		ev.Bid = &p
		ev.BidSize = after.bidSize
	}
	if after.hasAsk {
		p := after.askPrice
		ev.Ask = &p
		ev.AskSize = after.askSize
	}
	b.publisher.PublishBestPrices(ev)
}

// BestBid returns the highest resting bid price, if any.
func (b *OrderBook) BestBid() (decimal.Decimal, bool) {
	p, _, ok := b.bids.Best()
	return p, ok
}

// BestAsk returns the lowest resting ask price, if any.
func (b *OrderBook) BestAsk() (decimal.Decimal, bool) {
	p, _, ok := b.asks.Best()
	return p, ok
}

// DepthSnapshot is a point-in-time view of both sides, best-first.
type DepthSnapshot struct {
	Bids []LevelDepth
	Asks []LevelDepth
}

// Depth returns up to n levels per side.
func (b *OrderBook) Depth(n int) DepthSnapshot {
	return DepthSnapshot{Bids: b.bids.Depth(n), Asks: b.asks.Depth(n)}
}

// OrderCount is the number of currently resting orders across both sides.
func (b *OrderBook) OrderCount() int { return b.index.Len() }

// BidLevelCount is the number of distinct resident bid price levels.
func (b *OrderBook) BidLevelCount() int { return b.bids.LevelCount() }

// AskLevelCount is the number of distinct resident ask price levels.
func (b *OrderBook) AskLevelCount() int { return b.asks.LevelCount() }

// Symbol returns the book's symbol.
func (b *OrderBook) Symbol() string { return b.symbol }

// Portfolio exposes the book's position ledger for read-only queries.
func (b *OrderBook) Portfolio() *Portfolio { return b.portfolio }
