package match

import (
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// DeltaKind classifies a BookDelta (spec.md §4.6).
type DeltaKind int8

const (
	DeltaAdd DeltaKind = iota + 1
	DeltaModify
	DeltaRemove
)

func (k DeltaKind) String() string {
	switch k {
	case DeltaAdd:
		return "add"
	case DeltaModify:
		return "modify"
	case DeltaRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Trade is emitted once per execution.
type Trade struct {
	ID          TradeID
	BuyOrderID  OrderID
	SellOrderID OrderID
	Price       decimal.Decimal
	Quantity    uint64
	Symbol      string
	Timestamp   int64
	Sequence    SequenceNumber
}

// BookDelta is emitted whenever a price level's resting quantity changes.
// RemainingAtLevel and OrderCountAfter are the level's aggregates *after*
// the change, so a subscriber can maintain a depth view from deltas alone.
type BookDelta struct {
	Kind             DeltaKind
	Side             Side
	Price            decimal.Decimal
	RemainingAtLevel uint64
	OrderCountAfter  int
	Sequence         SequenceNumber
}

// BestPrices is emitted whenever the top of either side changes. A nil
// Bid/Ask means that side is currently empty.
type BestPrices struct {
	Bid       *decimal.Decimal
	BidSize   uint64
	Ask       *decimal.Decimal
	AskSize   uint64
	Timestamp int64
	Sequence  SequenceNumber
}

// Subscriber receives book events. Implementations must either process an
// event synchronously before returning, or clone it before handing it to
// another goroutine — the publisher reuses nothing after the call returns,
// but a panicking subscriber must not be allowed to corrupt another
// subscriber's view, so the publisher isolates each call.
type Subscriber interface {
	OnTrade(*Trade)
	OnBookDelta(*BookDelta)
	OnBestPrices(*BestPrices)
}

// EventPublisher assigns strictly monotonic sequence numbers and fans
// every event out to its subscribers, synchronously, in registration
// order. A panicking subscriber is logged and skipped; it does not stop
// delivery to the remaining subscribers and does not propagate to the
// caller (spec.md §7: "subscriber exceptions are caught at the publisher
// boundary").
type EventPublisher struct {
	seq         atomic.Uint64
	subscribers []Subscriber
}

func NewEventPublisher(subs ...Subscriber) *EventPublisher {
	return &EventPublisher{subscribers: subs}
}

func (p *EventPublisher) Subscribe(s Subscriber) {
	p.subscribers = append(p.subscribers, s)
}

func (p *EventPublisher) nextSeq() SequenceNumber {
	return SequenceNumber(p.seq.Add(1))
}

func (p *EventPublisher) PublishTrade(t *Trade) {
	t.Sequence = p.nextSeq()
	for _, s := range p.subscribers {
		p.dispatch(func() { s.OnTrade(t) })
	}
}

func (p *EventPublisher) PublishBookDelta(d *BookDelta) {
	d.Sequence = p.nextSeq()
	for _, s := range p.subscribers {
		p.dispatch(func() { s.OnBookDelta(d) })
	}
}

func (p *EventPublisher) PublishBestPrices(b *BestPrices) {
	b.Sequence = p.nextSeq()
	for _, s := range p.subscribers {
		p.dispatch(func() { s.OnBestPrices(b) })
	}
}

func (p *EventPublisher) dispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("subscriber panicked", "panic", r)
		}
	}()
	fn()
}

// MemorySubscriber records every event it receives, useful for tests.
type MemorySubscriber struct {
	Trades      []*Trade
	BookDeltas  []*BookDelta
	BestPrices  []*BestPrices
}

func NewMemorySubscriber() *MemorySubscriber {
	return &MemorySubscriber{}
}

func (m *MemorySubscriber) OnTrade(t *Trade)           { m.Trades = append(m.Trades, t) }
func (m *MemorySubscriber) OnBookDelta(d *BookDelta)   { m.BookDeltas = append(m.BookDeltas, d) }
func (m *MemorySubscriber) OnBestPrices(b *BestPrices) { m.BestPrices = append(m.BestPrices, b) }

// DiscardSubscriber drops every event; useful for benchmarking the
// matching path without I/O or allocation overhead from recording.
type DiscardSubscriber struct{}

func (DiscardSubscriber) OnTrade(*Trade)           {}
func (DiscardSubscriber) OnBookDelta(*BookDelta)   {}
func (DiscardSubscriber) OnBestPrices(*BestPrices) {}
