package ingress

import (
	"context"

	"github.com/finprim/lobengine/match"
	"github.com/shopspring/decimal"
)

// DefaultCapacity is the ring buffer size a Dispatcher uses when none is
// given; it must stay a power of two.
const DefaultCapacity = 4096

type commandKind int8

const (
	cmdAdd commandKind = iota + 1
	cmdCancel
	cmdModify
)

type command struct {
	kind commandKind

	add         match.Order
	cancelID    match.OrderID
	modifyID    match.OrderID
	newPrice    decimal.Decimal
	newQuantity uint64

	reply chan result
}

type result struct {
	orderID match.OrderID
	err     error
}

// Dispatcher owns one match.OrderBook and is the only goroutine that ever
// calls into it. Any number of producer goroutines may call Dispatcher's
// methods concurrently; each call blocks until the book has applied it,
// giving callers the synchronous request/response contract spec.md §5
// requires of the core while still allowing concurrent submission from
// multiple callers, per the teacher's RingBuffer/EventHandler actor idiom.
type Dispatcher struct {
	book *match.OrderBook
	ring *RingBuffer[*command]
}

// NewDispatcher wraps book with a Dispatcher of the given ring capacity
// (must be a power of two) and starts its consumer goroutine.
func NewDispatcher(book *match.OrderBook, capacity int64) *Dispatcher {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	d := &Dispatcher{book: book}
	d.ring = NewRingBuffer[*command](capacity, d)
	d.ring.Start()
	return d
}

// OnEvent applies one command to the owned book. Called only from the
// ring buffer's consumer goroutine.
func (d *Dispatcher) OnEvent(cmd *command) {
	switch cmd.kind {
	case cmdAdd:
		id, err := d.book.AddOrder(cmd.add)
		cmd.reply <- result{orderID: id, err: err}
	case cmdCancel:
		err := d.book.CancelOrder(cmd.cancelID)
		cmd.reply <- result{err: err}
	case cmdModify:
		err := d.book.ModifyOrder(cmd.modifyID, cmd.newPrice, cmd.newQuantity)
		cmd.reply <- result{err: err}
	}
}

// AddOrder submits a new order and blocks until the book has admitted,
// matched, or rejected it.
func (d *Dispatcher) AddOrder(o match.Order) (match.OrderID, error) {
	cmd := &command{kind: cmdAdd, add: o, reply: make(chan result, 1)}
	d.ring.Publish(cmd)
	res := <-cmd.reply
	return res.orderID, res.err
}

// CancelOrder submits a cancellation and blocks until the book has applied it.
func (d *Dispatcher) CancelOrder(id match.OrderID) error {
	cmd := &command{kind: cmdCancel, cancelID: id, reply: make(chan result, 1)}
	d.ring.Publish(cmd)
	res := <-cmd.reply
	return res.err
}

// ModifyOrder submits a modification and blocks until the book has applied it.
func (d *Dispatcher) ModifyOrder(id match.OrderID, newPrice decimal.Decimal, newQuantity uint64) error {
	cmd := &command{kind: cmdModify, modifyID: id, newPrice: newPrice, newQuantity: newQuantity, reply: make(chan result, 1)}
	d.ring.Publish(cmd)
	res := <-cmd.reply
	return res.err
}

// Book exposes the underlying book for read-only queries (BestBid, Depth,
// Portfolio, ...). Those calls do not go through the ring and are not
// synchronized with the consumer goroutine, so they are race-free only
// while no command is in flight, e.g. after every submitting call has
// returned.
func (d *Dispatcher) Book() *match.OrderBook { return d.book }

// Shutdown stops accepting new commands and waits for already-submitted
// ones to drain, or ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	return d.ring.Shutdown(ctx)
}
