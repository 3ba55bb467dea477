// Command lobengine is a small demo harness: it loads risk limits from
// risk.yaml, wires a Dispatcher around a single-symbol OrderBook, submits a
// handful of orders from concurrent producers, and prints the resulting
// trades and top of book.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/finprim/lobengine/ingress"
	"github.com/finprim/lobengine/match"
	"github.com/finprim/lobengine/protocol"
	"github.com/finprim/lobengine/risk"
	"github.com/rs/xid"
	"github.com/shopspring/decimal"
)

var (
	nextOrderID atomic.Uint64
	nextSeqID   atomic.Uint64
)

func newOrderID() match.OrderID {
	return match.OrderID(nextOrderID.Add(1))
}

// submitNewOrderSingle builds the protocol.Command a FIX session would have
// handed in, decodes it back to a match.Order, and forwards it to the
// dispatcher — so every order on the demo's inbound path actually crosses
// the wire seam rather than calling the core directly.
func submitNewOrderSingle(dispatcher *ingress.Dispatcher, ser protocol.Serializer, o match.Order) (match.OrderID, error) {
	cmd, err := encodeAddOrderCommand(ser, o, nextSeqID.Add(1))
	if err != nil {
		return 0, err
	}
	decoded, err := decodeNewOrderSingle(ser, cmd)
	if err != nil {
		return 0, err
	}
	return dispatcher.AddOrder(decoded)
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	limits, err := risk.Load("risk.yaml")
	if err != nil {
		logger.Error("loading risk config", "error", err)
		os.Exit(1)
	}

	var ser protocol.Serializer = protocol.DefaultJSONSerializer{}

	sink := func(kind string, encoded []byte) {
		fmt.Printf("%s: %s\n", kind, encoded)
	}

	subscriber := match.NewMemorySubscriber()
	wire := newWireSubscriber("BTC-USD", ser, sink)
	book := match.NewOrderBook("BTC-USD", limits,
		match.WithBackend(match.BackendSkiplist),
		match.WithSubscribers(subscriber, wire),
	)
	dispatcher := ingress.NewDispatcher(book, ingress.DefaultCapacity)

	accountMaker := xid.New().String()
	accountTaker := xid.New().String()

	var wg sync.WaitGroup
	prices := []string{"100.00", "100.50", "101.00"}
	for _, p := range prices {
		price, _ := decimal.NewFromString(p)
		wg.Add(1)
		go func(price decimal.Decimal) {
			defer wg.Done()
			_, err := submitNewOrderSingle(dispatcher, ser, match.Order{
				ID:       newOrderID(),
				Side:     match.Sell,
				Type:     match.Limit,
				TIF:      match.GTC,
				Price:    price,
				Quantity: 10,
				Symbol:   "BTC-USD",
				Account:  accountMaker,
			})
			if err != nil {
				logger.Error("resting order rejected", "error", err)
			}
		}(price)
	}
	wg.Wait()

	takerPrice, _ := decimal.NewFromString("101.00")
	_, err = submitNewOrderSingle(dispatcher, ser, match.Order{
		ID:       newOrderID(),
		Side:     match.Buy,
		Type:     match.Limit,
		TIF:      match.IOC,
		Price:    takerPrice,
		Quantity: 25,
		Symbol:   "BTC-USD",
		Account:  accountTaker,
	})
	if err != nil {
		logger.Error("taker order rejected", "error", err)
	}

	for _, t := range subscriber.Trades {
		fmt.Printf("trade %d: %d @ %s (seq=%d)\n", t.ID, t.Quantity, t.Price, t.Sequence)
	}

	if bid, ok := book.BestBid(); ok {
		fmt.Printf("best bid: %s\n", bid)
	}
	if ask, ok := book.BestAsk(); ok {
		fmt.Printf("best ask: %s\n", ask)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := dispatcher.Shutdown(ctx); err != nil {
		logger.Warn("dispatcher shutdown did not complete cleanly", "error", err)
	}
}
