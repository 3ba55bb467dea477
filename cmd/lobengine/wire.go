package main

import (
	"fmt"

	"github.com/finprim/lobengine/match"
	"github.com/finprim/lobengine/protocol"
	"github.com/shopspring/decimal"
)

// decodeNewOrderSingle unwraps a protocol.Command carrying a CmdAddOrder
// payload into the match.Order the core engine expects. This is the
// boundary spec.md §6 draws between the wire format and the core: nothing
// in match/ or ingress/ ever sees a protocol.Command.
func decodeNewOrderSingle(ser protocol.Serializer, cmd protocol.Command) (match.Order, error) {
	if cmd.Type != protocol.CmdAddOrder {
		return match.Order{}, fmt.Errorf("decodeNewOrderSingle: unexpected command type %d", cmd.Type)
	}

	var nos protocol.NewOrderSingle
	if err := ser.Unmarshal(cmd.Payload, &nos); err != nil {
		return match.Order{}, fmt.Errorf("decoding NewOrderSingle: %w", err)
	}

	side := match.Buy
	if nos.Side == protocol.SideSell {
		side = match.Sell
	}

	orderType := match.Limit
	tif := match.GTC
	switch nos.TIF {
	case protocol.TIFIOC:
		tif = match.IOC
	case protocol.TIFFOK:
		tif = match.FOK
	}
	if nos.OrderType == protocol.OrderTypeMarket {
		orderType = match.Market
	}

	var price decimal.Decimal
	if nos.Price != "" {
		var err error
		price, err = decimal.NewFromString(nos.Price)
		if err != nil {
			return match.Order{}, fmt.Errorf("decoding NewOrderSingle price: %w", err)
		}
	}

	return match.Order{
		ID:       match.OrderID(nos.OrderID),
		Symbol:   nos.Symbol,
		Side:     side,
		Type:     orderType,
		TIF:      tif,
		Price:    price,
		Quantity: nos.Quantity,
		Account:  nos.Account,
	}, nil
}

// encodeAddOrderCommand wraps a match.Order as the protocol.Command a FIX
// session or other producer would have sent in, for the demo to round-trip
// through the same decode path a real inbound session would use.
func encodeAddOrderCommand(ser protocol.Serializer, o match.Order, seqID uint64) (protocol.Command, error) {
	side := protocol.SideBuy
	if o.Side == match.Sell {
		side = protocol.SideSell
	}
	orderType := protocol.OrderTypeLimit
	if o.Type == match.Market {
		orderType = protocol.OrderTypeMarket
	}
	tif := protocol.TIFGTC
	switch o.TIF {
	case match.IOC:
		tif = protocol.TIFIOC
	case match.FOK:
		tif = protocol.TIFFOK
	}
	price := ""
	if o.Type != match.Market {
		price = o.Price.String()
	}

	payload, err := ser.Marshal(protocol.NewOrderSingle{
		OrderID:   uint64(o.ID),
		Symbol:    o.Symbol,
		Side:      side,
		OrderType: orderType,
		TIF:       tif,
		Price:     price,
		Quantity:  o.Quantity,
		Account:   o.Account,
	})
	if err != nil {
		return protocol.Command{}, fmt.Errorf("encoding NewOrderSingle: %w", err)
	}

	return protocol.Command{
		Version: 1,
		Symbol:  o.Symbol,
		SeqID:   seqID,
		Type:    protocol.CmdAddOrder,
		Payload: payload,
	}, nil
}

// wireSubscriber translates match core events into the outbound wire
// envelopes (protocol.ExecutionReport / protocol.MarketDataEvent) and hands
// their encoded bytes to a sink, exercising the Serializer seam on the
// outbound path the same way decodeNewOrderSingle exercises it inbound.
type wireSubscriber struct {
	symbol string
	ser    protocol.Serializer
	sink   func(kind string, encoded []byte)
}

func newWireSubscriber(symbol string, ser protocol.Serializer, sink func(kind string, encoded []byte)) *wireSubscriber {
	return &wireSubscriber{symbol: symbol, ser: ser, sink: sink}
}

func (w *wireSubscriber) OnTrade(t *match.Trade) {
	report := protocol.ExecutionReport{
		TradeID:     uint64(t.ID),
		BuyOrderID:  uint64(t.BuyOrderID),
		SellOrderID: uint64(t.SellOrderID),
		Symbol:      t.Symbol,
		Price:       t.Price.String(),
		Quantity:    t.Quantity,
		Timestamp:   t.Timestamp,
		Sequence:    uint64(t.Sequence),
	}
	if encoded, err := w.ser.Marshal(report); err == nil {
		w.sink("execution_report", encoded)
	}
}

func (w *wireSubscriber) OnBookDelta(d *match.BookDelta) {
	side := protocol.SideBuy
	if d.Side == match.Sell {
		side = protocol.SideSell
	}
	var deltaKind protocol.DeltaKind
	switch d.Kind {
	case match.DeltaAdd:
		deltaKind = protocol.DeltaAdd
	case match.DeltaModify:
		deltaKind = protocol.DeltaModify
	case match.DeltaRemove:
		deltaKind = protocol.DeltaRemove
	}

	event := protocol.MarketDataEvent{
		Kind:             "book_delta",
		Symbol:           w.symbol,
		DeltaKind:        deltaKind,
		Side:             side,
		Price:            d.Price.String(),
		RemainingAtLevel: d.RemainingAtLevel,
		OrderCountAfter:  d.OrderCountAfter,
		Sequence:         uint64(d.Sequence),
	}
	if encoded, err := w.ser.Marshal(event); err == nil {
		w.sink("market_data", encoded)
	}
}

func (w *wireSubscriber) OnBestPrices(b *match.BestPrices) {
	event := protocol.MarketDataEvent{
		Kind:      "best_prices",
		Symbol:    w.symbol,
		BidSize:   b.BidSize,
		AskSize:   b.AskSize,
		Timestamp: b.Timestamp,
		Sequence:  uint64(b.Sequence),
	}
	if b.Bid != nil {
		event.Bid = b.Bid.String()
	}
	if b.Ask != nil {
		event.Ask = b.Ask.String()
	}
	if encoded, err := w.ser.Marshal(event); err == nil {
		w.sink("market_data", encoded)
	}
}
