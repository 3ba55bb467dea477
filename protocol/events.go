package protocol

// ExecutionReport is the outbound wire form of a match.Trade, one per fill
// (spec.md §4.6 trade events).
type ExecutionReport struct {
	TradeID     uint64 `json:"trade_id"`
	BuyOrderID  uint64 `json:"buy_order_id"`
	SellOrderID uint64 `json:"sell_order_id"`
	Symbol      string `json:"symbol"`
	Price       string `json:"price"`
	Quantity    uint64 `json:"quantity"`
	Timestamp   int64  `json:"timestamp"`
	Sequence    uint64 `json:"sequence"`
}

// MarketDataEvent is the outbound wire form of a match.BookDelta or
// match.BestPrices, discriminated by Kind. Exactly one of the BookDelta*
// or BestPrices* field groups is populated.
type MarketDataEvent struct {
	Kind   string `json:"kind"` // "book_delta" or "best_prices"
	Symbol string `json:"symbol"`

	// Populated when Kind == "book_delta".
	DeltaKind        DeltaKind `json:"delta_kind,omitempty"`
	Side             Side      `json:"side,omitempty"`
	Price            string    `json:"price,omitempty"`
	RemainingAtLevel uint64    `json:"remaining_at_level,omitempty"`
	OrderCountAfter  int       `json:"order_count_after,omitempty"`

	// Populated when Kind == "best_prices".
	Bid     string `json:"bid,omitempty"`
	BidSize uint64 `json:"bid_size,omitempty"`
	Ask     string `json:"ask,omitempty"`
	AskSize uint64 `json:"ask_size,omitempty"`

	Timestamp int64  `json:"timestamp"`
	Sequence  uint64 `json:"sequence"`
}
