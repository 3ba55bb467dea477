package match

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newTestBook(t *testing.T, kind LadderBackendKind) (*OrderBook, *MemorySubscriber) {
	t.Helper()
	sub := NewMemorySubscriber()
	clockTick := int64(0)
	book := NewOrderBook("BTC-USD",
		RiskLimits{MaxOrderSize: 1000, MaxPrice: price("1000000.00"), MaxPosition: 1_000_000},
		WithBackend(kind),
		WithSubscribers(sub),
		WithClock(func() int64 { clockTick++; return clockTick }),
	)
	return book, sub
}

var allBackends = []LadderBackendKind{BackendSkiplist, BackendTreeMap, BackendPooledSkiplist, BackendLLRB}

func backendName(kind LadderBackendKind) string {
	switch kind {
	case BackendTreeMap:
		return "treemap"
	case BackendPooledSkiplist:
		return "pooled_skiplist"
	case BackendLLRB:
		return "llrb"
	default:
		return "skiplist"
	}
}

// Scenario 1: rest and best price.
func TestAddOrder_RestAndBestPrice(t *testing.T) {
	for _, kind := range allBackends {
		t.Run(backendName(kind), func(t *testing.T) {
			book, sub := newTestBook(t, kind)

			id, err := book.AddOrder(Order{ID: 1, Side: Buy, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 500, Symbol: "BTC-USD", Account: "acct-a"})
			require.NoError(t, err)
			assert.Equal(t, OrderID(1), id)

			assert.Empty(t, sub.Trades)
			require.Len(t, sub.BookDeltas, 1)
			assert.Equal(t, DeltaAdd, sub.BookDeltas[0].Kind)

			require.Len(t, sub.BestPrices, 1)
			bp := sub.BestPrices[0]
			require.NotNil(t, bp.Bid)
			assert.True(t, bp.Bid.Equal(price("100.00")))
			assert.Equal(t, uint64(500), bp.BidSize)
			assert.Nil(t, bp.Ask)

			bid, ok := book.BestBid()
			require.True(t, ok)
			assert.True(t, bid.Equal(price("100.00")))
			_, ok = book.BestAsk()
			assert.False(t, ok)

			assert.Equal(t, SequenceNumber(2), sub.BestPrices[0].Sequence)
			require.NoError(t, CheckInvariants(book))
		})
	}
}

// Scenario 2: cross and full fill of taker.
func TestAddOrder_CrossAndFullFillOfTaker(t *testing.T) {
	book, sub := newTestBook(t, BackendSkiplist)

	_, err := book.AddOrder(Order{ID: 1, Side: Buy, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 500, Symbol: "BTC-USD", Account: "maker"})
	require.NoError(t, err)

	sub.Trades, sub.BookDeltas, sub.BestPrices = nil, nil, nil

	_, err = book.AddOrder(Order{ID: 2, Side: Sell, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 200, Symbol: "BTC-USD", Account: "taker"})
	require.NoError(t, err)

	require.Len(t, sub.Trades, 1)
	trade := sub.Trades[0]
	assert.Equal(t, OrderID(1), trade.BuyOrderID)
	assert.Equal(t, OrderID(2), trade.SellOrderID)
	assert.True(t, trade.Price.Equal(price("100.00")))
	assert.Equal(t, uint64(200), trade.Quantity)

	loc, ok := book.index.Get(1)
	require.True(t, ok)
	maker := book.arena.get(loc.Slot)
	assert.Equal(t, uint64(300), maker.Remaining())

	bid, ok := book.BestBid()
	require.True(t, ok)
	assert.True(t, bid.Equal(price("100.00")))
	_, ok = book.BestAsk()
	assert.False(t, ok)

	deltas := sub.BookDeltas
	require.Len(t, deltas, 1)
	assert.Equal(t, DeltaModify, deltas[0].Kind)
	assert.Equal(t, uint64(300), deltas[0].RemainingAtLevel)

	require.NoError(t, CheckInvariants(book))
}

// Scenario 3: market sweep across two levels.
func TestAddOrder_MarketSweepAcrossTwoLevels(t *testing.T) {
	book, sub := newTestBook(t, BackendSkiplist)

	_, err := book.AddOrder(Order{ID: 10, Side: Sell, Type: Limit, TIF: GTC, Price: price("101.00"), Quantity: 50, Symbol: "BTC-USD", Account: "maker-1"})
	require.NoError(t, err)
	_, err = book.AddOrder(Order{ID: 11, Side: Sell, Type: Limit, TIF: GTC, Price: price("102.00"), Quantity: 70, Symbol: "BTC-USD", Account: "maker-2"})
	require.NoError(t, err)

	sub.Trades = nil
	sub.BookDeltas = nil
	sub.BestPrices = nil

	_, err = book.AddOrder(Order{ID: 99, Side: Buy, Type: Market, Symbol: "BTC-USD", Account: "taker", Quantity: 100})
	require.NoError(t, err)

	require.Len(t, sub.Trades, 2)
	assert.Equal(t, OrderID(10), sub.Trades[0].SellOrderID)
	assert.True(t, sub.Trades[0].Price.Equal(price("101.00")))
	assert.Equal(t, uint64(50), sub.Trades[0].Quantity)

	assert.Equal(t, OrderID(11), sub.Trades[1].SellOrderID)
	assert.True(t, sub.Trades[1].Price.Equal(price("102.00")))
	assert.Equal(t, uint64(50), sub.Trades[1].Quantity)

	_, ok := book.index.Get(10)
	assert.False(t, ok, "id 10 should have been fully filled and removed")

	loc, ok := book.index.Get(11)
	require.True(t, ok)
	maker := book.arena.get(loc.Slot)
	assert.Equal(t, uint64(20), maker.Remaining())

	ask, ok := book.BestAsk()
	require.True(t, ok)
	assert.True(t, ask.Equal(price("102.00")))

	require.Len(t, sub.BookDeltas, 2)
	assert.Equal(t, DeltaRemove, sub.BookDeltas[0].Kind)
	assert.Equal(t, DeltaModify, sub.BookDeltas[1].Kind)
	assert.Equal(t, uint64(20), sub.BookDeltas[1].RemainingAtLevel)

	require.NoError(t, CheckInvariants(book))
}

// Scenario 4: FOK insufficient liquidity.
func TestAddOrder_FOKInsufficientLiquidity(t *testing.T) {
	book, sub := newTestBook(t, BackendSkiplist)

	_, err := book.AddOrder(Order{ID: 1, Side: Sell, Type: Limit, TIF: GTC, Price: price("101.00"), Quantity: 30, Symbol: "BTC-USD", Account: "maker"})
	require.NoError(t, err)

	sub.Trades, sub.BookDeltas, sub.BestPrices = nil, nil, nil

	id, err := book.AddOrder(Order{ID: 2, Side: Buy, Type: Limit, TIF: FOK, Price: price("101.00"), Quantity: 100, Symbol: "BTC-USD", Account: "taker"})
	require.NoError(t, err)
	assert.Equal(t, OrderID(2), id)

	assert.Empty(t, sub.Trades)
	assert.Empty(t, sub.BookDeltas)
	assert.Empty(t, sub.BestPrices)

	_, ok := book.index.Get(2)
	assert.False(t, ok, "an unfilled FOK order must not rest")

	ask, ok := book.BestAsk()
	require.True(t, ok)
	assert.True(t, ask.Equal(price("101.00")))
	lvl, _ := book.asks.levelAt(price("101.00"))
	assert.Equal(t, uint64(30), lvl.TotalQuantity)

	require.NoError(t, CheckInvariants(book))
}

// Scenario 5: modify with price change loses priority.
func TestModifyOrder_SamePriceKeepsPriorityDifferentPriceLosesIt(t *testing.T) {
	book, sub := newTestBook(t, BackendSkiplist)

	_, err := book.AddOrder(Order{ID: 1, Side: Buy, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 200, Symbol: "BTC-USD", Account: "a"})
	require.NoError(t, err)
	_, err = book.AddOrder(Order{ID: 2, Side: Buy, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 300, Symbol: "BTC-USD", Account: "b"})
	require.NoError(t, err)

	sub.BookDeltas = nil

	err = book.ModifyOrder(1, price("100.00"), 250)
	require.NoError(t, err)

	lvl, ok := book.bids.levelAt(price("100.00"))
	require.True(t, ok)
	assert.Equal(t, uint64(550), lvl.TotalQuantity)
	assert.Equal(t, OrderID(1), book.arena.get(lvl.head).ID, "A must keep head-of-queue priority")

	require.Len(t, sub.BookDeltas, 1)
	assert.Equal(t, DeltaModify, sub.BookDeltas[0].Kind)

	sub.BookDeltas = nil

	err = book.ModifyOrder(1, price("100.50"), 250)
	require.NoError(t, err)

	lvl100, ok := book.bids.levelAt(price("100.00"))
	require.True(t, ok)
	assert.Equal(t, 1, lvl100.OrderCount)
	assert.Equal(t, OrderID(2), book.arena.get(lvl100.head).ID)

	lvl10050, ok := book.bids.levelAt(price("100.50"))
	require.True(t, ok)
	assert.Equal(t, 1, lvl10050.OrderCount)
	assert.Equal(t, OrderID(1), book.arena.get(lvl10050.head).ID)

	require.Len(t, sub.BookDeltas, 2)
	assert.Equal(t, DeltaRemove, sub.BookDeltas[0].Kind)
	assert.Equal(t, DeltaAdd, sub.BookDeltas[1].Kind)

	require.NoError(t, CheckInvariants(book))
}

// Scenario 6: risk rejects oversize.
func TestAddOrder_RiskRejectsOversize(t *testing.T) {
	sub := NewMemorySubscriber()
	book := NewOrderBook("BTC-USD",
		RiskLimits{MaxOrderSize: 1000, MaxPrice: price("1000000.00"), MaxPosition: 1_000_000},
		WithSubscribers(sub),
	)

	_, err := book.AddOrder(Order{ID: 1, Side: Buy, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 1001, Symbol: "BTC-USD", Account: "a"})
	require.Error(t, err)
	rr, ok := IsRiskRejected(err)
	require.True(t, ok)
	assert.NotEmpty(t, rr.Reason)

	assert.Empty(t, sub.Trades)
	assert.Empty(t, sub.BookDeltas)
	assert.Empty(t, sub.BestPrices)

	_, ok = book.BestBid()
	assert.False(t, ok)

	require.NoError(t, CheckInvariants(book))
}

func TestAddOrder_DuplicateIDRejected(t *testing.T) {
	book, _ := newTestBook(t, BackendSkiplist)
	_, err := book.AddOrder(Order{ID: 1, Side: Buy, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 10, Symbol: "BTC-USD", Account: "a"})
	require.NoError(t, err)

	_, err = book.AddOrder(Order{ID: 1, Side: Buy, Type: Limit, TIF: GTC, Price: price("99.00"), Quantity: 10, Symbol: "BTC-USD", Account: "a"})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestAddOrder_InvalidOrderShapeRejected(t *testing.T) {
	book, _ := newTestBook(t, BackendSkiplist)

	_, err := book.AddOrder(Order{ID: 1, Side: Buy, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 0, Symbol: "BTC-USD", Account: "a"})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = book.AddOrder(Order{ID: 2, Side: Buy, Type: Limit, TIF: GTC, Price: price("0.00"), Quantity: 10, Symbol: "BTC-USD", Account: "a"})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = book.AddOrder(Order{ID: 3, Side: Buy, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 10, Account: "a"})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestCancelOrder_NotFound(t *testing.T) {
	book, _ := newTestBook(t, BackendSkiplist)
	err := book.CancelOrder(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Round-trip: add then cancel restores prior book state, and the cancel
// consumes exactly two sequence numbers (Remove delta, BestPrices).
func TestAddThenCancel_RestoresPriorState(t *testing.T) {
	book, sub := newTestBook(t, BackendSkiplist)

	_, ok := book.BestBid()
	assert.False(t, ok)

	err := book.CancelOrder(1)
	assert.ErrorIs(t, err, ErrNotFound)

	before := sub.Trades

	id, err := book.AddOrder(Order{ID: 1, Side: Buy, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 10, Symbol: "BTC-USD", Account: "a"})
	require.NoError(t, err)
	firstSeq := sub.BestPrices[len(sub.BestPrices)-1].Sequence

	err = book.CancelOrder(id)
	require.NoError(t, err)

	_, ok = book.BestBid()
	assert.False(t, ok)
	assert.Equal(t, 0, book.OrderCount())
	assert.Equal(t, before, sub.Trades)

	lastSeq := sub.BestPrices[len(sub.BestPrices)-1].Sequence
	assert.Equal(t, firstSeq+2, lastSeq)

	require.NoError(t, CheckInvariants(book))
}

func TestIOCOrder_DiscardsUnfilledRemainder(t *testing.T) {
	book, _ := newTestBook(t, BackendSkiplist)

	_, err := book.AddOrder(Order{ID: 1, Side: Sell, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 10, Symbol: "BTC-USD", Account: "maker"})
	require.NoError(t, err)

	id, err := book.AddOrder(Order{ID: 2, Side: Buy, Type: Limit, TIF: IOC, Price: price("100.00"), Quantity: 50, Symbol: "BTC-USD", Account: "taker"})
	require.NoError(t, err)

	_, ok := book.index.Get(id)
	assert.False(t, ok, "IOC remainder must not rest")
	assert.Equal(t, 0, book.AskLevelCount())

	require.NoError(t, CheckInvariants(book))
}

func TestMarketOrder_AgainstEmptyBookFillsNothing(t *testing.T) {
	book, sub := newTestBook(t, BackendSkiplist)

	id, err := book.AddOrder(Order{ID: 1, Side: Buy, Type: Market, Symbol: "BTC-USD", Account: "a", Quantity: 10})
	require.NoError(t, err)

	assert.Empty(t, sub.Trades)
	_, ok := book.index.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, book.OrderCount())
}

func TestPortfolio_UpdatedOnlyOnTrade(t *testing.T) {
	book, _ := newTestBook(t, BackendSkiplist)

	_, err := book.AddOrder(Order{ID: 1, Side: Buy, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 10, Symbol: "BTC-USD", Account: "buyer"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), book.Portfolio().PositionOf("buyer", "BTC-USD"))

	_, err = book.AddOrder(Order{ID: 2, Side: Sell, Type: Limit, TIF: GTC, Price: price("100.00"), Quantity: 10, Symbol: "BTC-USD", Account: "seller"})
	require.NoError(t, err)

	assert.Equal(t, int64(10), book.Portfolio().PositionOf("buyer", "BTC-USD"))
	assert.Equal(t, int64(-10), book.Portfolio().PositionOf("seller", "BTC-USD"))
}
