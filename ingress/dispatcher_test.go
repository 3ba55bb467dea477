package ingress

import (
	"sync"
	"testing"

	"github.com/finprim/lobengine/match"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	limits := match.RiskLimits{MaxOrderSize: 1000, MaxPrice: decimal.NewFromInt(100000), MaxPosition: 1_000_000}
	book := match.NewOrderBook("BTC-USD", limits)
	return NewDispatcher(book, 16)
}

func TestDispatcher_AddOrderBlocksUntilApplied(t *testing.T) {
	d := newTestDispatcher(t)

	id, err := d.AddOrder(match.Order{ID: 1, Side: match.Buy, Type: match.Limit, TIF: match.GTC, Price: decimal.NewFromInt(100), Quantity: 10, Symbol: "BTC-USD", Account: "a"})
	require.NoError(t, err)
	assert.Equal(t, match.OrderID(1), id)

	bid, ok := d.Book().BestBid()
	require.True(t, ok)
	assert.True(t, bid.Equal(decimal.NewFromInt(100)))
}

func TestDispatcher_SerializesConcurrentProducers(t *testing.T) {
	d := newTestDispatcher(t)

	const n = 50
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := d.AddOrder(match.Order{
				ID: match.OrderID(i + 1), Side: match.Buy, Type: match.Limit, TIF: match.GTC,
				Price: decimal.NewFromInt(100), Quantity: 1, Symbol: "BTC-USD", Account: "a",
			})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, n, d.Book().OrderCount())
}

func TestDispatcher_CancelOrder(t *testing.T) {
	d := newTestDispatcher(t)

	_, err := d.AddOrder(match.Order{ID: 1, Side: match.Buy, Type: match.Limit, TIF: match.GTC, Price: decimal.NewFromInt(100), Quantity: 10, Symbol: "BTC-USD", Account: "a"})
	require.NoError(t, err)

	require.NoError(t, d.CancelOrder(1))
	assert.Equal(t, 0, d.Book().OrderCount())

	err = d.CancelOrder(1)
	assert.ErrorIs(t, err, match.ErrNotFound)
}

func TestDispatcher_ModifyOrder(t *testing.T) {
	d := newTestDispatcher(t)

	_, err := d.AddOrder(match.Order{ID: 1, Side: match.Buy, Type: match.Limit, TIF: match.GTC, Price: decimal.NewFromInt(100), Quantity: 10, Symbol: "BTC-USD", Account: "a"})
	require.NoError(t, err)

	require.NoError(t, d.ModifyOrder(1, decimal.NewFromInt(100), 25))

	bid, ok := d.Book().BestBid()
	require.True(t, ok)
	assert.True(t, bid.Equal(decimal.NewFromInt(100)))
}
