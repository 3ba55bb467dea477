package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLadderBackends_BestIsBidDescendingAskAscending(t *testing.T) {
	for _, kind := range allBackends {
		t.Run(backendName(kind), func(t *testing.T) {
			bids := newLadder(Buy, kind, 8)
			for _, p := range []string{"100.00", "102.00", "101.00"} {
				bids.getOrCreateLevel(price(p))
			}
			best, _, ok := bids.Best()
			require.True(t, ok)
			assert.True(t, best.Equal(price("102.00")), "bid side must surface the highest price first")

			asks := newLadder(Sell, kind, 8)
			for _, p := range []string{"100.00", "102.00", "101.00"} {
				asks.getOrCreateLevel(price(p))
			}
			best, _, ok = asks.Best()
			require.True(t, ok)
			assert.True(t, best.Equal(price("100.00")), "ask side must surface the lowest price first")
		})
	}
}

func TestLadderBackends_RemoveLevelIfEmpty(t *testing.T) {
	for _, kind := range allBackends {
		t.Run(backendName(kind), func(t *testing.T) {
			ladder := newLadder(Buy, kind, 4)
			lvl := ladder.getOrCreateLevel(price("100.00"))
			assert.Equal(t, 1, ladder.LevelCount())

			lvl.OrderCount = 1
			ladder.removeLevelIfEmpty(lvl)
			assert.Equal(t, 1, ladder.LevelCount(), "a non-empty level must not be removed")

			lvl.OrderCount = 0
			ladder.removeLevelIfEmpty(lvl)
			assert.Equal(t, 0, ladder.LevelCount())

			_, ok := ladder.levelAt(price("100.00"))
			assert.False(t, ok)
		})
	}
}

func TestLadderBackends_DepthIsBestFirst(t *testing.T) {
	for _, kind := range allBackends {
		t.Run(backendName(kind), func(t *testing.T) {
			asks := newLadder(Sell, kind, 8)
			for _, p := range []string{"103.00", "101.00", "102.00"} {
				asks.getOrCreateLevel(price(p))
			}

			depth := asks.Depth(2)
			require.Len(t, depth, 2)
			assert.True(t, depth[0].Price.Equal(price("101.00")))
			assert.True(t, depth[1].Price.Equal(price("102.00")))
		})
	}
}

func TestLLRBBackend_GrowsPastCapacityHintInsteadOfPanicking(t *testing.T) {
	ladder := newLadder(Sell, BackendLLRB, 2)

	assert.NotPanics(t, func() {
		for i := 0; i < 50; i++ {
			ladder.getOrCreateLevel(price(fmt.Sprintf("%d.00", 100+i)))
		}
	})
	assert.Equal(t, 50, ladder.LevelCount())

	best, _, ok := ladder.Best()
	require.True(t, ok)
	assert.True(t, best.Equal(price("100.00")))
}

func TestPricesEqualWithinMinIncrement(t *testing.T) {
	assert.True(t, pricesEqual(price("100.00"), price("100.001")))
	assert.False(t, pricesEqual(price("100.00"), price("100.02")))
}

func TestRoundPriceUsesCanonicalPlaces(t *testing.T) {
	assert.Equal(t, "100.12", roundPrice(price("100.1234")).String())
}
