package structure

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestPooledSkiplistInsertAndMin(t *testing.T) {
	sl := NewPooledSkiplist(8, 1)

	ok, err := sl.Insert(d("10.00"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sl.Insert(d("5.00"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sl.Insert(d("20.00"))
	require.NoError(t, err)
	assert.True(t, ok)

	min, ok := sl.Min()
	require.True(t, ok)
	assert.True(t, min.Equal(d("5.00")))
	assert.Equal(t, int32(3), sl.Count())
}

func TestPooledSkiplistInsertDuplicateReturnsFalse(t *testing.T) {
	sl := NewPooledSkiplist(4, 1)

	ok, err := sl.Insert(d("1.00"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sl.Insert(d("1.00"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int32(1), sl.Count())
}

func TestPooledSkiplistDelete(t *testing.T) {
	sl := NewPooledSkiplist(4, 1)
	_, _ = sl.Insert(d("1.00"))
	_, _ = sl.Insert(d("2.00"))
	_, _ = sl.Insert(d("3.00"))

	assert.True(t, sl.Delete(d("2.00")))
	assert.False(t, sl.Delete(d("2.00")))
	assert.Equal(t, int32(2), sl.Count())

	assert.False(t, sl.Contains(d("2.00")))
	assert.True(t, sl.Contains(d("1.00")))
}

func TestPooledSkiplistGrowsPastInitialCapacity(t *testing.T) {
	sl := NewPooledSkiplist(2, 1)
	startCap := sl.Capacity()

	for i := 0; i < 50; i++ {
		_, err := sl.Insert(decimal.NewFromInt(int64(i)))
		require.NoError(t, err)
	}

	assert.Equal(t, int32(50), sl.Count())
	assert.Greater(t, sl.Capacity(), startCap)
}

func TestPooledSkiplistInOrderSliceIsAscending(t *testing.T) {
	sl := NewPooledSkiplist(8, 1)
	values := []string{"30.00", "10.00", "20.00", "5.00"}
	for _, v := range values {
		_, _ = sl.Insert(d(v))
	}

	ordered := sl.InOrderSlice()
	require.Len(t, ordered, 4)
	for i := 1; i < len(ordered); i++ {
		assert.True(t, ordered[i-1].LessThan(ordered[i]))
	}
}

func TestPooledSkiplistRespectsMaxCapacity(t *testing.T) {
	sl := NewPooledSkiplistWithOptions(2, 1, SkiplistOptions{MaxCapacity: 2})
	_, err := sl.Insert(decimal.NewFromInt(1))
	require.NoError(t, err)
	_, err = sl.Insert(decimal.NewFromInt(2))
	require.NoError(t, err)

	_, err = sl.Insert(decimal.NewFromInt(3))
	assert.ErrorIs(t, err, ErrMaxCapacityReached)
}

func TestPooledSkiplistMinOnEmptyReturnsFalse(t *testing.T) {
	sl := NewPooledSkiplist(4, 1)
	_, ok := sl.Min()
	assert.False(t, ok)
}
