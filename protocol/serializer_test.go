package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultJSONSerializer_RoundTripsNewOrderSingle(t *testing.T) {
	var ser Serializer = DefaultJSONSerializer{}

	original := NewOrderSingle{
		OrderID:   42,
		Symbol:    "BTC-USD",
		Side:      SideBuy,
		OrderType: OrderTypeLimit,
		TIF:       TIFGTC,
		Price:     "100.50",
		Quantity:  10,
		Account:   "acct-1",
		Timestamp: 1000,
	}

	encoded, err := ser.Marshal(original)
	require.NoError(t, err)

	var decoded NewOrderSingle
	require.NoError(t, ser.Unmarshal(encoded, &decoded))
	assert.Equal(t, original, decoded)
}

func TestDefaultJSONSerializer_UnmarshalErrorsOnGarbage(t *testing.T) {
	var ser Serializer = DefaultJSONSerializer{}

	var decoded NewOrderSingle
	err := ser.Unmarshal([]byte("not json"), &decoded)
	assert.Error(t, err)
}
