package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_EnvelopeCarriesNewOrderSinglePayload(t *testing.T) {
	var ser Serializer = DefaultJSONSerializer{}

	payload, err := ser.Marshal(NewOrderSingle{
		OrderID:   7,
		Symbol:    "ETH-USD",
		Side:      SideSell,
		OrderType: OrderTypeLimit,
		TIF:       TIFIOC,
		Price:     "2500.00",
		Quantity:  3,
		Account:   "acct-2",
	})
	require.NoError(t, err)

	cmd := Command{
		Version: 1,
		Symbol:  "ETH-USD",
		SeqID:   1,
		Type:    CmdAddOrder,
		Payload: payload,
	}

	assert.Equal(t, CmdAddOrder, cmd.Type)

	var decoded NewOrderSingle
	require.NoError(t, ser.Unmarshal(cmd.Payload, &decoded))
	assert.Equal(t, uint64(7), decoded.OrderID)
	assert.Equal(t, SideSell, decoded.Side)
}

func TestCommand_OrderCancelRequestRoundTrips(t *testing.T) {
	var ser Serializer = DefaultJSONSerializer{}

	payload, err := ser.Marshal(OrderCancelRequest{OrderID: 9, Symbol: "BTC-USD"})
	require.NoError(t, err)

	cmd := Command{Type: CmdCancelOrder, Symbol: "BTC-USD", Payload: payload}

	var decoded OrderCancelRequest
	require.NoError(t, ser.Unmarshal(cmd.Payload, &decoded))
	assert.Equal(t, uint64(9), decoded.OrderID)
	assert.Equal(t, "BTC-USD", decoded.Symbol)
}

func TestCommand_OrderCancelReplaceRequestRoundTrips(t *testing.T) {
	var ser Serializer = DefaultJSONSerializer{}

	payload, err := ser.Marshal(OrderCancelReplaceRequest{
		OrderID:     9,
		Symbol:      "BTC-USD",
		NewPrice:    "101.00",
		NewQuantity: 5,
	})
	require.NoError(t, err)

	cmd := Command{Type: CmdModifyOrder, Symbol: "BTC-USD", Payload: payload}

	var decoded OrderCancelReplaceRequest
	require.NoError(t, ser.Unmarshal(cmd.Payload, &decoded))
	assert.Equal(t, "101.00", decoded.NewPrice)
	assert.Equal(t, uint64(5), decoded.NewQuantity)
}
