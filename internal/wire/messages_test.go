package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/book"
	"fenrir/internal/types"
)

func TestNewOrder_RoundTrips(t *testing.T) {
	want := NewOrderMessage{Side: types.Bid, Price: 101, Quantity: 25}
	frame := SerializeNewOrder(want)

	got, err := ParseMessage(frame)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCancelOrder_RoundTrips(t *testing.T) {
	want := CancelOrderMessage{OrderID: 9876543210}
	frame := SerializeCancelOrder(want)

	got, err := ParseMessage(frame)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMarketOrder_RoundTrips(t *testing.T) {
	want := MarketOrderMessage{Side: types.Ask, Quantity: 500}
	frame := SerializeMarketOrder(want)

	got, err := ParseMessage(frame)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHeartbeat_RoundTrips(t *testing.T) {
	buf := []byte{0, byte(Heartbeat)}
	got, err := ParseMessage(buf)
	require.NoError(t, err)
	assert.Equal(t, HeartbeatMessage{}, got)
}

func TestParseMessage_TooShortHeader(t *testing.T) {
	_, err := ParseMessage([]byte{0})
	assert.ErrorIs(t, err, ErrMessageTooShort)
}

func TestParseMessage_UnknownType(t *testing.T) {
	buf := []byte{0xFF, 0xFF}
	_, err := ParseMessage(buf)
	assert.ErrorIs(t, err, ErrInvalidMessageType)
}

func TestParseNewOrder_TruncatedBody(t *testing.T) {
	buf := []byte{0, byte(NewOrder), 0, 0}
	_, err := ParseMessage(buf)
	assert.ErrorIs(t, err, ErrMessageTooShort)
}

func TestFillReport_RoundTrips(t *testing.T) {
	fill := book.Fill{Price: 101, Quantity: 10, MakerOrderID: 7}
	frame := SerializeFillReport(fill)

	kind, parsed, err := ParseReport(frame)
	require.NoError(t, err)
	assert.Equal(t, FillReport, kind)
	assert.Equal(t, ParsedFillReport{MakerOrderID: 7, Price: 101, Quantity: 10}, parsed)
}

func TestErrorReport_RoundTrips(t *testing.T) {
	frame := SerializeErrorReport(errors.New("boom"))

	kind, parsed, err := ParseReport(frame)
	require.NoError(t, err)
	assert.Equal(t, ErrorReport, kind)
	assert.Equal(t, "boom", parsed)
}

func TestParseReport_EmptyBuffer(t *testing.T) {
	_, _, err := ParseReport(nil)
	assert.ErrorIs(t, err, ErrMessageTooShort)
}
