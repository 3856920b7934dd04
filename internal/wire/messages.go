// Package wire implements the binary command protocol the demo server
// speaks: fixed-width BigEndian frames sized for the book's native types
// (uint32 price ticks, uint32 lot quantities, a one-byte side, a uint64
// order id) rather than the general-purpose asset/owner framing a
// multi-instrument exchange would need.
package wire

import (
	"encoding/binary"
	"errors"

	"fenrir/internal/types"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short for its type")
)

// MessageType identifies the command a frame carries.
type MessageType uint16

const (
	Heartbeat MessageType = iota
	NewOrder
	CancelOrder
	MarketOrder
)

// Message format constants. Every frame begins with a 2-byte MessageType.
const (
	HeaderLen             = 2
	NewOrderBodyLen       = 1 + 4 + 4 // side + price + quantity
	CancelOrderBodyLen    = 8         // order id
	MarketOrderBodyLen    = 1 + 4     // side + quantity
)

// Message is satisfied by every parsed command frame.
type Message interface {
	Type() MessageType
}

// NewOrderMessage requests admission of a resting limit order.
type NewOrderMessage struct {
	Side     types.Side
	Price    types.Price
	Quantity types.Quantity
}

func (NewOrderMessage) Type() MessageType { return NewOrder }

// CancelOrderMessage requests removal of a resting order by id.
type CancelOrderMessage struct {
	OrderID types.OrderId
}

func (CancelOrderMessage) Type() MessageType { return CancelOrder }

// MarketOrderMessage requests immediate execution against resting
// liquidity on the opposite side.
type MarketOrderMessage struct {
	Side     types.Side
	Quantity types.Quantity
}

func (MarketOrderMessage) Type() MessageType { return MarketOrder }

// HeartbeatMessage carries no payload; it exists so a connection can be
// kept alive between commands.
type HeartbeatMessage struct{}

func (HeartbeatMessage) Type() MessageType { return Heartbeat }

// ParseMessage decodes one frame, dispatching on its leading MessageType.
func ParseMessage(msg []byte) (Message, error) {
	if len(msg) < HeaderLen {
		return nil, ErrMessageTooShort
	}
	typeOf := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	body := msg[HeaderLen:]

	switch typeOf {
	case Heartbeat:
		return HeartbeatMessage{}, nil
	case NewOrder:
		return parseNewOrder(body)
	case CancelOrder:
		return parseCancelOrder(body)
	case MarketOrder:
		return parseMarketOrder(body)
	default:
		return nil, ErrInvalidMessageType
	}
}

func parseNewOrder(body []byte) (NewOrderMessage, error) {
	if len(body) < NewOrderBodyLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	return NewOrderMessage{
		Side:     types.Side(body[0]),
		Price:    types.Price(binary.BigEndian.Uint32(body[1:5])),
		Quantity: types.Quantity(binary.BigEndian.Uint32(body[5:9])),
	}, nil
}

func parseCancelOrder(body []byte) (CancelOrderMessage, error) {
	if len(body) < CancelOrderBodyLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	return CancelOrderMessage{
		OrderID: types.OrderId(binary.BigEndian.Uint64(body[0:8])),
	}, nil
}

func parseMarketOrder(body []byte) (MarketOrderMessage, error) {
	if len(body) < MarketOrderBodyLen {
		return MarketOrderMessage{}, ErrMessageTooShort
	}
	return MarketOrderMessage{
		Side:     types.Side(body[0]),
		Quantity: types.Quantity(binary.BigEndian.Uint32(body[1:5])),
	}, nil
}

// SerializeNewOrder encodes a new-order command frame.
func SerializeNewOrder(m NewOrderMessage) []byte {
	buf := make([]byte, HeaderLen+NewOrderBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(NewOrder))
	buf[2] = byte(m.Side)
	binary.BigEndian.PutUint32(buf[3:7], uint32(m.Price))
	binary.BigEndian.PutUint32(buf[7:11], uint32(m.Quantity))
	return buf
}

// SerializeCancelOrder encodes a cancel command frame.
func SerializeCancelOrder(m CancelOrderMessage) []byte {
	buf := make([]byte, HeaderLen+CancelOrderBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(CancelOrder))
	binary.BigEndian.PutUint64(buf[2:10], uint64(m.OrderID))
	return buf
}

// SerializeMarketOrder encodes a market-order command frame.
func SerializeMarketOrder(m MarketOrderMessage) []byte {
	buf := make([]byte, HeaderLen+MarketOrderBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(MarketOrder))
	buf[2] = byte(m.Side)
	binary.BigEndian.PutUint32(buf[3:7], uint32(m.Quantity))
	return buf
}
