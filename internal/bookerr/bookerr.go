// Package bookerr classifies the five error kinds a book operation can
// surface (see the error taxonomy: invalid input, unknown order,
// insufficient liquidity, data-model violation, unsupported operation),
// carrying the stable string prefixes callers may pattern-match on while
// remaining comparable via errors.Is.
package bookerr

import "fmt"

// Kind classifies why a book operation failed.
type Kind int

const (
	// KindInvalidInput covers admission validation failures: bad tick
	// alignment, out-of-bounds price, bad lot alignment, zero quantity.
	KindInvalidInput Kind = iota
	// KindUnknownOrder covers cancel of an id absent from the order-index.
	KindUnknownOrder
	// KindInsufficientLiquidity covers a market order that could not be
	// fully filled. Fills already produced are still returned to the
	// caller alongside this error.
	KindInsufficientLiquidity
	// KindDataInconsistency covers the order-index pointing at a level
	// that does not contain the id — an implementation bug, not a caller
	// error.
	KindDataInconsistency
	// KindUnsupported covers a market order that would require a partial
	// fill of a resting order.
	KindUnsupported
)

// Error is a classified book error. For invalid input, unknown order and
// insufficient liquidity its Error() string begins with a stable prefix
// ("Price … is not a valid tick", "Order … not found", "Market order
// partially filled: …" and so on); the tail is not contractual. The
// data-inconsistency and unsupported-operation messages have no such
// prefix of their own.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Is makes errors.Is match any *Error target of the same Kind; two *Error
// values compare equal by Kind regardless of message.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// InvalidTick reports that price is not a multiple of tickSize.
func InvalidTick(price, tickSize uint32) error {
	return newf(KindInvalidInput, "Price %d is not a valid tick (tick_size=%d)", price, tickSize)
}

// OutOfBounds reports that price falls outside [1, maxPrice).
func OutOfBounds(price, maxPrice uint32) error {
	return newf(KindInvalidInput, "Price %d out of bounds [1, %d)", price, maxPrice)
}

// InvalidLot reports that quantity is not a multiple of lotSize.
func InvalidLot(quantity, lotSize uint32) error {
	return newf(KindInvalidInput, "Quantity %d is not a valid lot (lot_size=%d)", quantity, lotSize)
}

// ZeroQuantity reports an admission attempt with zero quantity.
func ZeroQuantity() error {
	return newf(KindInvalidInput, "Quantity cannot be zero")
}

// UnknownOrder reports a cancel against an id the order-index has no
// record of.
func UnknownOrder(id uint64) error {
	return newf(KindUnknownOrder, "Order %d not found", id)
}

// PartiallyFilled reports a market order that exhausted opposing liquidity
// before being fully satisfied; remaining is the unfilled quantity.
func PartiallyFilled(remaining uint32) error {
	return newf(KindInsufficientLiquidity, "Market order partially filled: %d remaining", remaining)
}

// DataInconsistency reports an order-index entry whose level does not
// actually hold the id. Indicates an implementation bug.
func DataInconsistency(id uint64) error {
	return newf(KindDataInconsistency, "Order %d found in index but not in book (data inconsistency)", id)
}

// UnsupportedPartialRestingFill reports an incoming quantity smaller than
// the head resting order's quantity — the current design treats this as
// fatal rather than silently truncating a resting order.
func UnsupportedPartialRestingFill(orderID uint64) error {
	return newf(KindUnsupported, "partial fill of resting order %d is not supported", orderID)
}
