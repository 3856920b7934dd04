// Package book implements the price-indexed limit order book: one common
// operational contract (Book) realized by four interchangeable
// representations — Dense (fixed-tick array of structs), SoA (fixed-tick
// structure of arrays), Tree (ordered map keyed by price) and Hybrid (dense
// hot zone + tree cold zone). All four satisfy identical semantics; they
// exist to be compared under a latency tracker, not to diverge in
// behavior.
package book

import (
	"fenrir/internal/bookerr"
	"fenrir/internal/types"
)

// Fill records one resting order being matched against an incoming market
// order. No taker id is recorded — market orders are not durably
// identified.
type Fill struct {
	Price        types.Price
	Quantity     types.Quantity
	MakerOrderID types.OrderId
}

// Book is the capability set every representation exposes. Callers (and
// benchmark drivers) are written generically against this interface; which
// concrete representation backs it is chosen once, at construction, by the
// outer program — never by per-operation dispatch on the hot path.
type Book interface {
	// Add admits a new resting limit order, validating tick/lot alignment
	// and bounds first. On success the order is appended to the tail of
	// its (side, price) level.
	Add(order types.Order) error

	// Cancel removes a resting order by id. Fails if id is unknown to the
	// order-index.
	Cancel(id types.OrderId) error

	// ExecuteMarket consumes liquidity from the side opposite to side, in
	// price-priority then within-level FIFO order, until qty is
	// exhausted or opposing liquidity runs out. On partial completion the
	// fills already produced are returned alongside an error describing
	// the unfilled remainder.
	ExecuteMarket(side types.Side, qty types.Quantity) ([]Fill, error)

	// BestBid returns the highest resting bid price, if any.
	BestBid() (types.Price, bool)

	// BestAsk returns the lowest resting ask price, if any.
	BestAsk() (types.Price, bool)

	// DepthAt returns the total resting quantity at exactly (price, side).
	// Out-of-range, tick-misaligned or absent prices report zero.
	DepthAt(price types.Price, side types.Side) uint32

	// Mid returns the floored midpoint of BestBid and BestAsk; false if
	// either side is empty.
	Mid() (types.Price, bool)
}

// locator is the order-index's back-reference: a lookup aid, never an
// owning reference. Every admit inserts one, every removal (cancel or full
// fill) deletes it.
type locator struct {
	side  types.Side
	price types.Price
}

// validate applies the four admission checks from the common contract, in
// order, returning the first violation.
func validate(price types.Price, qty types.Quantity) error {
	if uint32(price)%types.TickSize != 0 {
		return bookerr.InvalidTick(uint32(price), types.TickSize)
	}
	if price == 0 || uint32(price) >= types.MaxPrice {
		return bookerr.OutOfBounds(uint32(price), types.MaxPrice)
	}
	if uint32(qty)%types.LotSize != 0 {
		return bookerr.InvalidLot(uint32(qty), types.LotSize)
	}
	if qty == 0 {
		return bookerr.ZeroQuantity()
	}
	return nil
}

// validDepthLookup reports whether price is in bounds and tick-aligned,
// mirroring the bounds half of validate() for read-only queries that must
// return zero rather than an error on a bad price.
func validDepthLookup(price types.Price) bool {
	if price == 0 || uint32(price) >= types.MaxPrice {
		return false
	}
	return uint32(price)%types.TickSize == 0
}

// mid computes the common Mid() semantics from two optional best prices.
func mid(bestBid, bestAsk types.Price, haveBid, haveAsk bool) (types.Price, bool) {
	if !haveBid || !haveAsk {
		return 0, false
	}
	return types.Mid(bestBid, bestAsk), true
}
