package book

import (
	"fenrir/internal/bookerr"
	"fenrir/internal/types"
)

// Dense is the fixed-tick array-of-structs representation (spec §4.2): two
// arrays of MaxPrice level slots, one per side, indexed directly by tick.
// Admission is O(1); best-bid/best-ask/market-execute scan the array,
// trading O(MAX_PRICE) worst-case reads for O(1) writes.
type Dense struct {
	bids       [types.MaxPrice]aosLevel
	asks       [types.MaxPrice]aosLevel
	orderIndex map[types.OrderId]locator
}

// NewDense returns an empty Dense book.
func NewDense() *Dense {
	return &Dense{orderIndex: make(map[types.OrderId]locator)}
}

func (b *Dense) levelFor(side types.Side, price types.Price) *aosLevel {
	if side == types.Bid {
		return &b.bids[price]
	}
	return &b.asks[price]
}

func (b *Dense) Add(order types.Order) error {
	if err := validate(order.Price(), order.Quantity()); err != nil {
		return err
	}
	lvl := b.levelFor(order.Side(), order.Price())
	lvl.orders = append(lvl.orders, order)
	b.orderIndex[order.ID()] = locator{side: order.Side(), price: order.Price()}
	return nil
}

func (b *Dense) Cancel(id types.OrderId) error {
	loc, ok := b.orderIndex[id]
	if !ok {
		return bookerr.UnknownOrder(uint64(id))
	}
	lvl := b.levelFor(loc.side, loc.price)
	if !lvl.cancelAt(id) {
		return bookerr.DataInconsistency(uint64(id))
	}
	delete(b.orderIndex, id)
	return nil
}

func (b *Dense) ExecuteMarket(side types.Side, qty types.Quantity) ([]Fill, error) {
	remaining := uint32(qty)
	var fills []Fill

	if side == types.Bid {
		// Market buy: consume asks ascending from the lowest tick.
		for p := uint32(1); p < types.MaxPrice && remaining > 0; p++ {
			lvl := &b.asks[p]
			if lvl.empty() {
				continue
			}
			var err error
			remaining, err = matchAoSLevel(lvl, remaining, types.Price(p), b.orderIndex, &fills)
			if err != nil {
				return fills, err
			}
		}
	} else {
		// Market sell: consume bids descending from the highest tick.
		for p := int(types.MaxPrice) - 1; p >= 1 && remaining > 0; p-- {
			lvl := &b.bids[p]
			if lvl.empty() {
				continue
			}
			var err error
			remaining, err = matchAoSLevel(lvl, remaining, types.Price(p), b.orderIndex, &fills)
			if err != nil {
				return fills, err
			}
		}
	}

	if remaining > 0 {
		return fills, bookerr.PartiallyFilled(remaining)
	}
	return fills, nil
}

func (b *Dense) BestBid() (types.Price, bool) {
	for p := int(types.MaxPrice) - 1; p >= 1; p-- {
		if !b.bids[p].empty() {
			return types.Price(p), true
		}
	}
	return 0, false
}

func (b *Dense) BestAsk() (types.Price, bool) {
	for p := uint32(1); p < types.MaxPrice; p++ {
		if !b.asks[p].empty() {
			return types.Price(p), true
		}
	}
	return 0, false
}

func (b *Dense) DepthAt(price types.Price, side types.Side) uint32 {
	if !validDepthLookup(price) {
		return 0
	}
	return b.levelFor(side, price).totalQuantity()
}

func (b *Dense) Mid() (types.Price, bool) {
	bid, haveBid := b.BestBid()
	ask, haveAsk := b.BestAsk()
	return mid(bid, ask, haveBid, haveAsk)
}
