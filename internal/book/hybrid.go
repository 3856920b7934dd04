package book

import (
	"fenrir/internal/bookerr"
	"fenrir/internal/types"
)

// HotZoneSize is the width, in ticks, of the hybrid representation's dense
// hot window (spec §4.5). Its default of 200 covers $2 of intraday
// movement at a 1-tick size.
const HotZoneSize = 200

// hotZoneRadius is half the hot zone width on either side of its center.
const hotZoneRadius = HotZoneSize / 2

// Hybrid combines Dense and Tree: a contiguous hot zone of HotZoneSize
// ticks around a fixed center gets dense-array O(1) treatment; everything
// else falls to a sparse ordered map. The center is fixed at construction
// (spec §4.5) — dynamic recentering as the market drifts is an open
// direction, not implemented here.
type Hybrid struct {
	hotBids [HotZoneSize]aosLevel
	hotAsks [HotZoneSize]aosLevel

	coldBids *orderedLevels
	coldAsks *orderedLevels

	center     uint32
	orderIndex map[types.OrderId]locator
}

// NewHybrid returns an empty Hybrid book with its hot-zone center fixed at
// MaxPrice/2.
func NewHybrid() *Hybrid {
	return NewHybridCenteredAt(types.MaxPrice / 2)
}

// NewHybridCenteredAt returns an empty Hybrid book with an explicit
// hot-zone center, for callers that know the instrument's typical trading
// range in advance.
func NewHybridCenteredAt(center uint32) *Hybrid {
	return &Hybrid{
		coldBids:   newOrderedLevels(true),
		coldAsks:   newOrderedLevels(false),
		center:     center,
		orderIndex: make(map[types.OrderId]locator),
	}
}

func (b *Hybrid) lowerBound() uint32 {
	if b.center < hotZoneRadius {
		return 0
	}
	return b.center - hotZoneRadius
}

func (b *Hybrid) inHotZone(price uint32) bool {
	lower := b.lowerBound()
	return price >= lower && price < lower+HotZoneSize
}

func (b *Hybrid) hotIndex(price uint32) int {
	return int(price - b.lowerBound())
}

func (b *Hybrid) hotLevelFor(side types.Side, price uint32) *aosLevel {
	idx := b.hotIndex(price)
	if side == types.Bid {
		return &b.hotBids[idx]
	}
	return &b.hotAsks[idx]
}

func (b *Hybrid) coldLevelsFor(side types.Side) *orderedLevels {
	if side == types.Bid {
		return b.coldBids
	}
	return b.coldAsks
}

func (b *Hybrid) Add(order types.Order) error {
	if err := validate(order.Price(), order.Quantity()); err != nil {
		return err
	}
	priceValue := uint32(order.Price())
	if b.inHotZone(priceValue) {
		lvl := b.hotLevelFor(order.Side(), priceValue)
		lvl.orders = append(lvl.orders, order)
	} else {
		lvl := b.coldLevelsFor(order.Side()).levelFor(order.Price())
		lvl.orders = append(lvl.orders, order)
	}
	b.orderIndex[order.ID()] = locator{side: order.Side(), price: order.Price()}
	return nil
}

func (b *Hybrid) Cancel(id types.OrderId) error {
	loc, ok := b.orderIndex[id]
	if !ok {
		return bookerr.UnknownOrder(uint64(id))
	}
	priceValue := uint32(loc.price)

	if b.inHotZone(priceValue) {
		lvl := b.hotLevelFor(loc.side, priceValue)
		if !lvl.cancelAt(id) {
			return bookerr.DataInconsistency(uint64(id))
		}
		delete(b.orderIndex, id)
		return nil
	}

	levels := b.coldLevelsFor(loc.side)
	lvl, ok := levels.get(loc.price)
	if !ok || !lvl.cancelAt(id) {
		return bookerr.DataInconsistency(uint64(id))
	}
	delete(b.orderIndex, id)
	levels.removeIfEmpty(loc.price)
	return nil
}

func (b *Hybrid) ExecuteMarket(side types.Side, qty types.Quantity) ([]Fill, error) {
	remaining := uint32(qty)
	var fills []Fill

	opposite := side.Opposite()
	lower := b.lowerBound()

	if side == types.Bid {
		// Market buy: hot asks ascending, then cold asks ascending.
		for i := 0; i < HotZoneSize && remaining > 0; i++ {
			lvl := &b.hotAsks[i]
			if lvl.empty() {
				continue
			}
			var err error
			remaining, err = matchAoSLevel(lvl, remaining, types.Price(lower+uint32(i)), b.orderIndex, &fills)
			if err != nil {
				return fills, err
			}
		}
	} else {
		// Market sell: hot bids descending, then cold bids descending.
		for i := HotZoneSize - 1; i >= 0 && remaining > 0; i-- {
			lvl := &b.hotBids[i]
			if lvl.empty() {
				continue
			}
			var err error
			remaining, err = matchAoSLevel(lvl, remaining, types.Price(lower+uint32(i)), b.orderIndex, &fills)
			if err != nil {
				return fills, err
			}
		}
	}

	if remaining == 0 {
		return fills, nil
	}

	coldLevels := b.coldLevelsFor(opposite)
	var emptied []types.Price
	var matchErr error
	coldLevels.tree.Scan(func(lvl *treeLevel) bool {
		if remaining == 0 {
			return false
		}
		remaining, matchErr = matchAoSLevel(&lvl.aosLevel, remaining, lvl.price, b.orderIndex, &fills)
		if lvl.empty() {
			emptied = append(emptied, lvl.price)
		}
		return matchErr == nil && remaining > 0
	})
	for _, p := range emptied {
		coldLevels.tree.Delete(&treeLevel{price: p})
	}
	if matchErr != nil {
		return fills, matchErr
	}

	if remaining > 0 {
		return fills, bookerr.PartiallyFilled(remaining)
	}
	return fills, nil
}

func (b *Hybrid) BestBid() (types.Price, bool) {
	lower := b.lowerBound()
	for i := HotZoneSize - 1; i >= 0; i-- {
		if !b.hotBids[i].empty() {
			return types.Price(lower + uint32(i)), true
		}
	}
	return b.coldBids.best()
}

func (b *Hybrid) BestAsk() (types.Price, bool) {
	lower := b.lowerBound()
	for i := 0; i < HotZoneSize; i++ {
		if !b.hotAsks[i].empty() {
			return types.Price(lower + uint32(i)), true
		}
	}
	return b.coldAsks.best()
}

func (b *Hybrid) DepthAt(price types.Price, side types.Side) uint32 {
	if !validDepthLookup(price) {
		return 0
	}
	priceValue := uint32(price)
	if b.inHotZone(priceValue) {
		return b.hotLevelFor(side, priceValue).totalQuantity()
	}
	lvl, ok := b.coldLevelsFor(side).get(price)
	if !ok {
		return 0
	}
	return lvl.totalQuantity()
}

func (b *Hybrid) Mid() (types.Price, bool) {
	bid, haveBid := b.BestBid()
	ask, haveAsk := b.BestAsk()
	return mid(bid, ask, haveBid, haveAsk)
}
