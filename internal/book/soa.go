package book

import (
	"fenrir/internal/bookerr"
	"fenrir/internal/types"
)

// soaLevel holds the resting orders at one (side, price) as four parallel
// sequences instead of one sequence of structs (spec §4.3). Operations
// that touch a single field — total quantity, locate-by-id — read only
// that field's sequence; matching, which needs every field, pays for four
// sequence accesses instead of one.
type soaLevel struct {
	ids        []types.OrderId
	sides      []types.Side
	prices     []types.Price
	quantities []types.Quantity
}

func (l *soaLevel) empty() bool { return len(l.ids) == 0 }

func (l *soaLevel) totalQuantity() uint32 {
	var sum uint32
	for _, q := range l.quantities {
		sum += uint32(q)
	}
	return sum
}

func (l *soaLevel) add(o types.Order) {
	l.ids = append(l.ids, o.ID())
	l.sides = append(l.sides, o.Side())
	l.prices = append(l.prices, o.Price())
	l.quantities = append(l.quantities, o.Quantity())
}

// cancelAt searches only the id sequence — the cache-friendly path this
// representation exists for — before touching the other three.
func (l *soaLevel) cancelAt(id types.OrderId) bool {
	for i, oid := range l.ids {
		if oid == id {
			l.ids = append(l.ids[:i], l.ids[i+1:]...)
			l.sides = append(l.sides[:i], l.sides[i+1:]...)
			l.prices = append(l.prices[:i], l.prices[i+1:]...)
			l.quantities = append(l.quantities[:i], l.quantities[i+1:]...)
			return true
		}
	}
	return false
}

func (l *soaLevel) trim(consumed int) {
	l.ids = l.ids[consumed:]
	l.sides = l.sides[consumed:]
	l.prices = l.prices[consumed:]
	l.quantities = l.quantities[consumed:]
}

// matchSoALevel is matchAoSLevel's SoA counterpart: same FIFO consumption
// and same fatal-on-partial-resting-fill rule, paid for with separate id
// and quantity sequence reads per order instead of one struct read, plus
// a trim of all four sequences.
func matchSoALevel(l *soaLevel, remaining uint32, price types.Price, index map[types.OrderId]locator, fills *[]Fill) (uint32, error) {
	consumed := 0
	for i := 0; i < len(l.ids); i++ {
		if remaining == 0 {
			break
		}
		id := l.ids[i]
		oq := uint32(l.quantities[i])
		if oq > remaining {
			l.trim(consumed)
			return remaining, bookerr.UnsupportedPartialRestingFill(uint64(id))
		}
		*fills = append(*fills, Fill{Price: price, Quantity: types.Quantity(oq), MakerOrderID: id})
		delete(index, id)
		remaining -= oq
		consumed++
	}
	l.trim(consumed)
	return remaining, nil
}

// SoA is the structure-of-arrays representation: topologically identical
// to Dense (same two fixed-length arrays indexed by tick) but with each
// level stored as parallel field sequences.
type SoA struct {
	bids       [types.MaxPrice]soaLevel
	asks       [types.MaxPrice]soaLevel
	orderIndex map[types.OrderId]locator
}

// NewSoA returns an empty SoA book.
func NewSoA() *SoA {
	return &SoA{orderIndex: make(map[types.OrderId]locator)}
}

func (b *SoA) levelFor(side types.Side, price types.Price) *soaLevel {
	if side == types.Bid {
		return &b.bids[price]
	}
	return &b.asks[price]
}

func (b *SoA) Add(order types.Order) error {
	if err := validate(order.Price(), order.Quantity()); err != nil {
		return err
	}
	b.levelFor(order.Side(), order.Price()).add(order)
	b.orderIndex[order.ID()] = locator{side: order.Side(), price: order.Price()}
	return nil
}

func (b *SoA) Cancel(id types.OrderId) error {
	loc, ok := b.orderIndex[id]
	if !ok {
		return bookerr.UnknownOrder(uint64(id))
	}
	if !b.levelFor(loc.side, loc.price).cancelAt(id) {
		return bookerr.DataInconsistency(uint64(id))
	}
	delete(b.orderIndex, id)
	return nil
}

func (b *SoA) ExecuteMarket(side types.Side, qty types.Quantity) ([]Fill, error) {
	remaining := uint32(qty)
	var fills []Fill

	if side == types.Bid {
		for p := uint32(1); p < types.MaxPrice && remaining > 0; p++ {
			lvl := &b.asks[p]
			if lvl.empty() {
				continue
			}
			var err error
			remaining, err = matchSoALevel(lvl, remaining, types.Price(p), b.orderIndex, &fills)
			if err != nil {
				return fills, err
			}
		}
	} else {
		for p := int(types.MaxPrice) - 1; p >= 1 && remaining > 0; p-- {
			lvl := &b.bids[p]
			if lvl.empty() {
				continue
			}
			var err error
			remaining, err = matchSoALevel(lvl, remaining, types.Price(p), b.orderIndex, &fills)
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

func (b *SoA) BestBid() (types.Price, bool) {
	for p := int(types.MaxPrice) - 1; p >= 1; p-- {
		if !b.bids[p].empty() {
			return types.Price(p), true
		}
	}
	return 0, false
}

func (b *SoA) BestAsk() (types.Price, bool) {
	for p := uint32(1); p < types.MaxPrice; p++ {
		if !b.asks[p].empty() {
			return types.Price(p), true
		}
	}
	return 0, false
}

func (b *SoA) DepthAt(price types.Price, side types.Side) uint32 {
	if !validDepthLookup(price) {
		return 0
	}
	return b.levelFor(side, price).totalQuantity()
}

func (b *SoA) Mid() (types.Price, bool) {
	bid, haveBid := b.BestBid()
	ask, haveAsk := b.BestAsk()
	return mid(bid, ask, haveBid, haveAsk)
}
