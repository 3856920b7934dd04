package book

import (
	"fenrir/internal/bookerr"
	"fenrir/internal/types"
)

// aosLevel holds the resting orders at one (side, price) as an
// insertion-ordered array-of-structs sequence. Used by Dense, Tree and
// Hybrid — only SoA departs from this layout.
type aosLevel struct {
	orders []types.Order
}

func (l *aosLevel) empty() bool { return len(l.orders) == 0 }

func (l *aosLevel) totalQuantity() uint32 {
	var sum uint32
	for _, o := range l.orders {
		sum += uint32(o.Quantity())
	}
	return sum
}

// cancelAt removes the order with the given id from the level, preserving
// arrival order of the remainder. Returns false if the id is not present.
func (l *aosLevel) cancelAt(id types.OrderId) bool {
	for i, o := range l.orders {
		if o.ID() == id {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return true
		}
	}
	return false
}

// matchAoSLevel consumes resting orders at the head of l FIFO until
// remaining is exhausted or the level runs dry. Each matched order is
// removed from both the level and the order-index. If the head order's
// quantity exceeds remaining, the contract forbids partially filling a
// resting order — match stops there and returns a distinguished error
// alongside whatever fills were already produced at this level.
func matchAoSLevel(l *aosLevel, remaining uint32, price types.Price, index map[types.OrderId]locator, fills *[]Fill) (uint32, error) {
	consumed := 0
	for _, o := range l.orders {
		if remaining == 0 {
			break
		}
		oq := uint32(o.Quantity())
		if oq > remaining {
			l.orders = l.orders[consumed:]
			return remaining, bookerr.UnsupportedPartialRestingFill(uint64(o.ID()))
		}
		*fills = append(*fills, Fill{Price: price, Quantity: types.Quantity(oq), MakerOrderID: o.ID()})
		delete(index, o.ID())
		remaining -= oq
		consumed++
	}
	l.orders = l.orders[consumed:]
	return remaining, nil
}
