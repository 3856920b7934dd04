package book

import (
	"github.com/tidwall/btree"

	"fenrir/internal/bookerr"
	"fenrir/internal/types"
)

// treeLevel is a price level stored inside an ordered map, keyed on price
// alone (the comparator below never looks at aosLevel).
type treeLevel struct {
	price types.Price
	aosLevel
}

// orderedLevels wraps a btree.BTreeG[*treeLevel] whose comparator encodes
// the execution direction for one side: bids compare descending (so the
// tree's Min is the highest bid — the order a market sell must consume
// first), asks compare ascending (so the tree's Min is the lowest ask —
// the order a market buy must consume first). A plain Scan therefore walks
// levels in exactly the order execute_market needs, with no direction
// branch at call sites.
type orderedLevels struct {
	tree *btree.BTreeG[*treeLevel]
}

func newOrderedLevels(descending bool) *orderedLevels {
	if descending {
		return &orderedLevels{tree: btree.NewBTreeG(func(a, b *treeLevel) bool {
			return a.price > b.price
		})}
	}
	return &orderedLevels{tree: btree.NewBTreeG(func(a, b *treeLevel) bool {
		return a.price < b.price
	})}
}

func (lv *orderedLevels) levelFor(price types.Price) *treeLevel {
	if existing, ok := lv.tree.Get(&treeLevel{price: price}); ok {
		return existing
	}
	created := &treeLevel{price: price}
	lv.tree.Set(created)
	return created
}

func (lv *orderedLevels) get(price types.Price) (*treeLevel, bool) {
	return lv.tree.Get(&treeLevel{price: price})
}

func (lv *orderedLevels) removeIfEmpty(price types.Price) {
	if lvl, ok := lv.get(price); ok && lvl.empty() {
		lv.tree.Delete(&treeLevel{price: price})
	}
}

func (lv *orderedLevels) best() (types.Price, bool) {
	top, ok := lv.tree.Min()
	if !ok {
		return 0, false
	}
	return top.price, true
}

// Tree is the ordered-map representation (spec §4.4): each side is a
// btree.BTreeG keyed by price, whose value is an insertion-ordered level.
// Empty levels are removed eagerly after cancel or match to keep the map
// sparse. Best-bid/best-ask are O(log n); an order-index keyed by id makes
// cancel O(1) in the index + O(log n) in the map + O(k) in the level.
type Tree struct {
	bids       *orderedLevels
	asks       *orderedLevels
	orderIndex map[types.OrderId]locator
}

// NewTree returns an empty Tree book.
func NewTree() *Tree {
	return &Tree{
		bids:       newOrderedLevels(true),
		asks:       newOrderedLevels(false),
		orderIndex: make(map[types.OrderId]locator),
	}
}

func (b *Tree) sideLevels(side types.Side) *orderedLevels {
	if side == types.Bid {
		return b.bids
	}
	return b.asks
}

func (b *Tree) Add(order types.Order) error {
	if err := validate(order.Price(), order.Quantity()); err != nil {
		return err
	}
	lvl := b.sideLevels(order.Side()).levelFor(order.Price())
	lvl.orders = append(lvl.orders, order)
	b.orderIndex[order.ID()] = locator{side: order.Side(), price: order.Price()}
	return nil
}

func (b *Tree) Cancel(id types.OrderId) error {
	loc, ok := b.orderIndex[id]
	if !ok {
		return bookerr.UnknownOrder(uint64(id))
	}
	levels := b.sideLevels(loc.side)
	lvl, ok := levels.get(loc.price)
	if !ok || !lvl.cancelAt(id) {
		return bookerr.DataInconsistency(uint64(id))
	}
	delete(b.orderIndex, id)
	levels.removeIfEmpty(loc.price)
	return nil
}

func (b *Tree) ExecuteMarket(side types.Side, qty types.Quantity) ([]Fill, error) {
	remaining := uint32(qty)
	var fills []Fill
	var emptied []types.Price
	var matchErr error

	opposite := b.sideLevels(side.Opposite())
	opposite.tree.Scan(func(lvl *treeLevel) bool {
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
		opposite.tree.Delete(&treeLevel{price: p})
	}

	if matchErr != nil {
		return fills, matchErr
	}
	if remaining > 0 {
		return fills, bookerr.PartiallyFilled(remaining)
	}
	return fills, nil
}

func (b *Tree) BestBid() (types.Price, bool) { return b.bids.best() }
func (b *Tree) BestAsk() (types.Price, bool) { return b.asks.best() }

func (b *Tree) DepthAt(price types.Price, side types.Side) uint32 {
	if !validDepthLookup(price) {
		return 0
	}
	lvl, ok := b.sideLevels(side).get(price)
	if !ok {
		return 0
	}
	return lvl.totalQuantity()
}

func (b *Tree) Mid() (types.Price, bool) {
	bid, haveBid := b.BestBid()
	ask, haveAsk := b.BestAsk()
	return mid(bid, ask, haveBid, haveAsk)
}
