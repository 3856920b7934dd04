package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/types"
)

// op is one step of a scripted sequence replayed identically against every
// representation.
type op struct {
	name     string
	side     types.Side
	price    types.Price // ignored for market ops
	quantity uint32
	isMarket bool
	isCancel bool
	cancelOf int // index into the ids slice returned by a prior add, only for isCancel
}

// trajectory captures the best prices, mid, fills and error messages
// observed when replaying a script against one representation, for
// cross-representation comparison. Per-level depth is not captured.
type trajectory struct {
	bestBid  types.Price
	haveBid  bool
	bestAsk  types.Price
	haveAsk  bool
	mid      types.Price
	haveMid  bool
	fillLog  []Fill
	errKinds []string
}

func replay(t *testing.T, b Book, counter *types.IdCounter, script []op) trajectory {
	t.Helper()
	var traj trajectory
	ids := make([]types.OrderId, 0, len(script))

	for _, step := range script {
		switch {
		case step.isCancel:
			err := b.Cancel(ids[step.cancelOf])
			if err != nil {
				traj.errKinds = append(traj.errKinds, err.Error())
			}
		case step.isMarket:
			fills, err := b.ExecuteMarket(step.side, types.Quantity(step.quantity))
			traj.fillLog = append(traj.fillLog, fills...)
			if err != nil {
				traj.errKinds = append(traj.errKinds, err.Error())
			}
		default:
			order := types.NewOrder(counter, step.side, step.price, types.Quantity(step.quantity))
			err := b.Add(order)
			if err != nil {
				traj.errKinds = append(traj.errKinds, err.Error())
			}
			ids = append(ids, order.ID())
		}
	}

	traj.bestBid, traj.haveBid = b.BestBid()
	traj.bestAsk, traj.haveAsk = b.BestAsk()
	traj.mid, traj.haveMid = b.Mid()
	return traj
}

// equivalenceScript exercises admission, FIFO matching, a multi-level
// sweep, a cancel and a deliberate insufficient-liquidity market order —
// every representation must trace the identical outcome.
func equivalenceScript() []op {
	return []op{
		{name: "bid@99x100", side: types.Bid, price: 99, quantity: 100},
		{name: "bid@99x50", side: types.Bid, price: 99, quantity: 50},
		{name: "bid@98x20", side: types.Bid, price: 98, quantity: 20},
		{name: "ask@101x30", side: types.Ask, price: 101, quantity: 30},
		{name: "ask@102x40", side: types.Ask, price: 102, quantity: 40},
		{name: "cancel second bid@99", isCancel: true, cancelOf: 1},
		{name: "market buy 50", side: types.Bid, quantity: 50, isMarket: true},
		{name: "market sell 1000 (insufficient)", side: types.Ask, quantity: 1000, isMarket: true},
	}
}

func TestEquivalence_AllRepresentationsAgree(t *testing.T) {
	reference := representations()

	var baseline trajectory
	var baselineName string
	first := true

	for name, ctor := range reference {
		b := ctor()
		counter := types.NewIdCounter()
		traj := replay(t, b, counter, equivalenceScript())

		if first {
			baseline = traj
			baselineName = name
			first = false
			continue
		}

		require.Equal(t, baseline.haveBid, traj.haveBid, "%s vs %s: haveBid", baselineName, name)
		if baseline.haveBid {
			assert.Equal(t, baseline.bestBid, traj.bestBid, "%s vs %s: bestBid", baselineName, name)
		}
		require.Equal(t, baseline.haveAsk, traj.haveAsk, "%s vs %s: haveAsk", baselineName, name)
		if baseline.haveAsk {
			assert.Equal(t, baseline.bestAsk, traj.bestAsk, "%s vs %s: bestAsk", baselineName, name)
		}
		assert.Equal(t, baseline.haveMid, traj.haveMid, "%s vs %s: haveMid", baselineName, name)
		if baseline.haveMid {
			assert.Equal(t, baseline.mid, traj.mid, "%s vs %s: mid", baselineName, name)
		}
		assert.Equal(t, baseline.fillLog, traj.fillLog, "%s vs %s: fill sequence", baselineName, name)
		assert.Equal(t, baseline.errKinds, traj.errKinds, "%s vs %s: error sequence", baselineName, name)
	}
}
