package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fenrir/internal/book"
	"fenrir/internal/types"
	"fenrir/internal/wire"
)

const testPort = 19091

func startTestServer(t *testing.T) net.Conn {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	srv := New("127.0.0.1", testPort, book.NewDense(), "dense")
	go srv.Run(ctx)
	t.Cleanup(cancel)

	var conn net.Conn
	require.Eventually(t, func() bool {
		c, err := net.Dial("tcp", "127.0.0.1:19091")
		if err != nil {
			return false
		}
		conn = c
		return true
	}, 2*time.Second, 10*time.Millisecond)
	return conn
}

func TestServer_PlaceThenMarketFillsRoundTrip(t *testing.T) {
	conn := startTestServer(t)
	defer conn.Close()

	_, err := conn.Write(wire.SerializeNewOrder(wire.NewOrderMessage{
		Side: types.Ask, Price: 101, Quantity: 10,
	}))
	require.NoError(t, err)

	_, err = conn.Write(wire.SerializeMarketOrder(wire.MarketOrderMessage{
		Side: types.Bid, Quantity: 10,
	}))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	require.NoError(t, err)

	kind, parsed, err := wire.ParseReport(buf[:n])
	require.NoError(t, err)
	require.Equal(t, wire.FillReport, kind)
	fill := parsed.(wire.ParsedFillReport)
	require.Equal(t, types.Price(101), fill.Price)
	require.Equal(t, types.Quantity(10), fill.Quantity)
}
