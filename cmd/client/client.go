package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"fenrir/internal/types"
	"fenrir/internal/wire"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "address of the book server")
	action := flag.String("action", "place", "action to perform: ['place', 'cancel', 'market']")

	sideStr := flag.String("side", "buy", "order side: 'buy' or 'sell'")
	price := flag.Uint("price", 100, "limit price (ticks)")
	qtyStr := flag.String("qty", "10", "quantity or comma-separated list (e.g. 10,20,50)")

	orderID := flag.Uint64("order-id", 0, "order id to cancel")

	flag.Parse()

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("connected to %s\n", *serverAddr)

	go readReports(conn)

	side := types.Bid
	if strings.ToLower(*sideStr) == "sell" {
		side = types.Ask
	}

	switch strings.ToLower(*action) {
	case "place":
		for _, qty := range parseQuantities(*qtyStr) {
			msg := wire.NewOrderMessage{Side: side, Price: types.Price(*price), Quantity: types.Quantity(qty)}
			if _, err := conn.Write(wire.SerializeNewOrder(msg)); err != nil {
				log.Printf("failed to send order (qty %d): %v", qty, err)
				continue
			}
			fmt.Printf("-> placed %s %d @ %d\n", strings.ToUpper(*sideStr), qty, *price)
			time.Sleep(5 * time.Millisecond)
		}

	case "cancel":
		orderIDSet := false
		flag.Visit(func(f *flag.Flag) {
			if f.Name == "order-id" {
				orderIDSet = true
			}
		})
		if !orderIDSet {
			log.Fatal("-order-id is required for cancel")
		}
		msg := wire.CancelOrderMessage{OrderID: types.OrderId(*orderID)}
		if _, err := conn.Write(wire.SerializeCancelOrder(msg)); err != nil {
			log.Fatalf("failed to send cancel: %v", err)
		}
		fmt.Printf("-> canceled order %d\n", *orderID)

	case "market":
		for _, qty := range parseQuantities(*qtyStr) {
			msg := wire.MarketOrderMessage{Side: side, Quantity: types.Quantity(qty)}
			if _, err := conn.Write(wire.SerializeMarketOrder(msg)); err != nil {
				log.Printf("failed to send market order (qty %d): %v", qty, err)
				continue
			}
			fmt.Printf("-> sent market %s order for %d\n", strings.ToUpper(*sideStr), qty)
		}

	default:
		log.Fatalf("unknown action: %s", *action)
	}

	fmt.Println("\nlistening for reports... (ctrl+c to exit)")
	select {}
}

func parseQuantities(input string) []uint32 {
	var result []uint32
	for _, p := range strings.Split(input, ",") {
		p = strings.TrimSpace(p)
		val, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			log.Printf("warning: invalid quantity %q, skipping", p)
			continue
		}
		result = append(result, uint32(val))
	}
	return result
}

// readReports continuously reads and prints report frames from the server.
func readReports(conn net.Conn) {
	buffer := make([]byte, 4*1024)
	for {
		n, err := conn.Read(buffer)
		if err != nil {
			log.Printf("connection closed: %v", err)
			os.Exit(0)
		}

		kind, parsed, err := wire.ParseReport(buffer[:n])
		if err != nil {
			log.Printf("error parsing report: %v", err)
			continue
		}

		switch kind {
		case wire.FillReport:
			fill := parsed.(wire.ParsedFillReport)
			fmt.Printf("\n[FILL] maker=%d price=%d qty=%d\n", fill.MakerOrderID, fill.Price, fill.Quantity)
		case wire.ErrorReport:
			fmt.Printf("\n[ERROR] %s\n", parsed.(string))
		}
	}
}
