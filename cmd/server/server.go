package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fenrir/internal/book"
	"fenrir/internal/server"
)

func newBook(repr string, hybridCenter uint) (book.Book, error) {
	switch repr {
	case "dense":
		return book.NewDense(), nil
	case "soa":
		return book.NewSoA(), nil
	case "tree":
		return book.NewTree(), nil
	case "hybrid":
		return book.NewHybridCenteredAt(uint32(hybridCenter)), nil
	default:
		return nil, fmt.Errorf("unknown representation %q (want dense, soa, tree, hybrid)", repr)
	}
}

func main() {
	address := flag.String("address", "0.0.0.0", "address to listen on")
	port := flag.Int("port", 9001, "port to listen on")
	repr := flag.String("repr", "dense", "book representation: dense, soa, tree, hybrid")
	hybridCenter := flag.Uint("hybrid-center", 5000, "hot-zone center tick for the hybrid representation")
	verbose := flag.Bool("verbose", false, "enable debug-level logging")
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	bk, err := newBook(*repr, *hybridCenter)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to construct book")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	srv := server.New(*address, *port, bk, *repr)

	go srv.Run(ctx)
	<-ctx.Done()
	os.Exit(0)
}
