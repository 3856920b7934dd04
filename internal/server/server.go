// Package server runs a small TCP command server over a book.Book: it
// exists to drive the matching core end-to-end and to give the latency
// tracker and demo client something real to talk to, not as a
// multi-instrument exchange front end.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/book"
	"fenrir/internal/perf"
	"fenrir/internal/types"
	"fenrir/internal/wire"
	"fenrir/internal/workerpool"
)

const (
	maxRecvSize     = 4 * 1024
	defaultNWorkers = 10
	defaultConnTTL  = time.Second
	trackerCapacity = 100_000
)

var (
	ErrImproperConversion = errors.New("improper type conversion")
	ErrClientDoesNotExist = errors.New("client does not exist")
)

// clientMessage links a decoded wire message to the connection it arrived
// on.
type clientMessage struct {
	address string
	message wire.Message
}

// Server accepts TCP connections, parses wire.Message frames off them, and
// applies each to a single book.Book — the book is not safe for concurrent
// use, so every command is funneled through sessionHandler's single
// goroutine regardless of how many connections produced it.
type Server struct {
	address string
	port    int

	bk             book.Book
	representation string
	counter        *types.IdCounter
	tracker        *perf.Tracker

	pool               workerpool.Pool
	cancel             context.CancelFunc
	clientSessions     map[string]net.Conn
	clientSessionsLock sync.Mutex
	clientMessages     chan clientMessage
}

// New returns a server that will drive bk once Run is called. bk should be
// freshly constructed; the server takes exclusive ownership of it.
// representation is a label only (e.g. "dense", "tree") used to tag the
// latency report emitted on shutdown.
func New(address string, port int, bk book.Book, representation string) *Server {
	return &Server{
		address:        address,
		port:           port,
		bk:             bk,
		representation: representation,
		counter:        types.NewIdCounter(),
		tracker:        perf.NewTracker(trackerCapacity),
		pool:           workerpool.New(defaultNWorkers),
		clientSessions: make(map[string]net.Conn),
		clientMessages: make(chan clientMessage, 1),
	}
}

// Shutdown cancels the server's run context and logs a final latency
// report for the commands this run processed.
func (s *Server) Shutdown() {
	log.Info().Msg("server shutting down")
	if report, ok := perf.NewReport(s.representation, s.tracker); ok {
		log.Info().
			Str("runID", report.RunID).
			Str("representation", report.Representation).
			Bool("invariantTSC", report.InvariantTSC).
			Uint64("min", report.Min).
			Uint64("max", report.Max).
			Float64("mean", report.Mean).
			Uint64("p50", report.P50).
			Uint64("p99", report.P99).
			Msg("latency report")
	}
	if s.cancel != nil {
		s.cancel()
	}
}

// Run accepts connections and processes commands until ctx is canceled.
func (s *Server) Run(ctx context.Context) {
	defer s.Shutdown()

	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		log.Error().Err(err).Msg("unable to start listener")
		return
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close listener")
		}
	}()

	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})

	t.Go(func() error {
		return s.sessionHandler(t)
	})

	log.Info().Str("address", s.address).Int("port", s.port).Msg("server running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := listener.Accept()
			if err != nil {
				log.Error().Err(err).Msg("error accepting client")
				continue
			}
			log.Info().Str("address", conn.RemoteAddr().String()).Msg("client connected")
			s.addClientSession(conn)
			s.pool.AddTask(conn)
		}
	}
}

// sessionHandler applies each decoded command to the book and reports the
// outcome back to the originating connection.
func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case msg := <-s.clientMessages:
			if err := s.handleMessage(msg); err != nil {
				log.Error().Err(err).Str("address", msg.address).Msg("error handling message")
				s.reportError(msg.address, err)
			}
		}
	}
}

func (s *Server) handleMessage(msg clientMessage) error {
	switch m := msg.message.(type) {
	case wire.NewOrderMessage:
		order := types.NewOrder(s.counter, m.Side, m.Price, m.Quantity)
		err := perf.Record(s.tracker, func() error { return s.bk.Add(order) })
		if err != nil {
			s.reportError(msg.address, err)
			return err
		}
	case wire.CancelOrderMessage:
		err := perf.Record(s.tracker, func() error { return s.bk.Cancel(m.OrderID) })
		if err != nil {
			s.reportError(msg.address, err)
			return err
		}
	case wire.MarketOrderMessage:
		fills, err := perf.RecordErr(s.tracker, func() ([]book.Fill, error) {
			return s.bk.ExecuteMarket(m.Side, m.Quantity)
		})
		for _, fill := range fills {
			s.reportFill(msg.address, fill)
		}
		if err != nil {
			// Fills already produced are reported above; the error is
			// surfaced separately rather than rolled back.
			s.reportError(msg.address, err)
			return err
		}
	case wire.HeartbeatMessage:
		// No-op: keeps the connection's read deadline from expiring.
	default:
		return wire.ErrInvalidMessageType
	}
	return nil
}

// handleConnection reads one frame off conn, parses it, and forwards it to
// sessionHandler; it then resubmits conn to the pool for the next frame.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return ErrImproperConversion
	}

	if err := conn.SetReadDeadline(time.Now().Add(defaultConnTTL)); err != nil {
		log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("failed setting read deadline")
		s.closeConnection(conn)
		return nil
	}

	buffer := make([]byte, maxRecvSize)
	select {
	case <-t.Dying():
		return nil
	default:
		n, err := conn.Read(buffer)
		if err != nil {
			s.closeConnection(conn)
			return nil
		}

		message, err := wire.ParseMessage(buffer[:n])
		if err != nil {
			log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("error parsing message")
			s.closeConnection(conn)
			return nil
		}

		s.clientMessages <- clientMessage{address: conn.RemoteAddr().String(), message: message}
		s.pool.AddTask(conn)
	}
	return nil
}

func (s *Server) reportFill(address string, fill book.Fill) {
	s.clientSessionsLock.Lock()
	conn, ok := s.clientSessions[address]
	s.clientSessionsLock.Unlock()
	if !ok {
		return
	}
	if _, err := conn.Write(wire.SerializeFillReport(fill)); err != nil {
		log.Error().Err(err).Str("address", address).Msg("unable to send fill report")
	}
}

func (s *Server) reportError(address string, err error) {
	s.clientSessionsLock.Lock()
	conn, ok := s.clientSessions[address]
	s.clientSessionsLock.Unlock()
	if !ok {
		return
	}
	if _, werr := conn.Write(wire.SerializeErrorReport(err)); werr != nil {
		log.Error().Err(werr).Str("address", address).Msg("unable to send error report")
	}
}

func (s *Server) addClientSession(conn net.Conn) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	s.clientSessions[conn.RemoteAddr().String()] = conn
}

func (s *Server) closeConnection(conn net.Conn) {
	s.clientSessionsLock.Lock()
	delete(s.clientSessions, conn.RemoteAddr().String())
	s.clientSessionsLock.Unlock()
	if err := conn.Close(); err != nil {
		log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("error closing connection")
	}
}
