package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/minaorangina/davinci/config"
	"github.com/minaorangina/davinci/engine"
	"github.com/minaorangina/davinci/game"
	"github.com/minaorangina/davinci/protocol"
	"github.com/minaorangina/davinci/store"
	"github.com/minaorangina/davinci/transport"
	"github.com/sirupsen/logrus"
)

var ErrBadHandshake = errors.New("bad handshake")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  protocol.ReadBufferSize,
	WriteBufferSize: protocol.ReadBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type participant struct {
	name string
	conn transport.Conn
}

// GameServer seats participants at tables as they arrive and runs
// every table on its own goroutine
type GameServer struct {
	cfg   config.Server
	codec protocol.Codec
	store store.GameStore
	log   *logrus.Entry

	ctx     context.Context
	mu      sync.Mutex
	waiting []participant
	tables  sync.WaitGroup
}

// NewServer creates a new GameServer
func NewServer(cfg config.Server, st store.GameStore, log *logrus.Logger) (*GameServer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := protocol.NewCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}

	return &GameServer{
		cfg:     cfg,
		codec:   codec,
		store:   st,
		log:     logrus.NewEntry(log),
		ctx:     context.Background(),
		waiting: []participant{},
	}, nil
}

// ListenAndServe accepts participants over TCP and, when configured, over
// websockets until ctx is cancelled
func (s *GameServer) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Addr, strconv.Itoa(s.cfg.Port)))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	s.ctx = ctx

	g.Go(func() error {
		return s.Serve(ctx, ln)
	})

	if s.cfg.HTTPAddr != "" {
		accessLog := s.log.WriterLevel(logrus.InfoLevel)
		defer accessLog.Close()

		srv := &http.Server{Addr: s.cfg.HTTPAddr, Handler: s.Handler(accessLog)}

		g.Go(func() error {
			s.log.WithField("addr", s.cfg.HTTPAddr).Info("listening for websocket players")
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// Serve accepts TCP participants on ln. It returns once ctx is cancelled
// and every running table has stopped.
func (s *GameServer) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()

	s.log.WithField("addr", ln.Addr().String()).Info("listening for players")

	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.dropWaiting()
				s.tables.Wait()
				return nil
			}
			return fmt.Errorf("accepting: %w", err)
		}

		conn := transport.NewTCPConn(c, s.codec, transport.WithReadTimeout(s.cfg.ReadTimeout))
		go s.welcome(ctx, conn)
	}
}

// Handler serves websocket participants on /ws and the table index on /games
func (s *GameServer) Handler(accessLog io.Writer) http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("/ws", s.HandleWS)
	router.HandleFunc("/games", s.HandleGames)

	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(s.log), handlers.PrintRecoveryStack(true))

	return recovery(handlers.LoggingHandler(accessLog, router))
}

func (s *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("could not upgrade to websocket")
		return
	}

	go s.welcome(s.ctx, transport.NewWSConn(ws, s.codec))
}

func (s *GameServer) HandleGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	bytes, err := json.Marshal(s.store.Games())
	if err != nil {
		s.log.WithError(err).Error("encoding games")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.Write(bytes)
}

func (s *GameServer) welcome(ctx context.Context, conn transport.Conn) {
	log := s.log.WithField("remote", conn.RemoteAddr())

	name, err := Handshake(conn, s.cfg.HandshakeTimeout)
	if err != nil {
		log.WithError(err).Info("dropping connection")
		conn.Close()
		return
	}

	log.WithField("player", name).Info("player joined")
	s.join(ctx, participant{name: name, conn: conn})
}

// Handshake expects the init token, acknowledges it and reads the display name.
// A zero timeout waits forever.
func Handshake(conn transport.Conn, timeout time.Duration) (string, error) {
	if timeout > 0 {
		timer := time.AfterFunc(timeout, func() {
			conn.Close()
		})
		defer timer.Stop()
	}

	first, err := conn.Receive()
	if err != nil {
		return "", err
	}
	if first != protocol.InitToken {
		return "", fmt.Errorf("%w: expected %q, got %q", ErrBadHandshake, protocol.InitToken, first)
	}

	if err := conn.Send(protocol.NewAck()); err != nil {
		return "", err
	}

	name, err := conn.Receive()
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrBadHandshake)
	}

	return name, nil
}

// join puts a participant on the waiting list and starts a table once enough are waiting
func (s *GameServer) join(ctx context.Context, p participant) {
	s.mu.Lock()
	s.waiting = append(s.waiting, p)

	var seated []participant
	if len(s.waiting) >= s.cfg.Players {
		seated = s.waiting[:s.cfg.Players:s.cfg.Players]
		s.waiting = append([]participant{}, s.waiting[s.cfg.Players:]...)
	}
	missing := s.cfg.Players - len(s.waiting)
	s.mu.Unlock()

	if seated == nil {
		p.conn.Send(protocol.NewPlainText("Waiting for %d more player(s).", missing))
		return
	}

	s.tables.Add(1)
	go func() {
		defer s.tables.Done()
		s.runTable(ctx, seated)
	}()
}

func (s *GameServer) dropWaiting() {
	s.mu.Lock()
	waiting := s.waiting
	s.waiting = []participant{}
	s.mu.Unlock()

	for _, p := range waiting {
		p.conn.Close()
	}
}

func (s *GameServer) runTable(ctx context.Context, seated []participant) {
	id := engine.NewID()
	log := s.log.WithField("game", id)

	names := make([]string, 0, len(seated))
	for _, p := range seated {
		names = append(names, p.name)
	}
	if err := s.store.AddGame(id, names); err != nil {
		log.WithError(err).Error("could not record game")
	}

	seats := engine.NewRegistry()
	g := game.New(s.cfg.SetSize)

	if err := s.seat(seats, g, seated); err != nil {
		log.WithError(err).Warn("table aborted")
		s.abort(seated, err)
		s.store.AbortGame(id, err.Error())
		return
	}

	opening := names[rand.IntN(len(names))]

	e := engine.New(engine.EngineOpts{
		ID:           id,
		Game:         g,
		Seats:        seats,
		Logger:       s.log,
		CardMaxValue: s.cfg.CardMaxValue,
	})

	result, err := e.Run(ctx, opening)
	seats.CloseAll()

	if err != nil {
		log.WithError(err).Warn("game stopped")
		s.store.AbortGame(id, err.Error())
		return
	}

	log.WithFields(logrus.Fields{"winner": result.Winner, "turns": result.Turns}).Info("game over")
	s.store.FinishGame(id, result.Winner)
}

func (s *GameServer) seat(seats *engine.Registry, g *game.Game, seated []participant) error {
	for _, p := range seated {
		if _, err := seats.Add(p.name, p.conn); err != nil {
			return err
		}
	}
	return engine.Deal(g, seats, s.cfg.HandSize)
}

// abort tells every participant why the table did not start and disconnects them
func (s *GameServer) abort(seated []participant, reason error) {
	msg := protocol.NewError(protocol.MsgTableAborted)
	if errors.Is(reason, game.ErrDuplicateName) {
		msg = protocol.NewError(protocol.MsgDuplicateName)
	}

	for _, p := range seated {
		p.conn.Send(msg)
		p.conn.Close()
	}
}
