// Package server implements the authoritative game server (§4.3): lobby
// admission, the tick loop, bomb-explosion geometry, and fan-out of turn
// broadcasts to every connected peer.
package server

import (
	"log"
	"net"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"bombernet/internal/netutil"
	"bombernet/internal/wire"
)

// Server holds everything the tick loop and connection handlers share. A
// single mutex protects both the authoritative gameState and the
// subscriber set, matching §5: "all mutations to ServerState are
// serialized under a single exclusive lock."
type Server struct {
	cfg    Config
	logger *log.Logger

	mu    sync.Mutex
	state *gameState
	subs  map[uuid.UUID]*subscriber
	rng   *rng

	startSignal chan struct{}
}

// New builds a Server in the Lobby phase, ready to Run. logger defaults to
// log.Default() when nil.
func New(cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:         cfg,
		logger:      logger,
		state:       newGameState(cfg.GameParams()),
		subs:        make(map[uuid.UUID]*subscriber),
		rng:         newRNG(cfg.Seed),
		startSignal: make(chan struct{}, 1),
	}
}

// Run listens on cfg.Port (dual-stack), runs the tick loop in the
// background, and accepts connections until the listener errors or
// closes. It blocks until Accept returns a permanent error.
func (s *Server) Run() error {
	listener, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(s.cfg.Port)))
	if err != nil {
		return err
	}
	defer listener.Close()
	s.logger.Printf("[server] listening on %s", listener.Addr())

	go s.runTickLoop()

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.logger.Printf("[server] accept error: %v", err)
			return err
		}
		go s.handleConn(conn)
	}
}

// handleConn runs the full lifecycle of one reliable-stream peer per
// §4.3 "Connection lifecycle": disable Nagle, send Hello, replay current
// state, then read client messages until EOF or a framing error.
func (s *Server) handleConn(conn net.Conn) {
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.SetNoDelay(true)
	}

	remote, err := netutil.PeerAddress(conn.RemoteAddr())
	if err != nil {
		remote = conn.RemoteAddr().String()
	}
	sub := &subscriber{id: uuid.New(), conn: conn, remote: remote}
	s.logger.Printf("[server] accepted connection from %s", remote)

	if err := s.registerAndReplay(sub); err != nil {
		s.logger.Printf("[server] replay failed for %s: %v", remote, err)
		conn.Close()
		return
	}

	defer s.detach(sub)

	framer := wire.NewClientMessageFramer()
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			msgs, ferr := framer.Feed(buf[:n])
			for _, m := range msgs {
				s.handleClientMessage(sub, m)
			}
			if ferr != nil {
				s.logger.Printf("[server] framing error from %s: %v, closing", remote, ferr)
				return
			}
		}
		if err != nil {
			s.logger.Printf("[server] connection from %s closed: %v", remote, err)
			return
		}
	}
}

// registerAndReplay adds sub to the subscriber set, sends Hello, and
// replays whatever the peer missed: every AcceptedPlayer so far in Lobby,
// or GameStarted followed by every Turn so far in InGame. Because the
// replay is just every server message issued in order, a late spectator's
// projection after replay is identical to one that was connected from the
// start (§4.4 "Late-join / replay").
func (s *Server) registerAndReplay(sub *subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs[sub.id] = sub

	if err := writeMessage(sub.conn, wire.NewHelloMessage(s.state.params)); err != nil {
		return err
	}

	switch s.state.ph {
	case phaseLobby:
		for _, id := range s.state.acceptedOrder {
			msg := wire.NewAcceptedPlayerMessage(id, s.state.acceptedPlayers[id])
			if err := writeMessage(sub.conn, msg); err != nil {
				return err
			}
		}
	case phaseInGame:
		if s.state.gameStartedMsg != nil {
			if err := writeMessage(sub.conn, *s.state.gameStartedMsg); err != nil {
				return err
			}
		}
		for _, msg := range s.state.turnHistory {
			if err := writeMessage(sub.conn, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMessage(conn net.Conn, msg wire.ServerMessage) error {
	data, err := wire.EncodeServerMessage(msg)
	if err != nil {
		return err
	}
	_, err = conn.Write(data)
	return err
}

// detach removes sub from the subscriber set and closes its connection.
// Safe to call even if the connection already failed a broadcast write
// and was removed by broadcastLocked.
func (s *Server) detach(sub *subscriber) {
	s.mu.Lock()
	delete(s.subs, sub.id)
	s.mu.Unlock()
	sub.conn.Close()
}

// handleClientMessage dispatches one decoded ClientMessage per §4.3's
// join-admission and action-recording rules.
func (s *Server) handleClientMessage(sub *subscriber, m wire.ClientMessage) {
	switch m.Type {
	case wire.ClientJoin:
		s.handleJoin(sub, m.JoinName)
	case wire.ClientPlaceBomb:
		s.recordAction(sub, playerAction{kind: actionPlaceBomb})
	case wire.ClientPlaceBlock:
		s.recordAction(sub, playerAction{kind: actionPlaceBlock})
	case wire.ClientMove:
		s.recordAction(sub, playerAction{kind: actionMove, dir: m.Direction})
	}
}

// handleJoin admits sub as a player, per §4.3: only valid in Lobby,
// ignored if this connection already Joined, broadcasts AcceptedPlayer to
// everyone including the joiner, and signals the tick loop once the
// lobby is full.
func (s *Server) handleJoin(sub *subscriber, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ph != phaseLobby {
		return
	}
	if sub.playerID != nil {
		return
	}
	if len(s.state.acceptedPlayers) >= int(s.cfg.PlayersCount) {
		// Lobby is already full and waiting for the tick loop to pick up
		// startSignal and flip the phase; treat this exactly like a
		// Join-during-InGame and ignore it rather than overrun P6.
		return
	}

	id := s.state.nextPlayerID
	s.state.nextPlayerID++

	player := wire.Player{Name: name, Address: sub.remote}
	s.state.acceptedPlayers[id] = player
	s.state.acceptedOrder = append(s.state.acceptedOrder, id)
	sub.playerID = &id

	s.logger.Printf("[server] player %d joined as %q from %s", id, name, sub.remote)
	s.broadcastLocked(wire.NewAcceptedPlayerMessage(id, player))

	if len(s.state.acceptedPlayers) == int(s.cfg.PlayersCount) {
		select {
		case s.startSignal <- struct{}{}:
		default:
		}
	}
}

// recordAction records sub's latest action for the current tick.
// Actions are only meaningful from a joined player during InGame;
// anything else (spectator, lobby) is silently ignored per §7's
// permissive-ignore rows.
func (s *Server) recordAction(sub *subscriber, a playerAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.playerID == nil || s.state.ph != phaseInGame {
		return
	}
	s.state.pendingActions[*sub.playerID] = a
}
