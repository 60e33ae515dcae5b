package server

import (
	"net"

	"github.com/google/uuid"

	"bombernet/internal/wire"
)

// subscriber is one open reliable-stream connection: a player or a
// spectator. It is keyed by an opaque uuid handle rather than by net.Conn
// identity, the "weak handle in a flat list" DESIGN NOTES §9 asks for —
// the handle never appears on the wire.
type subscriber struct {
	id       uuid.UUID
	conn     net.Conn
	remote   string
	playerID *wire.PlayerId // nil until this connection Joins
}

// broadcastLocked writes msg to every open subscriber. Callers must
// already hold s.mu: the lock is held for the entire fan-out so the
// subscriber set can't change mid-iteration, per §5's broadcast ordering
// guarantee. A write failure on one subscriber detaches it and closes its
// connection but never aborts the rest of the fan-out.
func (s *Server) broadcastLocked(msg wire.ServerMessage) {
	data, err := wire.EncodeServerMessage(msg)
	if err != nil {
		s.logger.Printf("[server] dropping broadcast, encode failed: %v", err)
		return
	}
	for id, sub := range s.subs {
		if _, err := sub.conn.Write(data); err != nil {
			s.logger.Printf("[server] write failed for %s (%s): %v, detaching", id, sub.remote, err)
			sub.conn.Close()
			delete(s.subs, id)
		}
	}
}
