package client

import "bombernet/internal/wire"

// handleInput translates one decoded UI Input datagram into a server
// action, per §4.4 "UI→server translation":
//   - before Hello: drop everything
//   - after Hello, before the game starts: the first input Joins with the
//     configured player name; every input after that (until GameStarted)
//     is dropped
//   - during a game: every input becomes the matching ClientMessage
func (c *Client) handleInput(in wire.InputMessage) {
	c.mu.Lock()
	helloReceived := c.state.helloReceived
	gameStarted := c.state.gameStarted
	alreadyJoined := c.joined
	if helloReceived && !gameStarted && !alreadyJoined {
		c.joined = true
	}
	c.mu.Unlock()

	if !helloReceived {
		return
	}

	var out wire.ClientMessage
	switch {
	case !gameStarted && !alreadyJoined:
		out = wire.NewJoinMessage(c.cfg.PlayerName)
	case !gameStarted:
		return // already joined, waiting for GameStarted: drop
	default:
		switch in.Type {
		case wire.InputPlaceBomb:
			out = wire.NewPlaceBombMessage()
		case wire.InputPlaceBlock:
			out = wire.NewPlaceBlockMessage()
		case wire.InputMove:
			out = wire.NewMoveMessage(in.Direction)
		default:
			return
		}
	}

	data, err := wire.EncodeClientMessage(out)
	if err != nil {
		c.logger.Printf("[client] dropping outgoing message, encode failed: %v", err)
		return
	}
	if _, err := c.serverConn.Write(data); err != nil {
		c.logger.Printf("[client] write to server failed: %v", err)
	}
}
