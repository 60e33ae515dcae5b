package client

import (
	"bombernet/internal/boardgeom"
	"bombernet/internal/wire"
)

// handleServerMessage applies one ServerMessage to the projection and
// emits the Draw frame it triggers, exactly per §4.4 "Server→UI
// translation". Everything runs under c.mu so a concurrent UI-input
// translation never observes a half-applied message.
func (c *Client) handleServerMessage(m wire.ServerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch m.Type {
	case wire.ServerHello:
		if c.state.helloReceived {
			return // ignore Hello after the first (§7)
		}
		c.state.helloReceived = true
		c.state.params = m.Hello
		c.sendDrawLocked(c.lobbyDrawLocked())

	case wire.ServerAcceptedPlayer:
		if !c.state.helloReceived || c.state.gameStarted {
			return
		}
		c.state.players[m.AcceptedId] = m.AcceptedPlayer
		c.sendDrawLocked(c.lobbyDrawLocked())

	case wire.ServerGameStarted:
		if !c.state.helloReceived {
			return
		}
		c.state.players = m.StartedPlayers
		c.state.positions = make(map[wire.PlayerId]wire.Position, len(m.StartedPlayers))
		c.state.scores = make(map[wire.PlayerId]wire.Score, len(m.StartedPlayers))
		for id := range m.StartedPlayers {
			c.state.positions[id] = wire.Position{}
			c.state.scores[id] = 0
		}
		c.state.gameStarted = true
		// No Draw emitted until the first Turn (§4.4).

	case wire.ServerTurn:
		if !c.state.gameStarted {
			return
		}
		c.applyTurnLocked(m.TurnNumber, m.TurnEvents)

	case wire.ServerGameEnded:
		if !c.state.gameStarted {
			return
		}
		c.state.resetGame()
		c.joined = false
		c.sendDrawLocked(c.lobbyDrawLocked())
	}
}

// applyTurnLocked folds one Turn's events into the projection, per §4.4:
// bomb timers decrement first; destroyed blocks are removed only after
// every event in the turn has been processed, so a later event in the
// same turn that references a position still sees it.
func (c *Client) applyTurnLocked(turn uint16, events []wire.Event) {
	for id, b := range c.state.bombs {
		if b.Timer > 0 {
			b.Timer--
		}
		c.state.bombs[id] = b
	}

	destroyedBlocks := make(map[wire.Position]struct{})
	destroyedPlayers := make(map[wire.PlayerId]struct{})
	var explosions []wire.Position

	for _, ev := range events {
		switch ev.Type {
		case wire.EventBlockPlaced:
			c.state.blocks[ev.BlockPlaced.Position] = struct{}{}

		case wire.EventBombPlaced:
			c.state.bombs[ev.BombPlaced.BombId] = wire.Bomb{
				Position: ev.BombPlaced.Position,
				Timer:    c.state.params.BombTimer,
			}

		case wire.EventPlayerMoved:
			if _, known := c.state.positions[ev.PlayerMoved.PlayerId]; known {
				c.state.positions[ev.PlayerMoved.PlayerId] = ev.PlayerMoved.Position
			}

		case wire.EventBombExploded:
			bomb, known := c.state.bombs[ev.BombExploded.BombId]
			delete(c.state.bombs, ev.BombExploded.BombId)
			if known {
				if _, isBlock := c.state.blocks[bomb.Position]; !isBlock {
					cells, _ := localExplosionCells(bomb.Position, c.state.params, c.state.blocks)
					explosions = append(explosions, cells...)
				}
			}
			for _, pid := range ev.BombExploded.DestroyedPlayers {
				destroyedPlayers[pid] = struct{}{}
			}
			for _, pos := range ev.BombExploded.DestroyedBlocks {
				destroyedBlocks[pos] = struct{}{}
			}
		}
	}

	for pos := range destroyedBlocks {
		delete(c.state.blocks, pos)
	}
	for pid := range destroyedPlayers {
		c.state.scores[pid]++
	}

	c.sendDrawLocked(c.gameDrawLocked(turn, dedupePositions(explosions)))
}

// lobbyDrawLocked builds the Draw(Lobby) frame for the current projection.
func (c *Client) lobbyDrawLocked() wire.DrawMessage {
	return wire.NewLobbyDraw(c.state.params, clonePlayers(c.state.players))
}

// gameDrawLocked builds the Draw(Game) frame for the current projection.
func (c *Client) gameDrawLocked(turn uint16, explosions []wire.Position) wire.DrawMessage {
	return wire.NewGameDraw(wire.DrawGameData{
		ServerName:      c.state.params.ServerName,
		SizeX:           c.state.params.SizeX,
		SizeY:           c.state.params.SizeY,
		GameLength:      c.state.params.GameLength,
		Turn:            turn,
		Players:         clonePlayers(c.state.players),
		PlayerPositions: clonePositions(c.state.positions),
		Blocks:          c.state.sortedBlockPositions(),
		Bombs:           c.state.sortedBombs(),
		Explosions:      explosions,
		Scores:          cloneScores(c.state.scores),
	})
}

// sendDrawLocked encodes and sends msg to the UI. A write failure is
// logged and otherwise ignored (§7: "Write failure to UI: log; continue").
func (c *Client) sendDrawLocked(msg wire.DrawMessage) {
	data, err := wire.EncodeDrawMessage(msg)
	if err != nil {
		c.logger.Printf("[client] dropping Draw, encode failed: %v", err)
		return
	}
	if _, err := c.uiConn.WriteToUDP(data, c.uiAddr); err != nil {
		c.logger.Printf("[client] write to UI failed: %v", err)
	}
}

// localExplosionCells derives the client's own visual explosion-cell walk
// for a bomb, used only to populate the Draw frame's Explosions set. The
// server's BombExploded payload (DestroyedPlayers/DestroyedBlocks) remains
// ground truth for what is actually destroyed, per §9's open question.
func localExplosionCells(center wire.Position, params wire.GameParams, blocks map[wire.Position]struct{}) ([]wire.Position, []wire.Position) {
	return boardgeom.ExplosionCells(center, params.ExplosionRadius, params.SizeX, params.SizeY,
		func(p wire.Position) bool { _, ok := blocks[p]; return ok })
}

func clonePlayers(m map[wire.PlayerId]wire.Player) map[wire.PlayerId]wire.Player {
	out := make(map[wire.PlayerId]wire.Player, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clonePositions(m map[wire.PlayerId]wire.Position) map[wire.PlayerId]wire.Position {
	out := make(map[wire.PlayerId]wire.Position, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneScores(m map[wire.PlayerId]wire.Score) map[wire.PlayerId]wire.Score {
	out := make(map[wire.PlayerId]wire.Score, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func dedupePositions(ps []wire.Position) []wire.Position {
	if len(ps) == 0 {
		return nil
	}
	seen := make(map[wire.Position]struct{}, len(ps))
	out := make([]wire.Position, 0, len(ps))
	for _, p := range ps {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
