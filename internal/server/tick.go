package server

import (
	"sort"
	"time"

	"bombernet/internal/boardgeom"
	"bombernet/internal/wire"
)

// playerActionType (declared in state.go alongside the pendingActions map
// that holds it) is interpreted by tickStep below.

// runTickLoop is the single logical thread that advances the game clock.
// It waits for a lobby to fill, builds turn 0, then ticks at
// cfg.TurnDuration intervals (absolute deadlines, so a late tick never
// drifts the schedule) until the terminal turn is broadcast, then waits
// for the next lobby to fill. This never returns; Run starts it once as
// a goroutine.
func (s *Server) runTickLoop() {
	for {
		<-s.startSignal
		s.startGame()

		deadline := time.Now()
		for {
			deadline = deadline.Add(s.cfg.TurnDuration)
			time.Sleep(time.Until(deadline))
			if s.tickStep() {
				break
			}
		}
	}
}

// startGame builds turn 0 per §4.3 "Game start": every accepted player is
// placed (two rng draws each, in PlayerId order), then cfg.InitialBlocks
// positions are drawn for blocks, duplicates skipped without a retry
// draw (the non-retry is intentional, preserved for determinism per §9).
func (s *Server) startGame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ph = phaseInGame

	var events []wire.Event
	for _, id := range s.state.sortedPlayerIDs() {
		pos := s.rng.position(s.state.params.SizeX, s.state.params.SizeY)
		s.state.positions[id] = pos
		s.state.scores[id] = 0
		events = append(events, wire.NewPlayerMovedEvent(id, pos))
	}

	for i := uint16(0); i < s.cfg.InitialBlocks; i++ {
		pos := s.rng.position(s.state.params.SizeX, s.state.params.SizeY)
		if _, exists := s.state.blocks[pos]; exists {
			continue
		}
		s.state.blocks[pos] = struct{}{}
		events = append(events, wire.NewBlockPlacedEvent(pos))
	}

	started := wire.NewGameStartedMessage(copyPlayers(s.state.acceptedPlayers))
	s.state.gameStartedMsg = &started
	s.broadcastLocked(started)

	turn0 := wire.NewTurnMessage(0, events)
	s.state.turnHistory = append(s.state.turnHistory, turn0)
	s.broadcastLocked(turn0)

	s.logger.Printf("[server] game started: %d players, %d blocks placed", len(s.state.acceptedPlayers), len(s.state.blocks))
	s.state.turn = 1
}

// tickStep advances the game by one turn per §4.3 "Tick step": detonate
// bombs, apply per-player actions (respawning anyone destroyed this
// turn instead), remove destroyed blocks, score, and broadcast. It
// returns true once the terminal turn (turn == GameLength) has been
// broadcast and GameEnded has followed, in which case the state has
// already been reset to Lobby.
func (s *Server) tickStep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := s.state.turn
	pending := s.state.pendingActions
	s.state.pendingActions = make(map[wire.PlayerId]playerAction)

	var events []wire.Event
	destroyedPlayersThisTurn := make(map[wire.PlayerId]struct{})
	destroyedBlocksThisTurn := make(map[wire.Position]struct{})

	for _, bombID := range s.state.sortedBombIDs() {
		bomb := s.state.bombs[bombID]
		bomb.Timer--
		if bomb.Timer != 0 {
			s.state.bombs[bombID] = bomb
			continue
		}
		cells, destroyedBlocks := boardgeom.ExplosionCells(
			bomb.Position, s.state.params.ExplosionRadius, s.state.params.SizeX, s.state.params.SizeY,
			func(p wire.Position) bool { _, ok := s.state.blocks[p]; return ok },
		)

		destroyed := destroyedPlayersInCells(s.state.positions, cells)
		for _, pid := range destroyed {
			destroyedPlayersThisTurn[pid] = struct{}{}
		}
		for _, b := range destroyedBlocks {
			destroyedBlocksThisTurn[b] = struct{}{}
		}

		events = append(events, wire.NewBombExplodedEvent(bombID, destroyed, destroyedBlocks))
		delete(s.state.bombs, bombID)
	}

	for _, id := range s.state.sortedPlayerIDs() {
		if _, destroyed := destroyedPlayersThisTurn[id]; destroyed {
			pos := s.rng.position(s.state.params.SizeX, s.state.params.SizeY)
			s.state.positions[id] = pos
			events = append(events, wire.NewPlayerMovedEvent(id, pos))
			continue
		}

		action, ok := pending[id]
		if !ok {
			continue
		}
		switch action.kind {
		case actionPlaceBomb:
			bombID := s.state.nextBombID
			s.state.nextBombID++
			pos := s.state.positions[id]
			s.state.bombs[bombID] = wire.Bomb{Position: pos, Timer: s.state.params.BombTimer}
			events = append(events, wire.NewBombPlacedEvent(bombID, pos))
		case actionPlaceBlock:
			pos := s.state.positions[id]
			if _, exists := s.state.blocks[pos]; !exists {
				s.state.blocks[pos] = struct{}{}
				events = append(events, wire.NewBlockPlacedEvent(pos))
			}
		case actionMove:
			pos := s.state.positions[id]
			if target, ok := moveTarget(pos, action.dir, s.state.params.SizeX, s.state.params.SizeY); ok {
				if _, blocked := s.state.blocks[target]; !blocked {
					s.state.positions[id] = target
					events = append(events, wire.NewPlayerMovedEvent(id, target))
				}
			}
		}
	}

	for pos := range destroyedBlocksThisTurn {
		delete(s.state.blocks, pos)
	}
	for pid := range destroyedPlayersThisTurn {
		s.state.scores[pid]++
	}

	turnMsg := wire.NewTurnMessage(turn, events)
	s.state.turnHistory = append(s.state.turnHistory, turnMsg)
	s.broadcastLocked(turnMsg)
	s.state.turn++

	if turn != s.cfg.GameLength {
		return false
	}

	ended := wire.NewGameEndedMessage(copyScores(s.state.scores))
	s.broadcastLocked(ended)
	s.logger.Printf("[server] game ended at turn %d, scores: %v", turn, ended.EndedScores)
	s.state.reset()
	// Every open connection may Join the next game, including the ones
	// that played this one.
	for _, sub := range s.subs {
		sub.playerID = nil
	}
	return true
}

// destroyedPlayersInCells returns, sorted ascending by PlayerId for
// reproducible output (P4), every player currently standing on one of
// cells.
func destroyedPlayersInCells(positions map[wire.PlayerId]wire.Position, cells []wire.Position) []wire.PlayerId {
	var destroyed []wire.PlayerId
	for pid, pos := range positions {
		for _, c := range cells {
			if c == pos {
				destroyed = append(destroyed, pid)
				break
			}
		}
	}
	sort.Slice(destroyed, func(i, j int) bool { return destroyed[i] < destroyed[j] })
	return destroyed
}

// moveTarget computes the cell a Move(dir) action lands on, reporting
// false when it would fall outside the board. Block-occupancy is checked
// by the caller, which already holds the lock needed to read s.state.
func moveTarget(pos wire.Position, dir wire.Direction, sizeX, sizeY uint16) (wire.Position, bool) {
	dx, dy := boardgeom.Step(dir)
	x := int32(pos.X) + dx
	y := int32(pos.Y) + dy
	if x < 0 || y < 0 || x >= int32(sizeX) || y >= int32(sizeY) {
		return wire.Position{}, false
	}
	return wire.Position{X: uint16(x), Y: uint16(y)}, true
}
