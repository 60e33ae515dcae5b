package client

import "bombernet/internal/wire"

// state is the client's projection of the server's authoritative world,
// a pure fold of every ServerMessage received so far (§3 ClientState,
// invariant I6). Nothing outside this package's lock-protected access
// ever mutates it directly.
type state struct {
	helloReceived bool
	gameStarted   bool

	params wire.GameParams

	players   map[wire.PlayerId]wire.Player
	positions map[wire.PlayerId]wire.Position
	scores    map[wire.PlayerId]wire.Score
	blocks    map[wire.Position]struct{}
	bombs     map[wire.BombId]wire.Bomb
}

func newState() *state {
	return &state{
		players:   make(map[wire.PlayerId]wire.Player),
		positions: make(map[wire.PlayerId]wire.Position),
		scores:    make(map[wire.PlayerId]wire.Score),
		blocks:    make(map[wire.Position]struct{}),
		bombs:     make(map[wire.BombId]wire.Bomb),
	}
}

// resetGame clears everything GameEnded says must be cleared, returning
// to the post-Hello, pre-Join lobby projection (§4.4 GameEnded handling).
func (s *state) resetGame() {
	s.gameStarted = false
	s.positions = make(map[wire.PlayerId]wire.Position)
	s.scores = make(map[wire.PlayerId]wire.Score)
	s.blocks = make(map[wire.Position]struct{})
	s.bombs = make(map[wire.BombId]wire.Bomb)
}

func (s *state) sortedBlockPositions() []wire.Position {
	out := make([]wire.Position, 0, len(s.blocks))
	for p := range s.blocks {
		out = append(out, p)
	}
	sortPositions(out)
	return out
}

func (s *state) sortedBombs() []wire.Bomb {
	ids := make([]wire.BombId, 0, len(s.bombs))
	for id := range s.bombs {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	out := make([]wire.Bomb, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.bombs[id])
	}
	return out
}

func sortPositions(p []wire.Position) {
	for i := 1; i < len(p); i++ {
		for j := i; j > 0 && outOfOrder(p[j-1], p[j]); j-- {
			p[j-1], p[j] = p[j], p[j-1]
		}
	}
}

// outOfOrder reports whether a should come after b in ascending
// (X, then Y) order.
func outOfOrder(a, b wire.Position) bool {
	if a.X != b.X {
		return a.X > b.X
	}
	return a.Y > b.Y
}
