package server

import "bombernet/internal/wire"

// rng is the server's deterministic random source: a linear congruential
// generator, state0 = seed, state_{n+1} = (state_n * 48271) mod 2147483647.
// It must only be driven from the tick loop goroutine (or under the same
// lock protecting serverState) so that the emitted byte stream is
// reproducible for a fixed seed — see testable property P4.
type rng struct {
	state uint64
}

const (
	rngMultiplier = 48271
	rngModulo     = 2147483647
)

func newRNG(seed uint32) *rng {
	return &rng{state: uint64(seed)}
}

// next draws the next value in the sequence and advances the state.
func (r *rng) next() uint32 {
	r.state = (r.state * rngMultiplier) % rngModulo
	return uint32(r.state)
}

// position draws two values in order (x then y) and folds them into a
// board position within [0,sizeX) x [0,sizeY).
func (r *rng) position(sizeX, sizeY uint16) wire.Position {
	x := uint16(r.next() % uint32(sizeX))
	y := uint16(r.next() % uint32(sizeY))
	return wire.Position{X: x, Y: y}
}
