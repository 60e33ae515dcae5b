// Package boardgeom computes the explosion cell set a bomb's blast covers,
// used identically by the server (to determine what is actually destroyed,
// ground truth per §9) and by the client (to derive visual explosion
// cells for a Draw frame from its own projection).
package boardgeom

import "bombernet/internal/wire"

// direction is one of the four cardinal steps a blast walks along. Up
// increases Y, Right increases X, Down decreases Y, Left decreases X —
// matching §8 scenario 4's explicit mapping.
var steps = [4]struct{ dx, dy int32 }{
	wire.DirUp:    {dx: 0, dy: 1},
	wire.DirRight: {dx: 1, dy: 0},
	wire.DirDown:  {dx: 0, dy: -1},
	wire.DirLeft:  {dx: -1, dy: 0},
}

// Step returns the (dx, dy) a single move in d applies to a position. The
// server's Move-action handling and the blast walk above share this same
// mapping so a bomb's explosion and a player's step never disagree about
// which way is "up".
func Step(d wire.Direction) (dx, dy int32) {
	s := steps[d]
	return s.dx, s.dy
}

// ExplosionCells walks the four cardinal directions from center out to
// radius, stopping a direction's walk at the board edge or at the first
// block (the block itself is included in destroyedBlocks and the walk
// stops there; nothing past it is included). center is always part of
// cells regardless of what occupies it. isBlock reports whether a
// position currently holds a block.
func ExplosionCells(center wire.Position, radius, sizeX, sizeY uint16, isBlock func(wire.Position) bool) (cells []wire.Position, destroyedBlocks []wire.Position) {
	cells = append(cells, center)

	for _, step := range steps {
		x, y := int32(center.X), int32(center.Y)
		for i := uint16(1); i <= radius; i++ {
			x += step.dx
			y += step.dy
			if x < 0 || y < 0 || x >= int32(sizeX) || y >= int32(sizeY) {
				break
			}
			pos := wire.Position{X: uint16(x), Y: uint16(y)}
			if isBlock(pos) {
				destroyedBlocks = append(destroyedBlocks, pos)
				break
			}
			cells = append(cells, pos)
		}
	}
	return cells, destroyedBlocks
}
