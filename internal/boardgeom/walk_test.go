package boardgeom

import (
	"reflect"
	"sort"
	"testing"

	"bombernet/internal/wire"
)

func TestExplosionCellsStopsAtBlockAndBoardEdge(t *testing.T) {
	blocks := map[wire.Position]struct{}{{X: 2, Y: 1}: {}}
	isBlock := func(p wire.Position) bool { _, ok := blocks[p]; return ok }

	cells, destroyedBlocks := ExplosionCells(wire.Position{X: 2, Y: 2}, 2, 5, 5, isBlock)

	wantCells := []wire.Position{
		{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 4},
		{X: 3, Y: 2}, {X: 4, Y: 2},
		{X: 1, Y: 2}, {X: 0, Y: 2},
	}
	wantBlocks := []wire.Position{{X: 2, Y: 1}}

	assertSamePositions(t, cells, wantCells)
	assertSamePositions(t, destroyedBlocks, wantBlocks)
}

func TestExplosionCellsStopsAtBoardEdgeWithoutOvershoot(t *testing.T) {
	isBlock := func(wire.Position) bool { return false }
	cells, destroyedBlocks := ExplosionCells(wire.Position{X: 0, Y: 0}, 3, 5, 5, isBlock)

	if len(destroyedBlocks) != 0 {
		t.Fatalf("expected no destroyed blocks, got %v", destroyedBlocks)
	}
	wantCells := []wire.Position{
		{X: 0, Y: 0},
		{X: 0, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: 3},
		{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0},
	}
	assertSamePositions(t, cells, wantCells)
}

func TestStepMapping(t *testing.T) {
	cases := []struct {
		dir    wire.Direction
		dx, dy int32
	}{
		{wire.DirUp, 0, 1},
		{wire.DirRight, 1, 0},
		{wire.DirDown, 0, -1},
		{wire.DirLeft, -1, 0},
	}
	for _, c := range cases {
		dx, dy := Step(c.dir)
		if dx != c.dx || dy != c.dy {
			t.Fatalf("Step(%v) = (%d,%d), want (%d,%d)", c.dir, dx, dy, c.dx, c.dy)
		}
	}
}

func assertSamePositions(t *testing.T, got, want []wire.Position) {
	t.Helper()
	sortPos := func(ps []wire.Position) {
		sort.Slice(ps, func(i, j int) bool {
			if ps[i].X != ps[j].X {
				return ps[i].X < ps[j].X
			}
			return ps[i].Y < ps[j].Y
		})
	}
	gotCopy := append([]wire.Position(nil), got...)
	wantCopy := append([]wire.Position(nil), want...)
	sortPos(gotCopy)
	sortPos(wantCopy)
	if !reflect.DeepEqual(gotCopy, wantCopy) {
		t.Fatalf("got %v, want %v", gotCopy, wantCopy)
	}
}
