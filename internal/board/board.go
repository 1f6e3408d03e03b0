// Package board implements the minesweeper grid: mine placement, adjacency
// counts, flood reveal, flags and defused mines.
package board

import "fmt"

// Source is the randomness the board needs to place mines.
type Source interface {
	Intn(n int) int
}

// Cell is a single square of the grid
type Cell struct {
	HasMine   bool
	IsOpen    bool
	IsFlagged bool
	IsDefused bool
	Adjacent  int8 // -1 for mines
}

// Detonated reports whether the cell shows an exploded mine
func (c Cell) Detonated() bool {
	return c.IsOpen && c.HasMine && !c.IsDefused
}

// Point is a grid coordinate
type Point struct {
	X, Y int
}

// Label returns the coordinate as column letter and 1-based row, e.g. "C7"
func (p Point) Label() string {
	return fmt.Sprintf("%c%d", 'A'+p.X, p.Y+1)
}

// OpenResult is the outcome of opening a cell
type OpenResult int

const (
	NoOp OpenResult = iota
	Opened
	MineEncountered
)

func (r OpenResult) String() string {
	switch r {
	case Opened:
		return "opened"
	case MineEncountered:
		return "mine"
	default:
		return "noop"
	}
}

// Board is a square grid with a fixed number of mines
type Board struct {
	size  int
	mines int
	cells [][]Cell
}

// Generate creates a size×size board with mineCount mines placed by rejection sampling.
func Generate(size, mineCount int, rng Source) *Board {
	if size <= 0 || mineCount < 0 || mineCount >= size*size {
		panic(fmt.Sprintf("board: cannot place %d mines on a %dx%d grid", mineCount, size, size))
	}

	cells := make([][]Cell, size)
	for y := range size {
		cells[y] = make([]Cell, size)
	}
	b := &Board{size: size, mines: mineCount, cells: cells}

	placed := 0
	for placed < mineCount {
		x, y := rng.Intn(size), rng.Intn(size)
		if !b.cells[y][x].HasMine {
			b.cells[y][x].HasMine = true
			placed++
		}
	}
	b.countAdjacent()
	return b
}

func (b *Board) countAdjacent() {
	for y := range b.size {
		for x := range b.size {
			if b.cells[y][x].HasMine {
				b.cells[y][x].Adjacent = -1
				continue
			}
			var n int8
			for _, p := range b.Neighbors(x, y) {
				if b.cells[p.Y][p.X].HasMine {
					n++
				}
			}
			b.cells[y][x].Adjacent = n
		}
	}
}

// Size returns the side length of the grid
func (b *Board) Size() int { return b.size }

// MineCount returns the number of mines on the board
func (b *Board) MineCount() int { return b.mines }

// At returns a copy of the cell at (x, y)
func (b *Board) At(x, y int) Cell {
	return *b.cell(x, y)
}

// InRange reports whether (x, y) lies on the grid
func (b *Board) InRange(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

func (b *Board) cell(x, y int) *Cell {
	if !b.InRange(x, y) {
		panic(fmt.Sprintf("board: coordinate (%d,%d) out of range for size %d", x, y, b.size))
	}
	return &b.cells[y][x]
}

// Neighbors returns the up to 8 grid-clamped neighbours of (x, y)
func (b *Board) Neighbors(x, y int) []Point {
	out := make([]Point, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if b.InRange(nx, ny) {
				out = append(out, Point{nx, ny})
			}
		}
	}
	return out
}

// Open opens the cell at (x, y).
//
// Already open or flagged cells are left untouched (NoOp). An un-defused mine
// is reported as MineEncountered without changing the cell; the caller decides
// between a quiz and an effect. A defused mine is simply marked open. Any other
// cell is flood revealed.
func (b *Board) Open(x, y int) OpenResult {
	c := b.cell(x, y)
	if c.IsOpen || c.IsFlagged {
		return NoOp
	}
	if c.HasMine && !c.IsDefused {
		return MineEncountered
	}
	if c.HasMine {
		c.IsOpen = true
		return Opened
	}
	b.Flood(x, y)
	return Opened
}

// Flood opens (x, y) and expands through zero-adjacency cells. Flagged cells
// and un-defused mines stop the expansion and stay closed.
func (b *Board) Flood(x, y int) []Point {
	var opened []Point
	stack := []Point{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := b.cell(p.X, p.Y)
		if c.IsOpen || c.IsFlagged || (c.HasMine && !c.IsDefused) {
			continue
		}
		c.IsOpen = true
		opened = append(opened, p)

		if c.Adjacent != 0 {
			continue
		}
		for _, n := range b.Neighbors(p.X, p.Y) {
			nc := b.cells[n.Y][n.X]
			if !nc.IsOpen && !nc.IsFlagged && !(nc.HasMine && !nc.IsDefused) {
				stack = append(stack, n)
			}
		}
	}
	return opened
}

// MarkDefused neutralises the mine at (x, y) and opens it. Score and turn
// consequences belong to the caller.
func (b *Board) MarkDefused(x, y int) {
	c := b.cell(x, y)
	if !c.HasMine {
		panic(fmt.Sprintf("board: defusing (%d,%d) which has no mine", x, y))
	}
	c.IsDefused = true
	c.IsOpen = true
}

// MarkDetonated opens an un-defused mine so it shows as exploded
func (b *Board) MarkDetonated(x, y int) {
	b.cell(x, y).IsOpen = true
}

// SetFlag sets the flag on a closed cell; open cells are ignored
func (b *Board) SetFlag(x, y int, value bool) bool {
	c := b.cell(x, y)
	if c.IsOpen || c.IsFlagged == value {
		return false
	}
	c.IsFlagged = value
	return true
}

// ToggleFlag flips the flag on a closed cell
func (b *Board) ToggleFlag(x, y int) bool {
	c := b.cell(x, y)
	return b.SetFlag(x, y, !c.IsFlagged)
}

// IsFullyCleared reports whether every mine has been defused
func (b *Board) IsFullyCleared(defused int) bool {
	return defused == b.mines
}

// SafeClosed lists closed, unflagged cells that are safe to open
func (b *Board) SafeClosed() []Point {
	var out []Point
	for y := range b.size {
		for x := range b.size {
			c := b.cells[y][x]
			if !c.IsOpen && !c.IsFlagged && !(c.HasMine && !c.IsDefused) {
				out = append(out, Point{x, y})
			}
		}
	}
	return out
}

// OpenCount returns the number of open cells
func (b *Board) OpenCount() int {
	n := 0
	for y := range b.size {
		for x := range b.size {
			if b.cells[y][x].IsOpen {
				n++
			}
		}
	}
	return n
}

// Cells returns a copy of the grid, rows first
func (b *Board) Cells() [][]Cell {
	out := make([][]Cell, b.size)
	for y := range b.size {
		out[y] = make([]Cell, b.size)
		copy(out[y], b.cells[y])
	}
	return out
}

// FromCells builds a board from a fixed mine layout and recomputes adjacency.
func FromCells(cells [][]Cell) *Board {
	size := len(cells)
	b := &Board{size: size, cells: make([][]Cell, size)}
	for y := range size {
		if len(cells[y]) != size {
			panic("board: layout is not square")
		}
		b.cells[y] = make([]Cell, size)
		copy(b.cells[y], cells[y])
		for x := range size {
			if cells[y][x].HasMine {
				b.mines++
			}
		}
	}
	b.countAdjacent()
	return b
}

// FromMines builds a size×size board with mines at the given points
func FromMines(size int, mines []Point) *Board {
	cells := make([][]Cell, size)
	for y := range size {
		cells[y] = make([]Cell, size)
	}
	for _, p := range mines {
		cells[p.Y][p.X].HasMine = true
	}
	return FromCells(cells)
}
