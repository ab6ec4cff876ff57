package factory

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// Grid is a fixed-size, row-major array of optional machines.
type Grid struct {
	Geometry
	cells []Machine
}

func NewGrid(g Geometry) *Grid {
	return &Grid{Geometry: g, cells: make([]Machine, g.Cells())}
}

// At returns the machine at index, or nil for empty or out-of-range cells.
func (g *Grid) At(index int) Machine {
	if !g.InBounds(index) {
		return nil
	}
	return g.cells[index]
}

func (g *Grid) put(index int, m Machine) error {
	if !g.InBounds(index) {
		return ErrOutOfBounds
	}
	if g.cells[index] != nil {
		return ErrCellOccupied
	}
	g.cells[index] = m
	return nil
}

func (g *Grid) clear(index int) Machine {
	if !g.InBounds(index) {
		return nil
	}
	m := g.cells[index]
	g.cells[index] = nil
	return m
}

// ChestAt returns the chest at index when one is there.
func (g *Grid) ChestAt(index int) (*Chest, bool) {
	c, ok := g.At(index).(*Chest)
	return c, ok
}

// Occupied returns the indices of non-empty cells in row-major order.
func (g *Grid) Occupied() []int {
	out := make([]int, 0, 16)
	for i, m := range g.cells {
		if m != nil {
			out = append(out, i)
		}
	}
	return out
}

func (g *Grid) CountByKind() map[Kind]int {
	out := map[Kind]int{}
	for _, m := range g.cells {
		if m != nil {
			out[m.Kind()]++
		}
	}
	return out
}

// DepositToChest places amount units of item into the chest at chestIndex.
func (g *Grid) DepositToChest(chestIndex int, item string, amount int) bool {
	c, ok := g.ChestAt(chestIndex)
	if !ok {
		return false
	}
	return c.Deposit(item, amount)
}

// WithdrawFromChest removes amount units of item from a single slot of the
// chest at chestIndex.
func (g *Grid) WithdrawFromChest(chestIndex int, item string, amount int) bool {
	c, ok := g.ChestAt(chestIndex)
	if !ok {
		return false
	}
	return c.Withdraw(item, amount)
}

// Digest hashes every cell in index order. Equal grids hash equally.
func (g *Grid) Digest() string {
	h := sha256.New()
	h.Write([]byte(strconv.Itoa(g.Width) + "x" + strconv.Itoa(g.Height)))
	for i, m := range g.cells {
		if m == nil {
			continue
		}
		b, _ := json.Marshal(m)
		h.Write([]byte(strconv.Itoa(i) + ":" + string(m.Kind()) + ":"))
		h.Write(b)
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
